package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchsync/internal/config"
)

var (
	envName  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "searchsync",
	Short: "Keep a hosted search index in sync with your content",
	Long: `searchsync indexes PostgreSQL-backed content types into Algolia or
Meilisearch and maps search hits back to rows.

Types, tables and the target index are declared in config/<env>.yaml.

Example usage:
  searchsync rebuild                       # Push index settings and reindex every type
  searchsync search "hello" -t blog.BlogPage -f category
  searchsync serve                         # Run the HTTP API`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", config.GetEnv(), "config environment (local, dev, prod)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd(), rebuildCmd(), searchCmd(), versionCmd())
}
