package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func rebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Push index settings and reindex every declared type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			n, err := a.Reindex(cmd.Context())
			if err != nil {
				return fmt.Errorf("rebuild %s: %w", a.backend.IndexName(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents into %s in %s\n",
				n, a.backend.IndexName(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
