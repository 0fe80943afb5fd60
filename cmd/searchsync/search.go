package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchsync"
)

func searchCmd() *cobra.Command {
	var (
		typeName   string
		facets     []string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index and print the matching objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.catalog.Registry.Resolve(typeName)
			if err != nil {
				return err
			}
			res := a.backend.Search(args[0], searchsync.All(t))
			insts, err := res.Results(ctx)
			if err != nil {
				return err
			}
			total, err := res.Total(ctx)
			if err != nil {
				return err
			}
			counts := make(map[string][]searchsync.FacetCount, len(facets))
			for _, f := range facets {
				if counts[f], err = res.Facet(ctx, f); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				docs := make([]searchsync.Document, len(insts))
				for i, inst := range insts {
					docs[i] = searchsync.BuildDocument(inst)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"total": total, "items": docs, "facets": counts})
			}

			fmt.Fprintf(out, "%d of %d hits\n", len(insts), total)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, inst := range insts {
				fmt.Fprintf(tw, "%d\t%s\n", i+1, searchsync.ObjectID(inst))
			}
			_ = tw.Flush()
			for _, f := range facets {
				fmt.Fprintf(out, "\n%s:\n", f)
				for _, c := range counts[f] {
					fmt.Fprintf(out, "  %v\t%d\n", c.Value, c.Count)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "wagtailcore.Page", "qualified type name to search within")
	cmd.Flags().StringSliceVarP(&facets, "facet", "f", nil, "filter field to facet on (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
