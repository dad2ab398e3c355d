package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namaewanam/notes"
)

type searchOptions struct {
	limit    int
	snapshot string
	format   string
}

func newSearchCmd(global *globalOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the exported snapshot",
		Long: `Match the query against title, description and category name of every
post in the exported snapshot. Run "notes export" first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := global.openModule(cmd, func(cfg *notes.Config) {
				if opts.limit > 0 {
					cfg.Search.Limit = opts.limit
				}
				if opts.snapshot != "" {
					cfg.Search.SnapshotPath = opts.snapshot
				}
			})
			if err != nil {
				return err
			}
			defer m.Close()

			results := m.Search(cmd.Context(), strings.Join(args, " "))
			if opts.format == "json" {
				if results == nil {
					results = []notes.SearchResult{}
				}
				return writeJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no results")
				return nil
			}
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", result.URL, result.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (overrides search.limit)")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Snapshot path (overrides search.snapshot_path)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}
