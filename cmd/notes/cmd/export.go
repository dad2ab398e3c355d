package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namaewanam/notes"
)

type exportOptions struct {
	output     string
	noManifest bool
	sitemap    bool
	baseURL    string
}

func newExportCmd(global *globalOptions) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the posts.json snapshot",
		Long: `Walk every category and write the JSON snapshot used by search,
plus an export manifest and, optionally, a sitemap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := global.openModule(cmd, func(cfg *notes.Config) {
				if opts.output != "" {
					cfg.Export.OutputPath = opts.output
				}
				if opts.noManifest {
					cfg.Export.Manifest = false
				}
				if opts.sitemap {
					cfg.Export.Sitemap = true
				}
				if opts.baseURL != "" {
					cfg.Export.BaseURL = opts.baseURL
				}
			})
			if err != nil {
				return err
			}
			defer m.Close()

			result, err := m.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d posts to %s (build %s)\n", result.Posts, result.OutputPath, result.BuildID)
			if result.ManifestPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "manifest: %s\n", result.ManifestPath)
			}
			if result.SitemapPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "sitemap: %s\n", result.SitemapPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Snapshot path (overrides export.output_path)")
	cmd.Flags().BoolVar(&opts.noManifest, "no-manifest", false, "Skip the export manifest")
	cmd.Flags().BoolVar(&opts.sitemap, "sitemap", false, "Also write sitemap.xml")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Absolute site URL used in the sitemap")

	return cmd
}
