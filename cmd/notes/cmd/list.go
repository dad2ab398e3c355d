package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/namaewanam/notes"
)

type listOptions struct {
	category string
	format   string
}

func newListCmd(global *globalOptions) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := global.openModule(cmd, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			var posts []notes.Post
			if opts.category != "" {
				posts, err = m.Content().ListPostsByCategory(cmd.Context(), opts.category)
			} else {
				posts, err = m.Content().ListAllPosts(cmd.Context())
			}
			if err != nil {
				return err
			}

			if opts.format == "json" {
				for i := range posts {
					posts[i].Content = ""
				}
				return writeJSON(cmd.OutOrStdout(), posts)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, post := range posts {
				fmt.Fprintf(tw, "%s/%s\t%s\t%s\n", post.Category, post.FullPath, post.Title, post.Date)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "Only list posts of this category")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func newCategoriesCmd(global *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with post counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := global.openModule(cmd, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			categories, err := m.Content().ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, category := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", category.Slug, category.Name, category.Count)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}
