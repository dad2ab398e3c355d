package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namaewanam/notes"
)

type showOutput struct {
	Post     notes.Post     `json:"post"`
	HTML     string         `json:"html,omitempty"`
	Adjacent notes.Adjacent `json:"adjacent"`
	ViewKey  string         `json:"viewKey"`
}

func newShowCmd(global *globalOptions) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "show <category> <fullPath>",
		Short: "Show one post with its neighbours",
		Example: `  notes show java basics/variables
  notes show java basics/variables --html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := global.openModule(cmd, nil)
			if err != nil {
				return err
			}
			defer m.Close()

			post, ok, err := m.Content().GetPostBySlug(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("post %s/%s not found", args[0], args[1])
			}
			adjacent, err := m.Content().GetAdjacentPosts(cmd.Context(), args[0], post)
			if err != nil {
				return err
			}

			out := showOutput{
				Post: post,
				Adjacent: notes.Adjacent{
					Previous: withoutBody(adjacent.Previous),
					Next:     withoutBody(adjacent.Next),
				},
				ViewKey: notes.ViewKey(post),
			}
			if html {
				rendered, err := m.Container().Renderer().Parse([]byte(post.Content))
				if err != nil {
					return err
				}
				out.HTML = string(rendered)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Include the rendered HTML body")
	return cmd
}

func withoutBody(post *notes.Post) *notes.Post {
	if post == nil {
		return nil
	}
	clone := *post
	clone.Content = ""
	return &clone
}
