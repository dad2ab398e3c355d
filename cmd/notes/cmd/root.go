// Package cmd provides the CLI commands for notes.
package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namaewanam/notes"
	"github.com/namaewanam/notes/internal/di"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	contentDir string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root command for the notes CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Index and serve a directory of Markdown articles",
		Long: `notes indexes a docs/<Category>/**/*.md tree and answers listing,
lookup and navigation queries over it.

Examples:
  notes list --category java
  notes show java basics/variables
  notes export --output public/posts.json
  notes serve --watch`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.contentDir, "content-dir", "", "Content root (overrides content.dir)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (json, console, pretty); selects the gologger provider")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newCategoriesCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// config loads the configuration and applies flag overrides on top.
func (o *globalOptions) config() (notes.Config, error) {
	cfg, err := notes.LoadConfig(o.configPath)
	if err != nil {
		return notes.Config{}, err
	}
	if dir := strings.TrimSpace(o.contentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(o.logFormat); format != "" {
		cfg.Logging.Format = format
		cfg.Logging.Provider = "gologger"
	}
	return cfg, nil
}

// openModule builds a module whose logs go to the command's stderr. mutate
// may adjust the configuration before validation.
func (o *globalOptions) openModule(cmd *cobra.Command, mutate func(*notes.Config)) (*notes.Module, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return notes.New(cfg, di.WithLogWriter(cmd.ErrOrStderr()))
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(value)
}
