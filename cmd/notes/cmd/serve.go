package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/namaewanam/notes"
	"github.com/namaewanam/notes/internal/httpapi"
	"github.com/namaewanam/notes/internal/logging"
)

type serveOptions struct {
	addr  string
	watch bool
}

func newServeCmd(global *globalOptions) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the read-only JSON API until interrupted. With --watch the
content tree is cached and refreshed whenever a file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := global.openModule(cmd, func(cfg *notes.Config) {
				if opts.addr != "" {
					cfg.Server.Addr = opts.addr
				}
				if opts.watch {
					cfg.Cache.Enabled = true
					cfg.Watch.Enabled = true
				}
			})
			if err != nil {
				return err
			}
			defer m.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, m)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Cache the content tree and refresh it on file changes")

	return cmd
}

func runServe(ctx context.Context, m *notes.Module) error {
	cfg := m.Container().Config
	logger := logging.HTTPLogger(m.Container().LoggerProvider())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	if cfg.Watch.Enabled {
		go func() {
			err := m.Watch(ctx)
			if err != nil {
				// Watch leaves the cache detached, so requests re-walk the tree.
				logger.Error("watch.failed", "error", err, "cache", "off")
			}
			watchErr <- err
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      m.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Info("http.server.listening", "addr", cfg.Server.Addr, "watch", cfg.Watch.Enabled)

	err := httpapi.Serve(ctx, srv, cfg.Server.ShutdownTimeout)
	cancel()
	if cfg.Watch.Enabled {
		if werr := <-watchErr; werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("http.server.stopped")
	return nil
}
