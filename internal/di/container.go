package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	exportcmd "github.com/namaewanam/notes/internal/commands/export"
	"github.com/namaewanam/notes/internal/content"
	"github.com/namaewanam/notes/internal/export"
	"github.com/namaewanam/notes/internal/httpapi"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/internal/logging/console"
	"github.com/namaewanam/notes/internal/logging/gologger"
	"github.com/namaewanam/notes/internal/markdown"
	"github.com/namaewanam/notes/internal/runtimeconfig"
	"github.com/namaewanam/notes/internal/search"
	"github.com/namaewanam/notes/internal/views"
	"github.com/namaewanam/notes/internal/watch"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// ErrWatchDisabled is returned by Watcher when the cache is not enabled.
var ErrWatchDisabled = errors.New("di: watching requires the content cache")

// Container wires the notes services from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer

	fsys     fs.FS
	renderer interfaces.MarkdownParser
	clock    func() time.Time
	ids      func() uuid.UUID

	bunDB     *bun.DB
	ownsDB    bool
	viewsRepo views.Repository

	indexer       *content.Indexer
	cached        *content.CachedSource
	contentSvc    content.Service
	exporter      *export.Exporter
	exportHandler *exportcmd.ExportSnapshotHandler
	registry      exportcmd.CommandRegistry
	searcher      *search.Searcher
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCommandRegistry registers the export command handler with reg.
func WithCommandRegistry(reg exportcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithLogWriter redirects the console provider output. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithFS replaces os.DirFS(Config.Content.Dir) as the content root.
func WithFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.fsys = fsys
	}
}

// WithRenderer overrides the default goldmark renderer.
func WithRenderer(renderer interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithBunDB backs the sqlite views provider with an existing database. The
// container does not close databases it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithViewsRepository bypasses Config.Views entirely.
func WithViewsRepository(repo views.Repository) Option {
	return func(c *Container) {
		c.viewsRepo = repo
	}
}

// WithClock fixes export timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithIDGenerator fixes export build ids.
func WithIDGenerator(ids func() uuid.UUID) Option {
	return func(c *Container) {
		c.ids = ids
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureContent()
	if err := c.configureExport(); err != nil {
		return nil, err
	}
	c.configureSearch()
	if err := c.configureViews(); err != nil {
		return nil, err
	}
	if c.renderer == nil {
		c.renderer = markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(cfg.Level)
		writer := c.logWriter
		if writer == nil {
			writer = os.Stderr
		}
		c.loggerProvider = console.NewProvider(console.Options{Writer: writer, MinLevel: &level})
	}
	return nil
}

func (c *Container) configureContent() {
	if c.fsys == nil {
		c.fsys = os.DirFS(c.Config.Content.Dir)
	}
	logger := logging.ContentLogger(c.loggerProvider)
	c.indexer = content.NewIndexer(c.fsys,
		content.WithLogger(logger),
		content.WithExtension(c.Config.Content.Extension),
	)

	var source content.Source = c.indexer
	if c.Config.Cache.Enabled {
		c.cached = content.NewCachedSource(c.indexer, c.Config.Cache.Size)
		source = c.cached
	}
	c.contentSvc = content.NewService(source, content.WithServiceLogger(logger))
}

func (c *Container) configureExport() error {
	opts := []export.Option{export.WithLogger(logging.ExportLogger(c.loggerProvider))}
	if c.clock != nil {
		opts = append(opts, export.WithClock(c.clock))
	}
	if c.ids != nil {
		opts = append(opts, export.WithIDGenerator(c.ids))
	}
	c.exporter = export.NewExporter(c.contentSvc, opts...)

	handler, err := exportcmd.RegisterExportCommands(c.registry, c.exporter, c.loggerProvider)
	if err != nil {
		return fmt.Errorf("di: register export commands: %w", err)
	}
	c.exportHandler = handler
	return nil
}

func (c *Container) configureSearch() {
	c.searcher = search.New(search.FileLoader(c.Config.Search.SnapshotPath),
		search.WithMinQueryLength(c.Config.Search.MinQueryLength),
		search.WithLimit(c.Config.Search.Limit),
		search.WithLogger(logging.SearchLogger(c.loggerProvider)),
	)
}

func (c *Container) configureViews() error {
	if c.viewsRepo != nil {
		return nil
	}
	logger := logging.ViewsLogger(c.loggerProvider)
	switch strings.ToLower(strings.TrimSpace(c.Config.Views.Provider)) {
	case "sqlite":
		if c.bunDB == nil {
			db, err := views.OpenSQLite(context.Background(), c.Config.Views.DSN)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsDB = true
		} else if err := views.EnsureSchema(context.Background(), c.bunDB); err != nil {
			return err
		}
		c.viewsRepo = views.NewBunRepository(c.bunDB)
		logger.Debug("views.provider.ready", "provider", "sqlite")
	default:
		c.viewsRepo = views.NewMemoryRepository()
		logger.Debug("views.provider.ready", "provider", "memory")
	}
	return nil
}

// LoggerProvider returns the provider every module logger derives from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

// CachedSource returns nil unless Config.Cache is enabled.
func (c *Container) CachedSource() *content.CachedSource {
	return c.cached
}

func (c *Container) Exporter() *export.Exporter {
	return c.exporter
}

func (c *Container) ExportHandler() *exportcmd.ExportSnapshotHandler {
	return c.exportHandler
}

func (c *Container) Searcher() *search.Searcher {
	return c.searcher
}

func (c *Container) ViewsRepository() views.Repository {
	return c.viewsRepo
}

func (c *Container) Renderer() interfaces.MarkdownParser {
	return c.renderer
}

// Watcher returns a watcher that invalidates the cached source on change.
// The cache starts memoising once the watcher is ready; callers detach it
// with CachedSource().SetWatched(false) when Run returns.
func (c *Container) Watcher() (*watch.Watcher, error) {
	if c.cached == nil {
		return nil, ErrWatchDisabled
	}
	logger := logging.WatchLogger(c.loggerProvider)
	cached := c.cached
	return watch.New(func(paths []string) {
		cached.Invalidate()
		logger.Info("watch.cache.invalidated", "paths", len(paths))
	},
		watch.WithDebounce(c.Config.Watch.Debounce),
		watch.WithLogger(logger),
		watch.WithReady(func() { cached.SetWatched(true) }),
	), nil
}

// HTTPHandler builds the chi router over the configured services.
func (c *Container) HTTPHandler() http.Handler {
	api := httpapi.NewAPI(c.contentSvc,
		httpapi.WithRenderer(c.renderer),
		httpapi.WithViews(c.viewsRepo),
		httpapi.WithSearcher(c.searcher),
		httpapi.WithSnapshotPath(c.Config.Export.OutputPath),
		httpapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	return api.Router()
}

// Close releases the database opened for the sqlite views provider.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}
