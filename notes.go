// Package notes indexes a directory tree of Markdown articles and serves
// ordered listings, lookups, adjacent-article navigation, a static JSON
// snapshot and substring search over it.
package notes

import (
	"context"
	"net/http"

	exportcmd "github.com/namaewanam/notes/internal/commands/export"
	"github.com/namaewanam/notes/internal/content"
	"github.com/namaewanam/notes/internal/di"
	"github.com/namaewanam/notes/internal/export"
	"github.com/namaewanam/notes/internal/search"
	"github.com/namaewanam/notes/internal/views"
)

// ContentService exports the query surface contract.
type ContentService = content.Service

// Post is one indexed article.
type Post = content.Post

// Category is a top-level content directory with its post count.
type Category = content.Category

// Adjacent holds the neighbours of a post.
type Adjacent = content.Adjacent

// ExportResult describes a written snapshot.
type ExportResult = export.Result

// SearchResult is a snapshot entry matching a query.
type SearchResult = search.Result

// ViewsRepository exports the view-count store contract.
type ViewsRepository = views.Repository

// ErrAmbiguousCategory is returned when two directories fold to the same slug.
var ErrAmbiguousCategory = content.ErrAmbiguousCategory

// IsAmbiguousCategory reports whether err stems from an ambiguous category.
func IsAmbiguousCategory(err error) bool {
	return content.IsAmbiguousCategory(err)
}

// ViewKey returns the view-count key of post.
func ViewKey(post Post) string {
	return content.ViewKey(post)
}

// Module represents the top level notes runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured query surface.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Export writes the snapshot described by Config.Export through the export
// command handler.
func (m *Module) Export(ctx context.Context) (ExportResult, error) {
	cfg := m.container.Config.Export
	var result ExportResult
	err := m.container.ExportHandler().Execute(ctx, exportcmd.ExportSnapshotCommand{
		OutputPath: cfg.OutputPath,
		Manifest:   cfg.Manifest,
		Sitemap:    cfg.Sitemap,
		BaseURL:    cfg.BaseURL,
		ResultCallback: func(env exportcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil {
		return ExportResult{}, err
	}
	return result, nil
}

// Search matches query against the exported snapshot.
func (m *Module) Search(ctx context.Context, query string) []SearchResult {
	return m.container.Searcher().Search(ctx, query)
}

// Views returns the configured view-count store.
func (m *Module) Views() ViewsRepository {
	return m.container.ViewsRepository()
}

// Handler returns the HTTP API.
func (m *Module) Handler() http.Handler {
	return m.container.HTTPHandler()
}

// Watch invalidates the content cache on changes under Config.Content.Dir
// until ctx is cancelled. It requires Config.Cache.Enabled. The cache only
// memoises while Watch is running.
func (m *Module) Watch(ctx context.Context) error {
	w, err := m.container.Watcher()
	if err != nil {
		return err
	}
	defer m.container.CachedSource().SetWatched(false)
	return w.Run(ctx, m.container.Config.Content.Dir)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
