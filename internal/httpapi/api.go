package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/namaewanam/notes/internal/content"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/internal/search"
	"github.com/namaewanam/notes/internal/views"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// Searcher answers free-text queries over the exported snapshot.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
}

// API serves the query surface.
type API struct {
	posts        content.Service
	renderer     interfaces.MarkdownParser
	views        views.Repository
	searcher     Searcher
	snapshotPath string
	logger       interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// WithRenderer sets the Markdown renderer used for single-post responses.
func WithRenderer(renderer interfaces.MarkdownParser) Option {
	return func(api *API) {
		api.renderer = renderer
	}
}

// WithViews enables view counts on post responses and the increment route.
func WithViews(repo views.Repository) Option {
	return func(api *API) {
		api.views = repo
	}
}

// WithSearcher mounts /api/search.
func WithSearcher(searcher Searcher) Option {
	return func(api *API) {
		api.searcher = searcher
	}
}

// WithSnapshotPath mounts /posts.json backed by the exported file at path.
func WithSnapshotPath(path string) Option {
	return func(api *API) {
		api.snapshotPath = strings.TrimSpace(path)
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		api.logger = logging.Ensure(logger)
	}
}

// NewAPI constructs an API over posts.
func NewAPI(posts content.Service, opts ...Option) *API {
	api := &API{
		posts:  posts,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Router returns a chi router with the standard middleware stack and every
// configured route.
func (api *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(api.logger))
	r.Use(middleware.Recoverer)

	api.Register(r)
	return r
}

// Register attaches the endpoints to r without adding middleware.
func (api *API) Register(r chi.Router) {
	r.Get("/health", api.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", api.listCategories)
		r.Get("/categories/{category}/posts", api.listCategoryPosts)
		r.Get("/posts", api.listPosts)
		r.Get("/posts/{category}/*", api.getPost)
		if api.views != nil {
			r.Post("/posts/{category}/*", api.incrementViews)
		}
		if api.searcher != nil {
			r.Get("/search", api.search)
		}
	})

	if api.snapshotPath != "" {
		r.Get("/posts.json", api.snapshot)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "route not found"})
	})
}
