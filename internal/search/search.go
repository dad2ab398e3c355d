// Package search filters the exported post snapshot by substring match.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/namaewanam/notes/internal/export"
	"github.com/namaewanam/notes/internal/logging"
	"github.com/namaewanam/notes/pkg/interfaces"
)

// Search defaults.
const (
	// DefaultMinQueryLength is the shortest query, in runes, that is matched.
	DefaultMinQueryLength = 2
	// DefaultLimit caps the number of results.
	DefaultLimit = 10
)

// Result is a matching snapshot entry plus its public URL.
type Result struct {
	export.Entry
	URL string `json:"url"`
}

// Loader returns the snapshot to search.
type Loader func(ctx context.Context) ([]export.Entry, error)

// FileLoader reads the snapshot written by the exporter at path.
func FileLoader(path string) Loader {
	return func(context.Context) ([]export.Entry, error) {
		return export.ReadFile(path)
	}
}

// Option configures a Searcher.
type Option func(*Searcher)

func WithMinQueryLength(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.minLength = n
		}
	}
}

func WithLimit(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.limit = n
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Searcher) {
		s.logger = logging.Ensure(logger)
	}
}

// Searcher matches queries against title, description and category name.
type Searcher struct {
	load      Loader
	minLength int
	limit     int
	logger    interfaces.Logger
}

func New(load Loader, opts ...Option) *Searcher {
	s := &Searcher{
		load:      load,
		minLength: DefaultMinQueryLength,
		limit:     DefaultLimit,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns up to the configured limit of matches in snapshot order.
// A short query, or a snapshot that cannot be loaded, yields no results.
func (s *Searcher) Search(ctx context.Context, query string) []Result {
	needle := Normalize(query)
	if utf8.RuneCountInString(needle) < s.minLength {
		return []Result{}
	}

	entries, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("search.snapshot.unavailable", "error", err)
		return []Result{}
	}

	results := make([]Result, 0, min(s.limit, len(entries)))
	for _, entry := range entries {
		if !Matches(entry, needle) {
			continue
		}
		results = append(results, Result{
			Entry: entry,
			URL:   "/blog/" + entry.Category + "/" + entry.FullPath,
		})
		if len(results) == s.limit {
			break
		}
	}
	s.logger.Debug("search.query", "query", needle, "results", len(results))
	return results
}

// Normalize trims and lower-cases a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Matches reports whether needle, already normalised, occurs in the entry's
// title, description or category name.
func Matches(entry export.Entry, needle string) bool {
	for _, field := range []string{entry.Title, entry.Description, entry.CategoryName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
