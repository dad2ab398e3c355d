package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namaewanam/notes/internal/export"
	"github.com/namaewanam/notes/internal/logging/logtest"
)

func staticLoader(entries []export.Entry) Loader {
	return func(context.Context) ([]export.Entry, error) {
		return entries, nil
	}
}

func corpus() []export.Entry {
	return []export.Entry{
		{Category: "java", CategoryName: "Java", Slug: "vars", Title: "Variables", FullPath: "basics/vars", Subcategory: "basics"},
		{Category: "go", CategoryName: "Go", Slug: "guide", Title: "My Guide", Description: "Getting started with modules", FullPath: "guide"},
		{Category: "go", CategoryName: "Go", Slug: "channels", Title: "Channels", Description: "Concurrency primitives", FullPath: "channels"},
		{Category: "rust", CategoryName: "Rust", Slug: "ownership", Title: "Ownership", FullPath: "ownership"},
	}
}

func TestSearch_MatchesTitleDescriptionAndCategory(t *testing.T) {
	s := New(staticLoader(corpus()))
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title", query: "variab", want: []string{"/blog/java/basics/vars"}},
		{name: "description", query: "concurrency", want: []string{"/blog/go/channels"}},
		{name: "category name", query: "rust", want: []string{"/blog/rust/ownership"}},
		{name: "case insensitive", query: "  MY GUIDE ", want: []string{"/blog/go/guide"}},
		{name: "multiple in snapshot order", query: "go", want: []string{"/blog/go/guide", "/blog/go/channels"}},
		{name: "no match", query: "haskell", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := s.Search(ctx, tt.query)
			urls := make([]string, 0, len(results))
			for _, r := range results {
				urls = append(urls, r.URL)
			}
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestSearch_MinimumQueryLength(t *testing.T) {
	calls := 0
	loader := func(context.Context) ([]export.Entry, error) {
		calls++
		return corpus(), nil
	}
	s := New(loader)

	assert.Empty(t, s.Search(context.Background(), "g"))
	assert.Empty(t, s.Search(context.Background(), "   "))
	assert.Equal(t, 0, calls, "short queries should not load the snapshot")

	assert.NotEmpty(t, s.Search(context.Background(), "go"))

	strict := New(loader, WithMinQueryLength(4))
	assert.Empty(t, strict.Search(context.Background(), "rus"))
}

func TestSearch_MinimumLengthCountsRunes(t *testing.T) {
	s := New(staticLoader([]export.Entry{{Category: "misc", CategoryName: "Misc", Title: "日本語", FullPath: "jp"}}))

	assert.Empty(t, s.Search(context.Background(), "日"))
	assert.Len(t, s.Search(context.Background(), "日本"), 1)
}

func TestSearch_Limit(t *testing.T) {
	entries := make([]export.Entry, 25)
	for i := range entries {
		entries[i] = export.Entry{Category: "go", CategoryName: "Go", Title: fmt.Sprintf("Post %d", i), FullPath: fmt.Sprintf("p%d", i)}
	}

	results := New(staticLoader(entries)).Search(context.Background(), "post")
	require.Len(t, results, DefaultLimit)
	assert.Equal(t, "Post 0", results[0].Title)
	assert.Equal(t, "Post 9", results[9].Title)

	assert.Len(t, New(staticLoader(entries), WithLimit(3)).Search(context.Background(), "post"), 3)
}

func TestSearch_MissingSnapshotYieldsNoResults(t *testing.T) {
	rec := logtest.New()
	s := New(FileLoader(filepath.Join(t.TempDir(), "absent.json")), WithLogger(rec.Logger()))

	results := s.Search(context.Background(), "guide")
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 1, rec.Count("warn", "search.snapshot.unavailable"))
}

func TestSearch_LoaderErrorYieldsNoResults(t *testing.T) {
	s := New(func(context.Context) ([]export.Entry, error) {
		return nil, errors.New("boom")
	})
	assert.Empty(t, s.Search(context.Background(), "guide"))
}

func TestSearch_FileLoaderReadsExportedSnapshot(t *testing.T) {
	doc, err := export.Encode(corpus())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	results := New(FileLoader(path)).Search(context.Background(), "ownership")
	require.Len(t, results, 1)
	assert.Equal(t, "/blog/rust/ownership", results[0].URL)
	assert.Equal(t, "Rust", results[0].CategoryName)
}
