package notes_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/namaewanam/notes"
	"github.com/namaewanam/notes/internal/di"
	"github.com/namaewanam/notes/internal/logging/logtest"
)

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func newModule(t *testing.T, mutate func(*notes.Config)) (*notes.Module, notes.Config) {
	t.Helper()
	root := writeDocs(t, map[string]string{
		"Java/basics/vars.md":  "---\ntitle: Variables\norder: 1\n---\nvars\n",
		"Java/basics/loops.md": "---\ntitle: Loops\norder: 2\n---\nloops\n",
		"Go/guide.md":          "---\ntitle: Guide\ndate: 2024-01-10\ndescription: Getting started\n---\nguide\n",
	})
	cfg := notes.DefaultConfig()
	cfg.Content.Dir = root
	cfg.Export.OutputPath = filepath.Join(t.TempDir(), "public", "posts.json")
	cfg.Search.SnapshotPath = cfg.Export.OutputPath
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := notes.New(cfg, di.WithLoggerProvider(logtest.New()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m, cfg
}

func TestModuleQueriesAndExport(t *testing.T) {
	m, cfg := newModule(t, nil)
	ctx := context.Background()

	post, ok, err := m.Content().GetPostBySlug(ctx, "java", "basics/vars")
	if err != nil || !ok {
		t.Fatalf("GetPostBySlug: ok=%v err=%v", ok, err)
	}
	if notes.ViewKey(post) != "java-basics-vars" {
		t.Fatalf("unexpected view key %q", notes.ViewKey(post))
	}

	if got := m.Search(ctx, "guide"); len(got) != 0 {
		t.Fatalf("expected no results before export, got %+v", got)
	}

	result, err := m.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Posts != 3 || result.OutputPath != cfg.Export.OutputPath {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(cfg.Export.OutputPath), ".export-manifest.json")); err != nil {
		t.Fatalf("expected manifest: %v", err)
	}

	hits := m.Search(ctx, "getting")
	if len(hits) != 1 || hits[0].URL != "/blog/go/guide" {
		t.Fatalf("unexpected hits %+v", hits)
	}
}

func TestModuleAmbiguousCategory(t *testing.T) {
	m, cfg := newModule(t, nil)
	if err := os.MkdirAll(filepath.Join(cfg.Content.Dir, "java"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Content.Dir, "java", "x.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// case-insensitive filesystems cannot hold both directories
	entries, _ := os.ReadDir(cfg.Content.Dir)
	if len(entries) < 3 {
		t.Skip("filesystem folds directory names")
	}

	_, err := m.Content().ListPostsByCategory(context.Background(), "java")
	if !errors.Is(err, notes.ErrAmbiguousCategory) && !notes.IsAmbiguousCategory(err) {
		t.Fatalf("expected ambiguous category error, got %v", err)
	}
}

func TestModuleWatchRequiresCache(t *testing.T) {
	m, _ := newModule(t, nil)
	if err := m.Watch(context.Background()); !errors.Is(err, di.ErrWatchDisabled) {
		t.Fatalf("expected ErrWatchDisabled, got %v", err)
	}
}

func TestModuleWatchInvalidatesCache(t *testing.T) {
	m, cfg := newModule(t, func(cfg *notes.Config) {
		cfg.Cache.Enabled = true
		cfg.Watch.Enabled = true
		cfg.Watch.Debounce = 20 * time.Millisecond
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	posts, err := m.Content().ListPostsByCategory(context.Background(), "go")
	if err != nil || len(posts) != 1 {
		t.Fatalf("initial listing: %d %v", len(posts), err)
	}

	waitWatched(t, m, true)
	if err := os.WriteFile(filepath.Join(cfg.Content.Dir, "Go", "second.md"), []byte("---\ntitle: Second\n---\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		posts, err = m.Content().ListPostsByCategory(context.Background(), "go")
		if err == nil && len(posts) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected cache invalidation to expose the new post, got %d posts", len(posts))
}

func waitWatched(t *testing.T, m *notes.Module, want bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if m.Container().CachedSource().Watched() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("cache watched state never became %v", want)
}

func TestModuleCacheWithoutWatcherStaysFresh(t *testing.T) {
	m, cfg := newModule(t, func(cfg *notes.Config) {
		cfg.Cache.Enabled = true
	})
	ctx := context.Background()

	posts, err := m.Content().ListPostsByCategory(ctx, "go")
	if err != nil || len(posts) != 1 {
		t.Fatalf("initial listing: %d %v", len(posts), err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Content.Dir, "Go", "b.md"), []byte("b\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	posts, err = m.Content().ListPostsByCategory(ctx, "go")
	if err != nil || len(posts) != 2 {
		t.Fatalf("expected new post without a watcher, got %d posts, %v", len(posts), err)
	}
}

func TestModuleWatchDetachesCacheOnStop(t *testing.T) {
	m, cfg := newModule(t, func(cfg *notes.Config) {
		cfg.Cache.Enabled = true
		cfg.Watch.Enabled = true
		cfg.Watch.Debounce = 20 * time.Millisecond
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()
	waitWatched(t, m, true)

	if _, err := m.Content().ListPostsByCategory(context.Background(), "go"); err != nil {
		t.Fatalf("ListPostsByCategory: %v", err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if m.Container().CachedSource().Watched() {
		t.Fatal("expected cache to be detached once the watcher stopped")
	}

	if err := os.WriteFile(filepath.Join(cfg.Content.Dir, "Go", "late.md"), []byte("late\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	posts, err := m.Content().ListPostsByCategory(context.Background(), "go")
	if err != nil || len(posts) != 2 {
		t.Fatalf("expected change after watcher stop to be visible, got %d posts, %v", len(posts), err)
	}
}

func TestModuleWatchFailureLeavesCacheOff(t *testing.T) {
	m, cfg := newModule(t, func(cfg *notes.Config) {
		cfg.Cache.Enabled = true
		cfg.Watch.Enabled = true
	})
	if err := os.RemoveAll(cfg.Content.Dir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.Watch(context.Background()); err == nil {
		t.Fatal("expected watch to fail for a missing root")
	}
	if m.Container().CachedSource().Watched() {
		t.Fatal("expected cache to stay off after a failed watch")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := notes.DefaultConfig()
	cfg.Watch.Enabled = true
	if _, err := notes.New(cfg); !errors.Is(err, notes.ErrWatchRequiresCache) {
		t.Fatalf("expected ErrWatchRequiresCache, got %v", err)
	}
}
