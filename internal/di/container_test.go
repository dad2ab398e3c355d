package di_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"

	exportcmd "github.com/namaewanam/notes/internal/commands/export"
	"github.com/namaewanam/notes/internal/di"
	"github.com/namaewanam/notes/internal/export"
	"github.com/namaewanam/notes/internal/logging/gologger"
	"github.com/namaewanam/notes/internal/logging/logtest"
	"github.com/namaewanam/notes/internal/runtimeconfig"
	"github.com/namaewanam/notes/internal/views"
)

func docs() fstest.MapFS {
	return fstest.MapFS{
		"Java/basics/vars.md": {Data: []byte("---\ntitle: Variables\norder: 1\n---\nbody\n")},
		"Go/guide.md":         {Data: []byte("---\ntitle: Guide\ndate: 2024-01-10\n---\nguide\n")},
	}
}

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Export.OutputPath = filepath.Join(dir, "posts.json")
	cfg.Search.SnapshotPath = cfg.Export.OutputPath
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = ""
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestContainerUsesInjectedLoggerProvider(t *testing.T) {
	rec := logtest.New()
	c, err := di.NewContainer(testConfig(t), di.WithFS(docs()), di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.LoggerProvider() != rec {
		t.Fatalf("expected injected provider, got %T", c.LoggerProvider())
	}

	posts, err := c.ContentService().ListAllPosts(context.Background())
	if err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if c.CachedSource() != nil {
		t.Fatal("expected no cache by default")
	}
	if _, err := c.Watcher(); !errors.Is(err, di.ErrWatchDisabled) {
		t.Fatalf("expected ErrWatchDisabled, got %v", err)
	}
}

func TestContainerConsoleLoggerWritesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t)
	cfg.Logging.Level = "debug"
	c, err := di.NewContainer(cfg, di.WithFS(docs()), di.WithLogWriter(&buf))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	c.LoggerProvider().GetLogger("notes.test").Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestContainerSelectsGoLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	c, err := di.NewContainer(cfg, di.WithFS(docs()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := c.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", c.LoggerProvider())
	}
}

func TestContainerExportThenSearch(t *testing.T) {
	cfg := testConfig(t)
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c, err := di.NewContainer(cfg,
		di.WithFS(docs()),
		di.WithLoggerProvider(logtest.New()),
		di.WithClock(func() time.Time { return fixed }),
		di.WithIDGenerator(func() uuid.UUID { return uuid.MustParse("00000000-0000-0000-0000-00000000000a") }),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	var result export.Result
	err = c.ExportHandler().Execute(context.Background(), exportcmd.ExportSnapshotCommand{
		OutputPath: cfg.Export.OutputPath,
		Manifest:   true,
		ResultCallback: func(env exportcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Posts != 2 || result.BuildID != "00000000-0000-0000-0000-00000000000a" {
		t.Fatalf("unexpected result %+v", result)
	}

	results := c.Searcher().Search(context.Background(), "guide")
	if len(results) != 1 || results[0].URL != "/blog/go/guide" {
		t.Fatalf("unexpected search results %+v", results)
	}
}

func TestContainerCacheAndWatcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	cfg.Watch.Enabled = true

	c, err := di.NewContainer(cfg, di.WithFS(docs()), di.WithLoggerProvider(logtest.New()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.CachedSource() == nil {
		t.Fatal("expected cached source")
	}
	if _, err := c.ContentService().ListAllPosts(context.Background()); err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if c.CachedSource().Len() != 0 {
		t.Fatal("expected no memoisation before a watcher is running")
	}
	w, err := c.Watcher()
	if err != nil || w == nil {
		t.Fatalf("expected watcher, got %v", err)
	}

	c.CachedSource().SetWatched(true)
	if _, err := c.ContentService().ListAllPosts(context.Background()); err != nil {
		t.Fatalf("ListAllPosts: %v", err)
	}
	if c.CachedSource().Len() == 0 {
		t.Fatal("expected walks to be cached while watched")
	}
}

func TestContainerSQLiteViews(t *testing.T) {
	cfg := testConfig(t)
	cfg.Views.Provider = "sqlite"
	cfg.Views.DSN = "file:" + filepath.Join(t.TempDir(), "views.db") + "?_fk=1"

	c, err := di.NewContainer(cfg, di.WithFS(docs()), di.WithLoggerProvider(logtest.New()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, ok := c.ViewsRepository().(*views.BunRepository); !ok {
		t.Fatalf("expected bun repository, got %T", c.ViewsRepository())
	}
	count, err := c.ViewsRepository().Increment(context.Background(), "go-guide")
	if err != nil || count != 1 {
		t.Fatalf("increment: %d %v", count, err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestContainerHTTPHandler(t *testing.T) {
	cfg := testConfig(t)
	c, err := di.NewContainer(cfg, di.WithFS(docs()), di.WithLoggerProvider(logtest.New()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	handler := c.HTTPHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/go/guide", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before export, got %d", rec.Code)
	}

	if err := os.WriteFile(cfg.Export.OutputPath, []byte("[]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after export, got %d", rec.Code)
	}
}

type stubRegistry struct {
	err      error
	handlers []any
}

func (r *stubRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestContainerRegistersExportCommand(t *testing.T) {
	reg := &stubRegistry{}
	c, err := di.NewContainer(testConfig(t), di.WithFS(docs()), di.WithLoggerProvider(logtest.New()), di.WithCommandRegistry(reg))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if len(reg.handlers) != 1 || reg.handlers[0] != any(c.ExportHandler()) {
		t.Fatalf("expected export handler to be registered, got %+v", reg.handlers)
	}
}

func TestContainerSurfacesRegistrationError(t *testing.T) {
	boom := errors.New("registry closed")
	_, err := di.NewContainer(testConfig(t), di.WithFS(docs()), di.WithLoggerProvider(logtest.New()),
		di.WithCommandRegistry(&stubRegistry{err: boom}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected registration error, got %v", err)
	}
}
