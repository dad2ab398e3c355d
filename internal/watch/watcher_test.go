package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeLog struct {
	mu      sync.Mutex
	batches [][]string
	notify  chan struct{}
}

func newChangeLog() *changeLog {
	return &changeLog{notify: make(chan struct{}, 16)}
}

func (c *changeLog) record(paths []string) {
	c.mu.Lock()
	c.batches = append(c.batches, paths)
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *changeLog) paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, batch := range c.batches {
		out = append(out, batch...)
	}
	return out
}

func (c *changeLog) waitFor(t *testing.T, path string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		for _, p := range c.paths() {
			if p == path {
				return
			}
		}
		select {
		case <-c.notify:
		case <-deadline:
			t.Fatalf("timeout waiting for change to %s; saw %v", path, c.paths())
		}
	}
}

func startWatcher(t *testing.T, root string, log *changeLog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	w := New(log.record, WithDebounce(20*time.Millisecond), WithReady(func() { close(ready) }))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, root) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("watcher stopped before it was ready: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never became ready")
	}
}

func TestWatcher_ReportsFileChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Java", "basics"), 0o755))

	log := newChangeLog()
	startWatcher(t, root, log)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Java", "basics", "variables.md"), []byte("# hi"), 0o644))
	log.waitFor(t, "Java/basics/variables.md")
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	log := newChangeLog()
	startWatcher(t, root, log)

	require.NoError(t, os.Mkdir(filepath.Join(root, "Go"), 0o755))
	log.waitFor(t, "Go")

	// let the new directory be registered before writing into it
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Go", "intro.md"), []byte("x"), 0o644))
	log.waitFor(t, "Go/intro.md")
}

func TestWatcher_IgnoresHiddenPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	log := newChangeLog()
	startWatcher(t, root, log)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".draft.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "visible.md"), []byte("x"), 0o644))
	log.waitFor(t, "visible.md")

	for _, p := range log.paths() {
		assert.NotEqual(t, ".draft.md", p)
	}
}

func TestWatcher_RunValidatesArguments(t *testing.T) {
	ctx := context.Background()

	err := New(func([]string) {}).Run(ctx, " ")
	assert.ErrorIs(t, err, ErrRootRequired)

	err = New(nil).Run(ctx, t.TempDir())
	assert.ErrorIs(t, err, ErrHandlerRequired)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	err = New(func([]string) {}).Run(ctx, file)
	assert.Error(t, err)

	err = New(func([]string) {}).Run(ctx, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHiddenPath(t *testing.T) {
	assert.True(t, hiddenPath(".git/config"))
	assert.True(t, hiddenPath("Java/.drafts/a.md"))
	assert.False(t, hiddenPath("Java/basics/a.md"))
	assert.False(t, hiddenPath("."))
}

func TestWatcher_ReadyNotCalledWhenRootMissing(t *testing.T) {
	called := false
	w := New(func([]string) {}, WithReady(func() { called = true }))

	err := w.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.False(t, called)
}
