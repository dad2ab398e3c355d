package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namaewanam/notes"
	"github.com/namaewanam/notes/internal/di"
	"github.com/namaewanam/notes/internal/logging/logtest"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRunServe_ServesUntilCancelled(t *testing.T) {
	cfg := notes.DefaultConfig()
	cfg.Content.Dir = writeTree(t)
	cfg.Server.Addr = freeAddr(t)
	cfg.Cache.Enabled = true
	cfg.Watch.Enabled = true

	m, err := notes.New(cfg, di.WithLogWriter(&bytes.Buffer{}))
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, m) }()

	url := fmt.Sprintf("http://%s/health", cfg.Server.Addr)
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func countPosts(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []notes.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	return len(posts)
}

func TestRunServe_WatchFailureServesFreshContent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	cfg := notes.DefaultConfig()
	cfg.Content.Dir = root
	cfg.Server.Addr = freeAddr(t)
	cfg.Cache.Enabled = true
	cfg.Watch.Enabled = true

	rec := logtest.New()
	m, err := notes.New(cfg, di.WithLoggerProvider(rec))
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, m) }()

	// The root does not exist yet, so the watcher fails at startup.
	require.Eventually(t, func() bool {
		return rec.Count("error", "watch.failed") > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, m.Container().CachedSource().Watched())

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Go"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Go", "a.md"), []byte("a\n"), 0o644))

	url := fmt.Sprintf("http://%s/api/categories/go/posts", cfg.Server.Addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, countPosts(t, url))

	require.NoError(t, os.WriteFile(filepath.Join(root, "Go", "b.md"), []byte("b\n"), 0o644))
	assert.Equal(t, 2, countPosts(t, url))

	cancel()
	select {
	case err := <-done:
		assert.Error(t, err, "the startup watch failure is reported once the server stops")
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
