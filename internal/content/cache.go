package content

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of category walks kept in memory.
const DefaultCacheSize = 64

// CachedSource memoises the directory listing and per-category walks of an
// inner Source until Invalidate is called. Memoisation only happens while a
// change watcher is attached (SetWatched); otherwise every call goes to the
// inner source.
type CachedSource struct {
	inner   Source
	walks   *lru.Cache[string, []Post]
	watched atomic.Bool

	mu   sync.RWMutex
	dirs []Dir

	// generation changes on every Invalidate so walks that started before
	// it are not stored afterwards.
	generation atomic.Uint64
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps inner. A non-positive size selects DefaultCacheSize.
func NewCachedSource(inner Source, size int) *CachedSource {
	if size <= 0 {
		size = DefaultCacheSize
	}
	walks, _ := lru.New[string, []Post](size)
	return &CachedSource{
		inner: inner,
		walks: walks,
	}
}

func (c *CachedSource) Dirs(ctx context.Context) ([]Dir, error) {
	if !c.watched.Load() {
		return c.inner.Dirs(ctx)
	}
	c.mu.RLock()
	cached := c.dirs
	c.mu.RUnlock()
	if cached != nil {
		return slices.Clone(cached), nil
	}

	gen := c.generation.Load()
	dirs, err := c.inner.Dirs(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation.Load() == gen {
		c.dirs = slices.Clone(dirs)
		if c.dirs == nil {
			c.dirs = []Dir{}
		}
	}
	c.mu.Unlock()
	return dirs, nil
}

func (c *CachedSource) Walk(ctx context.Context, dir Dir) ([]Post, error) {
	if !c.watched.Load() {
		return c.inner.Walk(ctx, dir)
	}
	if posts, ok := c.walks.Get(dir.Name); ok {
		return slices.Clone(posts), nil
	}

	gen := c.generation.Load()
	posts, err := c.inner.Walk(ctx, dir)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	if c.generation.Load() == gen {
		c.walks.Add(dir.Name, slices.Clone(posts))
	}
	c.mu.RUnlock()
	return posts, nil
}

// SetWatched turns memoisation on while a watcher delivers change signals
// and off once it stops. Either transition drops memoised results.
func (c *CachedSource) SetWatched(on bool) {
	c.watched.Store(on)
	c.Invalidate()
}

// Watched reports whether memoisation is active.
func (c *CachedSource) Watched() bool {
	return c.watched.Load()
}

// Invalidate drops every memoised result.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.generation.Add(1)
	c.dirs = nil
	c.walks.Purge()
	c.mu.Unlock()
}

// Len reports how many category walks are currently memoised.
func (c *CachedSource) Len() int {
	return c.walks.Len()
}
