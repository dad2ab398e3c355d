package views

import (
	"context"
	"sync"
)

// MemoryRepository keeps counts for the lifetime of the process.
type MemoryRepository struct {
	mu          sync.RWMutex
	counts      map[string]int64
	broadcaster *changeBroadcaster
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		counts:      map[string]int64{},
		broadcaster: newChangeBroadcaster(),
	}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (int64, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[key], nil
}

func (r *MemoryRepository) Increment(_ context.Context, key string) (int64, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	r.counts[key]++
	count := r.counts[key]
	r.mu.Unlock()

	r.broadcaster.Broadcast(ChangeEvent{Key: key, Count: count})
	return count, nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}
