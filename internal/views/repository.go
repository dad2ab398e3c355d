// Package views stores per-post view counts keyed by content.ViewKey.
package views

import (
	"context"
	"errors"
	"strings"
)

// ErrKeyRequired is returned for a blank view key.
var ErrKeyRequired = errors.New("views: key is required")

// Repository reads and bumps view counts. A key that has never been
// incremented has a count of zero.
type Repository interface {
	Get(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeEvent reports a counter after it was incremented.
type ChangeEvent struct {
	Key   string
	Count int64
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	return key, nil
}
