// Package memory implements repository.Backend with a map. Nothing survives
// the process; it is used for tests and for `storage.type = "memory"`.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/repository"
)

var _ repository.Backend = (*Backend)(nil)

// Backend is a concurrent-safe in-memory key-value store.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.data[key]
	if !ok {
		return nil, apperror.NotFound("key", key)
	}
	// Hand out a copy so callers can't mutate stored bytes.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *Backend) Put(_ context.Context, entries map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, v := range entries {
		stored := make([]byte, len(v))
		copy(stored, v)
		b.data[k] = stored
	}
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *Backend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string][]byte)
	return nil
}

func (b *Backend) Close() error { return nil }

// Raw stores bytes verbatim, bypassing JSON encoding. Tests use it to plant
// malformed values.
func (b *Backend) Raw(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}
