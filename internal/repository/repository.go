// Package repository defines the raw key-value contract the storage layer
// is built on. Implementations live in sub-packages (sqlite, memory) and
// return ordinary errors; the storage package turns those into the
// null/false sentinels callers see.
package repository

import (
	"context"
)

// Backend is a string-keyed byte store.
//
//   - Get returns apperror.ErrNotFound when the key is absent.
//   - Put writes every entry or none of them.
//   - Delete of an absent key succeeds.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}
