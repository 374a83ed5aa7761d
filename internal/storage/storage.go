// Package storage is the JSON key-value persistence layer.
//
// It sits between the entity store and a repository.Backend and never
// returns errors: a failed read comes back as nil/false, a failed write as
// false, and the cause is logged. Callers decide what a missing value means.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/repository"
)

// Storage wraps a Backend with JSON encoding and sentinel results.
type Storage struct {
	backend repository.Backend
	logger  *slog.Logger
}

func New(backend repository.Backend, logger *slog.Logger) *Storage {
	return &Storage{backend: backend, logger: logger}
}

// Get returns the JSON stored under key, or nil when the key is absent,
// holds malformed JSON, or the backend fails.
func (s *Storage) Get(ctx context.Context, key string) json.RawMessage {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("storage: get failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	if !json.Valid(raw) {
		s.logger.Error("storage: malformed JSON", slog.String("key", key))
		return nil
	}
	return json.RawMessage(raw)
}

// Load decodes the value under key into dst. It reports false when there is
// nothing usable to decode; dst is left untouched in that case.
func (s *Storage) Load(ctx context.Context, key string, dst any) bool {
	raw := s.Get(ctx, key)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Error("storage: decoding value",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Set serializes value and stores it under key.
func (s *Storage) Set(ctx context.Context, key string, value any) bool {
	return s.SetMany(ctx, map[string]any{key: value})
}

// SetMany serializes every value first and then writes them all in one
// backend call. If any value fails to encode nothing is written.
func (s *Storage) SetMany(ctx context.Context, values map[string]any) bool {
	entries := make(map[string][]byte, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			s.logger.Error("storage: encoding value",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			return false
		}
		entries[key] = data
	}

	if err := s.backend.Put(ctx, entries); err != nil {
		s.logger.Error("storage: set failed",
			slog.Int("keys", len(entries)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Remove deletes key. Removing an absent key succeeds.
func (s *Storage) Remove(ctx context.Context, key string) bool {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Error("storage: remove failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Clear deletes every key.
func (s *Storage) Clear(ctx context.Context) bool {
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Error("storage: clear failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}
