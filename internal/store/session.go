package store

import (
	"context"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
)

// LoadSession returns the persisted session, or nil when nobody is logged in
// or the record is unreadable.
func (s *Store) LoadSession(ctx context.Context) *model.Session {
	var sess model.Session
	if !s.storage.Load(ctx, KeySession, &sess) || sess.UserID == "" {
		return nil
	}
	return &sess
}

// SaveSession overwrites the persisted session.
func (s *Store) SaveSession(ctx context.Context, sess model.Session) error {
	if !s.storage.Set(ctx, KeySession, sess) {
		return apperror.StorageFailed("saving session")
	}
	return nil
}

// ClearSession removes the persisted session. Clearing when there is none succeeds.
func (s *Store) ClearSession(ctx context.Context) error {
	if !s.storage.Remove(ctx, KeySession) {
		return apperror.StorageFailed("clearing session")
	}
	return nil
}
