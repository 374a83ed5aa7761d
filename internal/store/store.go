// Package store is the entity store: typed CRUD over the users, snippets,
// comments, likes and following collections, plus the derived views built
// by joining them.
//
// Every collection is one JSON array under its own key. Reads re-load and
// re-scan the whole collection each time. Writes run inside a tx that stages
// all changes in memory and commits every touched collection with a single
// atomic storage write, so a cascade never lands half-applied.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snipshare/internal/storage"
)

// Persisted keys.
const (
	KeyUsers     = "users"
	KeySnippets  = "snippets"
	KeyComments  = "comments"
	KeyLikes     = "likes"
	KeyFollowing = "following"
	KeySession   = "session"
)

// VerifiedFollowerThreshold is the follower count at which a user gets the
// verified badge.
const VerifiedFollowerThreshold = 50

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies entity ids.
type IDGenerator interface {
	NewID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// XIDGenerator issues globally unique, time-sortable ids.
type XIDGenerator struct{}

func (XIDGenerator) NewID() string { return xid.New().String() }

// Store is safe for concurrent use. Write transactions are serialized;
// reads may run alongside each other.
type Store struct {
	storage *storage.Storage
	logger  *slog.Logger
	clock   Clock
	ids     IDGenerator

	mu sync.RWMutex
}

type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func New(st *storage.Storage, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: st,
		logger:  logger,
		clock:   systemClock{},
		ids:     XIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// view runs fn against a read-only snapshot.
func (s *Store) view(ctx context.Context, fn func(*tx)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.newTx(ctx))
}

// update runs fn in a write transaction and commits it if fn succeeds.
// op names the operation in the storage error returned on a failed commit.
func (s *Store) update(ctx context.Context, op string, fn func(*tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.newTx(ctx)
	if err := fn(t); err != nil {
		return err
	}
	return t.commit(op)
}
