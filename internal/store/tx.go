package store

import (
	"context"
	"log/slog"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/storage"
)

// collection is one persisted array, loaded on first use.
type collection[T any] struct {
	key    string
	items  []T
	loaded bool
	dirty  bool
}

func (c *collection[T]) get(ctx context.Context, st *storage.Storage) []T {
	if !c.loaded {
		var items []T
		st.Load(ctx, c.key, &items)
		if items == nil {
			items = []T{}
		}
		c.items = items
		c.loaded = true
	}
	return c.items
}

func (c *collection[T]) set(items []T) {
	c.items = items
	c.loaded = true
	c.dirty = true
}

// filter keeps the items for which keep returns true and reports how many
// were dropped.
func (c *collection[T]) filter(ctx context.Context, st *storage.Storage, keep func(T) bool) int {
	all := c.get(ctx, st)
	kept := make([]T, 0, len(all))
	for _, item := range all {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	if dropped := len(all) - len(kept); dropped > 0 {
		c.set(kept)
		return dropped
	}
	return 0
}

// tx stages reads and writes across collections. Nothing reaches storage
// until commit.
type tx struct {
	ctx    context.Context
	st     *storage.Storage
	logger *slog.Logger

	users    collection[model.User]
	snippets collection[model.Snippet]
	comments collection[model.Comment]
	likes    collection[model.Like]
	follows  collection[model.Follow]
}

func (s *Store) newTx(ctx context.Context) *tx {
	return &tx{
		ctx:      ctx,
		st:       s.storage,
		logger:   s.logger,
		users:    collection[model.User]{key: KeyUsers},
		snippets: collection[model.Snippet]{key: KeySnippets},
		comments: collection[model.Comment]{key: KeyComments},
		likes:    collection[model.Like]{key: KeyLikes},
		follows:  collection[model.Follow]{key: KeyFollowing},
	}
}

func (t *tx) Users() []model.User       { return t.users.get(t.ctx, t.st) }
func (t *tx) Snippets() []model.Snippet { return t.snippets.get(t.ctx, t.st) }
func (t *tx) Comments() []model.Comment { return t.comments.get(t.ctx, t.st) }
func (t *tx) Likes() []model.Like       { return t.likes.get(t.ctx, t.st) }
func (t *tx) Follows() []model.Follow   { return t.follows.get(t.ctx, t.st) }

// commit writes every dirty collection in one storage call. Snippet counters
// are recomputed whenever snippets, likes or comments changed so the stored
// figures always match the edges.
func (t *tx) commit(op string) error {
	if t.likes.dirty || t.comments.dirty || t.snippets.dirty {
		t.snippets.set(t.countAll(t.Snippets()))
	}

	values := make(map[string]any, 5)
	if t.users.dirty {
		values[t.users.key] = t.users.items
	}
	if t.snippets.dirty {
		values[t.snippets.key] = t.snippets.items
	}
	if t.comments.dirty {
		values[t.comments.key] = t.comments.items
	}
	if t.likes.dirty {
		values[t.likes.key] = t.likes.items
	}
	if t.follows.dirty {
		values[t.follows.key] = t.follows.items
	}
	if len(values) == 0 {
		return nil
	}

	if !t.st.SetMany(t.ctx, values) {
		return apperror.StorageFailed(op)
	}
	t.logger.Debug("store: committed", slog.String("op", op), slog.Int("collections", len(values)))
	return nil
}

// countAll returns copies of snippets with Likes and Comments derived from
// the edge collections.
func (t *tx) countAll(snippets []model.Snippet) []model.Snippet {
	likes := make(map[string]int)
	for _, l := range t.Likes() {
		likes[l.SnippetID]++
	}
	comments := make(map[string]int)
	for _, c := range t.Comments() {
		comments[c.SnippetID]++
	}

	out := make([]model.Snippet, len(snippets))
	for i, sn := range snippets {
		sn.Likes = likes[sn.ID]
		sn.Comments = comments[sn.ID]
		out[i] = sn
	}
	return out
}

func (t *tx) counted(sn model.Snippet) model.Snippet {
	return t.countAll([]model.Snippet{sn})[0]
}

func (t *tx) userIndex(id string) int {
	for i, u := range t.Users() {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (t *tx) userByUsername(username string) *model.User {
	for _, u := range t.Users() {
		if u.Username == username {
			return &u
		}
	}
	return nil
}

func (t *tx) snippetIndex(id string) int {
	for i, sn := range t.Snippets() {
		if sn.ID == id {
			return i
		}
	}
	return -1
}

func (t *tx) commentIndex(id string) int {
	for i, c := range t.Comments() {
		if c.ID == id {
			return i
		}
	}
	return -1
}
