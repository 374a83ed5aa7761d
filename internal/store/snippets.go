package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
)

// Snippets returns every snippet in insertion order with fresh like and
// comment counts. Visibility is not applied here.
func (s *Store) Snippets(ctx context.Context) []model.Snippet {
	var out []model.Snippet
	s.view(ctx, func(t *tx) {
		out = t.countAll(t.Snippets())
	})
	return out
}

// SnippetByID returns the snippet with id, or nil.
func (s *Store) SnippetByID(ctx context.Context, id string) *model.Snippet {
	var out *model.Snippet
	s.view(ctx, func(t *tx) {
		if i := t.snippetIndex(id); i >= 0 {
			sn := t.counted(t.Snippets()[i])
			out = &sn
		}
	})
	return out
}

// CreateSnippet stores a new snippet. The author must exist; their current
// username becomes the snippet's author snapshot.
func (s *Store) CreateSnippet(ctx context.Context, in model.NewSnippet) (*model.Snippet, error) {
	var created model.Snippet
	err := s.update(ctx, "creating snippet", func(t *tx) error {
		sn, err := t.createSnippet(in, s.ids.NewID(), s.clock)
		if err != nil {
			return err
		}
		created = sn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("snippet created",
		slog.String("id", created.ID),
		slog.String("author_id", created.AuthorID),
		slog.String("language", created.Language),
	)
	return &created, nil
}

func (t *tx) createSnippet(in model.NewSnippet, id string, clock Clock) (model.Snippet, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Snippet{}, apperror.ValidationFailed("title", "title is required")
	}
	if strings.TrimSpace(in.Code) == "" {
		return model.Snippet{}, apperror.ValidationFailed("code", "code is required")
	}
	if in.AuthorID == "" {
		return model.Snippet{}, apperror.ValidationFailed("authorId", "author is required")
	}
	i := t.userIndex(in.AuthorID)
	if i < 0 {
		return model.Snippet{}, apperror.NotFound("user", in.AuthorID)
	}

	sn := model.Snippet{
		ID:          id,
		Title:       in.Title,
		Language:    in.Language,
		Code:        in.Code,
		Description: in.Description,
		Private:     in.Private,
		AuthorID:    in.AuthorID,
		Author:      t.Users()[i].Username,
		CreatedAt:   clock.Now(),
		Likes:       0,
		Comments:    0,
	}
	t.snippets.set(append(slices.Clone(t.Snippets()), sn))
	return sn, nil
}

// UpdateSnippet merges patch into the snippet with id.
func (s *Store) UpdateSnippet(ctx context.Context, id string, patch model.SnippetPatch) (*model.Snippet, error) {
	var updated model.Snippet
	err := s.update(ctx, "updating snippet", func(t *tx) error {
		i := t.snippetIndex(id)
		if i < 0 {
			return apperror.NotFound("snippet", id)
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			return apperror.ValidationFailed("title", "title is required")
		}
		if patch.Code != nil && strings.TrimSpace(*patch.Code) == "" {
			return apperror.ValidationFailed("code", "code is required")
		}

		snippets := slices.Clone(t.Snippets())
		patch.Apply(&snippets[i])
		t.snippets.set(snippets)
		updated = t.counted(snippets[i])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSnippet removes the snippet with its comments and likes.
func (s *Store) DeleteSnippet(ctx context.Context, id string) error {
	err := s.update(ctx, "deleting snippet", func(t *tx) error {
		if t.snippetIndex(id) < 0 {
			return apperror.NotFound("snippet", id)
		}
		t.snippets.filter(t.ctx, t.st, func(sn model.Snippet) bool { return sn.ID != id })
		t.comments.filter(t.ctx, t.st, func(c model.Comment) bool { return c.SnippetID != id })
		t.likes.filter(t.ctx, t.st, func(l model.Like) bool { return l.SnippetID != id })
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: deleting snippet %s: %w", id, err)
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}
