package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
)

func (s *Store) Comments(ctx context.Context) []model.Comment {
	var out []model.Comment
	s.view(ctx, func(t *tx) {
		out = slices.Clone(t.Comments())
	})
	return out
}

func (s *Store) CommentByID(ctx context.Context, id string) *model.Comment {
	var out *model.Comment
	s.view(ctx, func(t *tx) {
		if i := t.commentIndex(id); i >= 0 {
			c := t.Comments()[i]
			out = &c
		}
	})
	return out
}

// CommentsBySnippet returns the comments on snippetID, oldest first.
func (s *Store) CommentsBySnippet(ctx context.Context, snippetID string) []model.Comment {
	out := []model.Comment{}
	s.view(ctx, func(t *tx) {
		for _, c := range t.Comments() {
			if c.SnippetID == snippetID {
				out = append(out, c)
			}
		}
	})
	return out
}

// AddComment attaches a comment to an existing snippet.
func (s *Store) AddComment(ctx context.Context, in model.NewComment) (*model.Comment, error) {
	var created model.Comment
	err := s.update(ctx, "adding comment", func(t *tx) error {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return apperror.ValidationFailed("text", "comment text is required")
		}
		if t.snippetIndex(in.SnippetID) < 0 {
			return apperror.NotFound("snippet", in.SnippetID)
		}
		ui := t.userIndex(in.UserID)
		if ui < 0 {
			return apperror.NotFound("user", in.UserID)
		}

		created = model.Comment{
			ID:        s.ids.NewID(),
			SnippetID: in.SnippetID,
			UserID:    in.UserID,
			Author:    t.Users()[ui].Username,
			Text:      text,
			CreatedAt: s.clock.Now(),
		}
		t.comments.set(append(slices.Clone(t.Comments()), created))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	err := s.update(ctx, "deleting comment", func(t *tx) error {
		if t.commentIndex(id) < 0 {
			return apperror.NotFound("comment", id)
		}
		t.comments.filter(t.ctx, t.st, func(c model.Comment) bool { return c.ID != id })
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: deleting comment %s: %w", id, err)
	}
	return nil
}
