package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/store"
)

const (
	MaxTitleLength = 100
	MaxCodeLength  = 100000 // ~100KB of code
)

// SnippetService applies visibility and ownership rules on top of the store.
// An empty viewerID or actorID means an anonymous caller.
type SnippetService struct {
	store  *store.Store
	logger *slog.Logger
}

func NewSnippetService(st *store.Store, logger *slog.Logger) *SnippetService {
	return &SnippetService{store: st, logger: logger}
}

// Feed lists the snippets viewerID may see, in insertion order. A non-empty
// language keeps only snippets tagged with it, ignoring case.
func (s *SnippetService) Feed(ctx context.Context, viewerID, language string) []model.Snippet {
	return visible(s.store.Snippets(ctx), viewerID, language)
}

// Get returns the snippet if viewerID may see it. Private snippets of other
// users are reported as not found.
func (s *SnippetService) Get(ctx context.Context, viewerID, id string) (*model.Snippet, error) {
	sn := s.store.SnippetByID(ctx, id)
	if sn == nil || !sn.VisibleTo(viewerID) {
		return nil, apperror.NotFound("snippet", id)
	}
	return sn, nil
}

// UserSnippets lists userID's snippets that viewerID may see.
func (s *SnippetService) UserSnippets(ctx context.Context, viewerID, userID string) []model.Snippet {
	return visible(s.store.UserSnippets(ctx, userID), viewerID, "")
}

// LikedSnippets lists userID's likes whose snippet viewerID may see.
func (s *SnippetService) LikedSnippets(ctx context.Context, viewerID, userID string) []model.LikedSnippet {
	liked := s.store.LikedSnippets(ctx, userID)
	out := make([]model.LikedSnippet, 0, len(liked))
	for _, l := range liked {
		if l.Snippet.VisibleTo(viewerID) {
			out = append(out, l)
		}
	}
	return out
}

// Create validates and stores a snippet written by authorID.
func (s *SnippetService) Create(ctx context.Context, authorID string, in model.NewSnippet) (*model.Snippet, error) {
	if authorID == "" {
		return nil, apperror.Unauthenticated("you must be logged in")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Language = strings.TrimSpace(in.Language)
	in.Description = strings.TrimSpace(in.Description)
	in.AuthorID = authorID
	if err := validateSnippetFields(&in.Title, &in.Code); err != nil {
		return nil, err
	}

	return s.store.CreateSnippet(ctx, in)
}

// Update patches a snippet. Only its author or a moderator may do this.
func (s *SnippetService) Update(ctx context.Context, actorID, id string, patch model.SnippetPatch) (*model.Snippet, error) {
	if err := s.authorize(ctx, actorID, id, "edit"); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if err := validateSnippetFields(patch.Title, patch.Code); err != nil {
		return nil, err
	}
	return s.store.UpdateSnippet(ctx, id, patch)
}

// Delete removes a snippet with its comments and likes. Only its author or a
// moderator may do this.
func (s *SnippetService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.authorize(ctx, actorID, id, "delete"); err != nil {
		return err
	}
	return s.store.DeleteSnippet(ctx, id)
}

// ToggleLike flips userID's like on a snippet they can see.
func (s *SnippetService) ToggleLike(ctx context.Context, userID, snippetID string) (bool, error) {
	if userID == "" {
		return false, apperror.Unauthenticated("you must be logged in")
	}
	if _, err := s.Get(ctx, userID, snippetID); err != nil {
		return false, err
	}
	return s.store.ToggleLike(ctx, userID, snippetID)
}

// Comments lists the comments on a snippet viewerID can see.
func (s *SnippetService) Comments(ctx context.Context, viewerID, snippetID string) ([]model.Comment, error) {
	if _, err := s.Get(ctx, viewerID, snippetID); err != nil {
		return nil, err
	}
	return s.store.CommentsBySnippet(ctx, snippetID), nil
}

func (s *SnippetService) AddComment(ctx context.Context, userID, snippetID, text string) (*model.Comment, error) {
	if userID == "" {
		return nil, apperror.Unauthenticated("you must be logged in")
	}
	if _, err := s.Get(ctx, userID, snippetID); err != nil {
		return nil, err
	}
	return s.store.AddComment(ctx, model.NewComment{SnippetID: snippetID, UserID: userID, Text: text})
}

// DeleteComment removes a comment. Its writer, the snippet's author, or a
// moderator may do this.
func (s *SnippetService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	if actorID == "" {
		return apperror.Unauthenticated("you must be logged in")
	}
	c := s.store.CommentByID(ctx, commentID)
	if c == nil {
		return apperror.NotFound("comment", commentID)
	}
	if c.UserID != actorID && !s.isModerator(ctx, actorID) {
		sn := s.store.SnippetByID(ctx, c.SnippetID)
		if sn == nil || sn.AuthorID != actorID {
			return apperror.Forbidden("you can only delete your own comments")
		}
	}
	return s.store.DeleteComment(ctx, commentID)
}

func (s *SnippetService) authorize(ctx context.Context, actorID, snippetID, verb string) error {
	if actorID == "" {
		return apperror.Unauthenticated("you must be logged in")
	}
	sn := s.store.SnippetByID(ctx, snippetID)
	if sn == nil || (!sn.VisibleTo(actorID) && !s.isModerator(ctx, actorID)) {
		return apperror.NotFound("snippet", snippetID)
	}
	if sn.AuthorID != actorID && !s.isModerator(ctx, actorID) {
		s.logger.Warn("snippet access denied",
			slog.String("actor_id", actorID),
			slog.String("snippet_id", snippetID),
			slog.String("action", verb),
		)
		return apperror.Forbidden(fmt.Sprintf("you can only %s your own snippets", verb))
	}
	return nil
}

func (s *SnippetService) isModerator(ctx context.Context, userID string) bool {
	u := s.store.UserByID(ctx, userID)
	return u != nil && (u.Role == model.RoleModerator || u.Role == model.RoleAdmin)
}

// validateSnippetFields checks whichever of title and code are non-nil.
func validateSnippetFields(title, code *string) error {
	if title != nil {
		if *title == "" {
			return apperror.ValidationFailed("title", "snippet title is required")
		}
		if len(*title) > MaxTitleLength {
			return apperror.ValidationFailed("title",
				fmt.Sprintf("snippet title must be %d characters or less", MaxTitleLength))
		}
	}
	if code != nil {
		if strings.TrimSpace(*code) == "" {
			return apperror.ValidationFailed("code", "code is required")
		}
		if len(*code) > MaxCodeLength {
			return apperror.ValidationFailed("code",
				fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
		}
	}
	return nil
}

func visible(snippets []model.Snippet, viewerID, language string) []model.Snippet {
	out := make([]model.Snippet, 0, len(snippets))
	for _, sn := range snippets {
		if !sn.VisibleTo(viewerID) {
			continue
		}
		if language != "" && !strings.EqualFold(sn.Language, language) {
			continue
		}
		out = append(out, sn)
	}
	return out
}
