package store

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
)

func (s *Store) Likes(ctx context.Context) []model.Like {
	var out []model.Like
	s.view(ctx, func(t *tx) {
		out = slices.Clone(t.Likes())
	})
	return out
}

func (s *Store) Follows(ctx context.Context) []model.Follow {
	var out []model.Follow
	s.view(ctx, func(t *tx) {
		out = slices.Clone(t.Follows())
	})
	return out
}

// ToggleLike removes the (userID, snippetID) like if it exists and adds it
// otherwise. It returns whether the snippet is liked afterwards. The
// snippet's like count follows the edge and so never drops below zero.
func (s *Store) ToggleLike(ctx context.Context, userID, snippetID string) (bool, error) {
	var liked bool
	err := s.update(ctx, "toggling like", func(t *tx) error {
		if t.userIndex(userID) < 0 {
			return apperror.NotFound("user", userID)
		}
		if t.snippetIndex(snippetID) < 0 {
			return apperror.NotFound("snippet", snippetID)
		}

		removed := t.likes.filter(t.ctx, t.st, func(l model.Like) bool {
			return l.UserID != userID || l.SnippetID != snippetID
		})
		if removed > 0 {
			liked = false
			return nil
		}

		t.likes.set(append(slices.Clone(t.Likes()), model.Like{
			ID:        s.ids.NewID(),
			UserID:    userID,
			SnippetID: snippetID,
			CreatedAt: s.clock.Now(),
		}))
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("like toggled",
		slog.String("user_id", userID),
		slog.String("snippet_id", snippetID),
		slog.Bool("liked", liked),
	)
	return liked, nil
}

// IsLiked reports whether userID has liked snippetID.
func (s *Store) IsLiked(ctx context.Context, userID, snippetID string) bool {
	var liked bool
	s.view(ctx, func(t *tx) {
		liked = slices.ContainsFunc(t.Likes(), func(l model.Like) bool {
			return l.UserID == userID && l.SnippetID == snippetID
		})
	})
	return liked
}

// ToggleFollow removes the followerID -> followingID edge if it exists and
// adds it otherwise, returning whether followerID follows afterwards.
// Self-follows are not rejected here.
func (s *Store) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := s.update(ctx, "toggling follow", func(t *tx) error {
		if t.userIndex(followerID) < 0 {
			return apperror.NotFound("user", followerID)
		}
		if t.userIndex(followingID) < 0 {
			return apperror.NotFound("user", followingID)
		}

		removed := t.follows.filter(t.ctx, t.st, func(f model.Follow) bool {
			return f.FollowerID != followerID || f.FollowingID != followingID
		})
		if removed > 0 {
			following = false
			return nil
		}

		t.follows.set(append(slices.Clone(t.Follows()), model.Follow{
			ID:          s.ids.NewID(),
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   s.clock.Now(),
		}))
		following = true
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("follow toggled",
		slog.String("follower_id", followerID),
		slog.String("following_id", followingID),
		slog.Bool("following", following),
	)
	return following, nil
}

// IsFollowing reports whether followerID follows followingID.
func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) bool {
	var following bool
	s.view(ctx, func(t *tx) {
		following = slices.ContainsFunc(t.Follows(), func(f model.Follow) bool {
			return f.FollowerID == followerID && f.FollowingID == followingID
		})
	})
	return following
}
