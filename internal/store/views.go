package store

import (
	"context"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
)

// FollowerCount is the number of users following userID.
func (s *Store) FollowerCount(ctx context.Context, userID string) int {
	var n int
	s.view(ctx, func(t *tx) { n = t.followerCount(userID) })
	return n
}

// FollowingCount is the number of users userID follows.
func (s *Store) FollowingCount(ctx context.Context, userID string) int {
	var n int
	s.view(ctx, func(t *tx) { n = t.followingCount(userID) })
	return n
}

// Followers returns the follow edges pointing at userID joined with the
// follower. Edges whose follower no longer exists are skipped.
func (s *Store) Followers(ctx context.Context, userID string) []model.FollowView {
	out := []model.FollowView{}
	s.view(ctx, func(t *tx) {
		for _, f := range t.Follows() {
			if f.FollowingID != userID {
				continue
			}
			if i := t.userIndex(f.FollowerID); i >= 0 {
				out = append(out, model.FollowView{Follow: f, User: t.Users()[i].Public()})
			}
		}
	})
	return out
}

// Following returns the follow edges made by userID joined with the
// followed user. Dangling edges are skipped.
func (s *Store) Following(ctx context.Context, userID string) []model.FollowView {
	out := []model.FollowView{}
	s.view(ctx, func(t *tx) {
		for _, f := range t.Follows() {
			if f.FollowerID != userID {
				continue
			}
			if i := t.userIndex(f.FollowingID); i >= 0 {
				out = append(out, model.FollowView{Follow: f, User: t.Users()[i].Public()})
			}
		}
	})
	return out
}

// LikedSnippets returns userID's likes joined with the liked snippet.
// Likes on snippets that no longer exist are skipped.
func (s *Store) LikedSnippets(ctx context.Context, userID string) []model.LikedSnippet {
	out := []model.LikedSnippet{}
	s.view(ctx, func(t *tx) {
		for _, l := range t.Likes() {
			if l.UserID != userID {
				continue
			}
			if i := t.snippetIndex(l.SnippetID); i >= 0 {
				out = append(out, model.LikedSnippet{Like: l, Snippet: t.counted(t.Snippets()[i])})
			}
		}
	})
	return out
}

// UserSnippets returns the snippets authored by userID.
func (s *Store) UserSnippets(ctx context.Context, userID string) []model.Snippet {
	var out []model.Snippet
	s.view(ctx, func(t *tx) { out = t.userSnippets(userID) })
	return out
}

// UserTotalLikes sums the like counts of userID's snippets.
func (s *Store) UserTotalLikes(ctx context.Context, userID string) int {
	var n int
	s.view(ctx, func(t *tx) { n = t.totalLikes(userID) })
	return n
}

// IsVerified reports whether userID has at least VerifiedFollowerThreshold followers.
func (s *Store) IsVerified(ctx context.Context, userID string) bool {
	return s.FollowerCount(ctx, userID) >= VerifiedFollowerThreshold
}

// Profile gathers the figures shown on a user's page.
func (s *Store) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	var p *model.Profile
	s.view(ctx, func(t *tx) {
		i := t.userIndex(userID)
		if i < 0 {
			return
		}
		followers := t.followerCount(userID)
		p = &model.Profile{
			User:           t.Users()[i].Public(),
			FollowerCount:  followers,
			FollowingCount: t.followingCount(userID),
			SnippetCount:   len(t.userSnippets(userID)),
			TotalLikes:     t.totalLikes(userID),
			Verified:       followers >= VerifiedFollowerThreshold,
		}
	})
	if p == nil {
		return nil, apperror.NotFound("user", userID)
	}
	return p, nil
}

func (t *tx) followerCount(userID string) int {
	n := 0
	for _, f := range t.Follows() {
		if f.FollowingID == userID {
			n++
		}
	}
	return n
}

func (t *tx) followingCount(userID string) int {
	n := 0
	for _, f := range t.Follows() {
		if f.FollowerID == userID {
			n++
		}
	}
	return n
}

func (t *tx) userSnippets(userID string) []model.Snippet {
	out := []model.Snippet{}
	for _, sn := range t.Snippets() {
		if sn.AuthorID == userID {
			out = append(out, sn)
		}
	}
	return t.countAll(out)
}

func (t *tx) totalLikes(userID string) int {
	total := 0
	for _, sn := range t.userSnippets(userID) {
		total += sn.Likes
	}
	return total
}
