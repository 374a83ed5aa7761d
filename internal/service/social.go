package service

import (
	"context"
	"log/slog"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/store"
)

// SocialService covers follows and profile pages.
type SocialService struct {
	store  *store.Store
	logger *slog.Logger
}

func NewSocialService(st *store.Store, logger *slog.Logger) *SocialService {
	return &SocialService{store: st, logger: logger}
}

// ToggleFollow flips followerID's follow of followingID. Following yourself
// is rejected.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" {
		return false, apperror.Unauthenticated("you must be logged in")
	}
	if followerID == followingID {
		return false, apperror.ValidationFailed("followingId", "you cannot follow yourself")
	}
	return s.store.ToggleFollow(ctx, followerID, followingID)
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, followingID string) bool {
	return s.store.IsFollowing(ctx, followerID, followingID)
}

func (s *SocialService) Followers(ctx context.Context, userID string) ([]model.FollowView, error) {
	if s.store.UserByID(ctx, userID) == nil {
		return nil, apperror.NotFound("user", userID)
	}
	return s.store.Followers(ctx, userID), nil
}

func (s *SocialService) Following(ctx context.Context, userID string) ([]model.FollowView, error) {
	if s.store.UserByID(ctx, userID) == nil {
		return nil, apperror.NotFound("user", userID)
	}
	return s.store.Following(ctx, userID), nil
}

func (s *SocialService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.store.Profile(ctx, userID)
}
