package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snipshare/internal/apperror"
)

func TestToggleFollow_RejectsSelf(t *testing.T) {
	e := newTestEnv(t)
	alice := e.register(t, "alice", "")

	_, err := e.social.ToggleFollow(context.Background(), alice.ID, alice.ID)

	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "you cannot follow yourself", apperror.MessageOf(err))
	assert.Empty(t, e.store.Follows(context.Background()))
}

func TestFollowFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "")
	bob := e.register(t, "bob", "")

	following, err := e.social.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, e.social.IsFollowing(ctx, alice.ID, bob.ID))

	followers, err := e.social.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].User.Username)

	followed, err := e.social.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, "bob", followed[0].User.Username)

	p, err := e.social.Profile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.FollowerCount)

	_, err = e.social.ToggleFollow(ctx, "", bob.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	_, err = e.social.Followers(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.social.Following(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
