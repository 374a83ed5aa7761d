package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snipshare/internal/apperror"
)

func TestAuthService_RegisterIssuesToken(t *testing.T) {
	e := newTestEnv(t)
	tokens := newTestTokens(t)
	svc := NewAuthService(e.sessions, tokens, e.sessions.logger)

	res, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "alice", res.User.Username)
	subject, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, subject)
	assert.Equal(t, res.User.ID, e.sessions.ActiveUserID())
}

func TestAuthService_LoginAndLogout(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(e.sessions, newTestTokens(t), e.sessions.logger)
	e.register(t, "alice", "")

	_, err := svc.Login(ctx, "alice", "nope123")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	res, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	require.NoError(t, svc.Logout(ctx))
	assert.Empty(t, e.sessions.ActiveUserID())
}
