package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/store"
	"github.com/sakif/snipshare/internal/testutil"
)

// =========================================================================
// TEST FIXTURE
// =========================================================================

type testEnv struct {
	store    *store.Store
	sessions *SessionManager
	snippets *SnippetService
	social   *SocialService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithHasher(t, auth.PlainHasher{})
}

func newTestEnvWithHasher(t *testing.T, hasher auth.PasswordHasher) *testEnv {
	t.Helper()
	st, _ := testutil.NewStorage()
	t.Cleanup(func() { st.Close() })

	s := store.New(st, testutil.Logger(),
		store.WithClock(testutil.NewStubClock()),
		store.WithIDGenerator(&testutil.SequentialIDs{}),
	)
	return &testEnv{
		store:    s,
		sessions: NewSessionManager(s, hasher, testutil.Logger()),
		snippets: NewSnippetService(s, testutil.Logger()),
		social:   NewSocialService(s, testutil.Logger()),
	}
}

// register creates a user without touching the session.
func (e *testEnv) register(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	u, err := e.store.CreateUser(context.Background(), model.NewUser{
		Username: username,
		Password: "secret1",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) snippet(t *testing.T, authorID string, private bool) *model.Snippet {
	t.Helper()
	sn, err := e.snippets.Create(context.Background(), authorID, model.NewSnippet{
		Title:    "snippet",
		Language: "Go",
		Code:     "package main",
		Private:  private,
	})
	require.NoError(t, err)
	return sn
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	require.NoError(t, err)
	return ts
}
