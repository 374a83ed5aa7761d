package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/repository/memory"
	"github.com/sakif/snipshare/internal/repository/sqlite"
	"github.com/sakif/snipshare/internal/storage"
	"github.com/sakif/snipshare/internal/testutil"
)

// flakyBackend is a memory backend whose writes can be switched off.
type flakyBackend struct {
	*memory.Backend
	failPut atomic.Bool
}

func (f *flakyBackend) Put(ctx context.Context, entries map[string][]byte) error {
	if f.failPut.Load() {
		return errors.New("quota exceeded")
	}
	return f.Backend.Put(ctx, entries)
}

func newTestStore(t *testing.T) (*Store, *flakyBackend) {
	t.Helper()
	backend := &flakyBackend{Backend: memory.New()}
	st := storage.New(backend, testutil.Logger())
	s := New(st, testutil.Logger(),
		WithClock(testutil.NewStubClock()),
		WithIDGenerator(&testutil.SequentialIDs{}),
	)
	return s, backend
}

func mustCreateUser(t *testing.T, s *Store, username string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.NewUser{Username: username, Password: "secret1"})
	require.NoError(t, err)
	return u
}

func mustCreateSnippet(t *testing.T, s *Store, authorID, title string) *model.Snippet {
	t.Helper()
	sn, err := s.CreateSnippet(context.Background(), model.NewSnippet{
		Title:    title,
		Language: "go",
		Code:     "package main",
		AuthorID: authorID,
	})
	require.NoError(t, err)
	return sn
}

// =========================================================================
// USERS
// =========================================================================

func TestCreateUser_AppliesDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	u := mustCreateUser(t, s, "alice")

	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, model.DefaultProfilePic, u.ProfilePic)
	assert.Empty(t, u.Bio)
	assert.False(t, u.CreatedAt.IsZero())

	got := s.UserByID(context.Background(), u.ID)
	require.NotNil(t, got)
	assert.Equal(t, *u, *got)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "alice")

	u, err := s.CreateUser(ctx, model.NewUser{Username: "alice", Password: "other12"})

	assert.Nil(t, u)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Len(t, s.Users(ctx), 1)
}

func TestCreateUser_UsernameIsCaseSensitive(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreateUser(t, s, "alice")
	mustCreateUser(t, s, "Alice")

	assert.Len(t, s.Users(context.Background()), 2)
	assert.Nil(t, s.UserByUsername(context.Background(), "ALICE"))
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    model.NewUser
		field string
	}{
		{"empty username", model.NewUser{Password: "secret1"}, "username"},
		{"bad characters", model.NewUser{Username: "al ice", Password: "secret1"}, "username"},
		{"empty password", model.NewUser{Username: "alice"}, "password"},
		{"unknown role", model.NewUser{Username: "alice", Password: "secret1", Role: "root"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			_, err := s.CreateUser(context.Background(), tt.in)

			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
			assert.Empty(t, s.Users(context.Background()))
		})
	}
}

func TestUsers_EmptyStoreIsEmptyNotNil(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	assert.NotNil(t, s.Users(ctx))
	assert.NotNil(t, s.Snippets(ctx))
	assert.NotNil(t, s.Comments(ctx))
	assert.NotNil(t, s.Likes(ctx))
	assert.NotNil(t, s.Follows(ctx))
	assert.Nil(t, s.UserByID(ctx, "nope"))
	assert.Nil(t, s.SnippetByID(ctx, "nope"))
}

func TestUsers_MalformedCollectionReadsAsEmpty(t *testing.T) {
	s, backend := newTestStore(t)
	backend.Raw(KeyUsers, []byte(`{broken`))

	assert.Empty(t, s.Users(context.Background()))

	// and the next write replaces it
	mustCreateUser(t, s, "alice")
	assert.Len(t, s.Users(context.Background()), 1)
}

func TestUpdateUser_ConflictLeavesUsernameUnchanged(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	taken := "alice"
	_, err := s.UpdateUser(ctx, bob.ID, model.UserPatch{Username: &taken})

	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "bob", s.UserByID(ctx, bob.ID).Username)
}

func TestUpdateUser_KeepingOwnUsernameIsAllowed(t *testing.T) {
	s, _ := newTestStore(t)
	alice := mustCreateUser(t, s, "alice")

	same := "alice"
	bio := "hello"
	u, err := s.UpdateUser(context.Background(), alice.ID, model.UserPatch{Username: &same, Bio: &bio})

	require.NoError(t, err)
	assert.Equal(t, "hello", u.Bio)
}

func TestUpdateUser_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	bio := "x"
	_, err := s.UpdateUser(context.Background(), "ghost", model.UserPatch{Bio: &bio})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateUser_InvalidRole(t *testing.T) {
	s, _ := newTestStore(t)
	alice := mustCreateUser(t, s, "alice")

	role := model.Role("root")
	_, err := s.UpdateUser(context.Background(), alice.ID, model.UserPatch{Role: &role})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateUser_RenamePropagatesToAuthorSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	aliceSnippet := mustCreateSnippet(t, s, alice.ID, "mine")
	bobSnippet := mustCreateSnippet(t, s, bob.ID, "his")
	_, err := s.AddComment(ctx, model.NewComment{SnippetID: bobSnippet.ID, UserID: alice.ID, Text: "nice"})
	require.NoError(t, err)

	name := "alice2"
	_, err = s.UpdateUser(ctx, alice.ID, model.UserPatch{Username: &name})
	require.NoError(t, err)

	assert.Equal(t, "alice2", s.SnippetByID(ctx, aliceSnippet.ID).Author)
	assert.Equal(t, "bob", s.SnippetByID(ctx, bobSnippet.ID).Author)
	comments := s.CommentsBySnippet(ctx, bobSnippet.ID)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice2", comments[0].Author)
}

// =========================================================================
// CASCADES
// =========================================================================

func TestDeleteUser_Cascades(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	aliceSnippet := mustCreateSnippet(t, s, alice.ID, "a")
	bobSnippet := mustCreateSnippet(t, s, bob.ID, "b")

	// bob's activity on alice's snippet goes too
	_, err := s.AddComment(ctx, model.NewComment{SnippetID: aliceSnippet.ID, UserID: bob.ID, Text: "on alice"})
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, bob.ID, aliceSnippet.ID)
	require.NoError(t, err)
	// alice's activity on bob's snippet
	_, err = s.AddComment(ctx, model.NewComment{SnippetID: bobSnippet.ID, UserID: alice.ID, Text: "by alice"})
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, alice.ID, bobSnippet.ID)
	require.NoError(t, err)
	// bob's own activity survives
	kept, err := s.AddComment(ctx, model.NewComment{SnippetID: bobSnippet.ID, UserID: bob.ID, Text: "by bob"})
	require.NoError(t, err)
	_, err = s.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, alice.ID))

	assert.Nil(t, s.UserByID(ctx, alice.ID))
	for _, sn := range s.Snippets(ctx) {
		assert.NotEqual(t, alice.ID, sn.AuthorID)
	}
	for _, c := range s.Comments(ctx) {
		assert.NotEqual(t, alice.ID, c.UserID)
		assert.NotEqual(t, aliceSnippet.ID, c.SnippetID)
	}
	for _, l := range s.Likes(ctx) {
		assert.NotEqual(t, alice.ID, l.UserID)
		assert.NotEqual(t, aliceSnippet.ID, l.SnippetID)
	}
	assert.Empty(t, s.Follows(ctx))

	assert.Equal(t, []model.Comment{*kept}, s.Comments(ctx))
	remaining := s.SnippetByID(ctx, bobSnippet.ID)
	require.NotNil(t, remaining)
	assert.Equal(t, 0, remaining.Likes)
	assert.Equal(t, 1, remaining.Comments)
}

func TestDeleteUser_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.DeleteUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "user not found with id ghost", apperror.MessageOf(err))
}

func TestDeleteSnippet_Cascades(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	doomed := mustCreateSnippet(t, s, alice.ID, "doomed")
	other := mustCreateSnippet(t, s, alice.ID, "other")
	_, err := s.AddComment(ctx, model.NewComment{SnippetID: doomed.ID, UserID: alice.ID, Text: "x"})
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, alice.ID, doomed.ID)
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, alice.ID, other.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteSnippet(ctx, doomed.ID))

	assert.Nil(t, s.SnippetByID(ctx, doomed.ID))
	assert.Empty(t, s.Comments(ctx))
	require.Len(t, s.Likes(ctx), 1)
	assert.Equal(t, other.ID, s.Likes(ctx)[0].SnippetID)

	assert.ErrorIs(t, s.DeleteSnippet(ctx, doomed.ID), apperror.ErrNotFound)
}

func TestFailedCommitLeavesStateUntouched(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	sn := mustCreateSnippet(t, s, alice.ID, "a")
	_, err := s.ToggleLike(ctx, alice.ID, sn.ID)
	require.NoError(t, err)

	backend.failPut.Store(true)
	err = s.DeleteUser(ctx, alice.ID)
	backend.failPut.Store(false)

	assert.ErrorIs(t, err, apperror.ErrStorage)
	assert.NotNil(t, s.UserByID(ctx, alice.ID))
	assert.Len(t, s.Snippets(ctx), 1)
	assert.Len(t, s.Likes(ctx), 1)
}

// =========================================================================
// SNIPPETS & COMMENTS
// =========================================================================

func TestCreateSnippet(t *testing.T) {
	s, _ := newTestStore(t)
	alice := mustCreateUser(t, s, "alice")

	sn := mustCreateSnippet(t, s, alice.ID, "x")

	assert.Equal(t, "alice", sn.Author)
	assert.Equal(t, 0, sn.Likes)
	assert.Equal(t, 0, sn.Comments)
	assert.Equal(t, []model.Snippet{*sn}, s.Snippets(context.Background()))
}

func TestCreateSnippet_Errors(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")

	_, err := s.CreateSnippet(ctx, model.NewSnippet{Title: "x", Code: "y", AuthorID: "ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = s.CreateSnippet(ctx, model.NewSnippet{Title: " ", Code: "y", AuthorID: alice.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = s.CreateSnippet(ctx, model.NewSnippet{Title: "x", AuthorID: alice.ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = s.CreateSnippet(ctx, model.NewSnippet{Title: "x", Code: "y"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Empty(t, s.Snippets(ctx))
}

func TestUpdateSnippet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	sn := mustCreateSnippet(t, s, alice.ID, "x")
	_, err := s.ToggleLike(ctx, alice.ID, sn.ID)
	require.NoError(t, err)

	title := "renamed"
	private := true
	got, err := s.UpdateSnippet(ctx, sn.ID, model.SnippetPatch{Title: &title, Private: &private})

	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.Private)
	assert.Equal(t, "package main", got.Code)
	assert.Equal(t, 1, got.Likes)

	_, err = s.UpdateSnippet(ctx, "ghost", model.SnippetPatch{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestComments(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	sn := mustCreateSnippet(t, s, alice.ID, "x")

	first, err := s.AddComment(ctx, model.NewComment{SnippetID: sn.ID, UserID: alice.ID, Text: "  first  "})
	require.NoError(t, err)
	second, err := s.AddComment(ctx, model.NewComment{SnippetID: sn.ID, UserID: alice.ID, Text: "second"})
	require.NoError(t, err)

	assert.Equal(t, "first", first.Text)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, []model.Comment{*first, *second}, s.CommentsBySnippet(ctx, sn.ID))
	assert.Equal(t, 2, s.SnippetByID(ctx, sn.ID).Comments)

	require.NoError(t, s.DeleteComment(ctx, first.ID))
	assert.Nil(t, s.CommentByID(ctx, first.ID))
	assert.Equal(t, 1, s.SnippetByID(ctx, sn.ID).Comments)
	assert.ErrorIs(t, s.DeleteComment(ctx, first.ID), apperror.ErrNotFound)

	_, err = s.AddComment(ctx, model.NewComment{SnippetID: "ghost", UserID: alice.ID, Text: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = s.AddComment(ctx, model.NewComment{SnippetID: sn.ID, UserID: alice.ID, Text: "   "})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Empty(t, s.CommentsBySnippet(ctx, "ghost"))
}

// =========================================================================
// TOGGLES
// =========================================================================

func TestToggleLike_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	sn := mustCreateSnippet(t, s, alice.ID, "x")

	liked, err := s.ToggleLike(ctx, alice.ID, sn.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, s.IsLiked(ctx, alice.ID, sn.ID))
	assert.Equal(t, 1, s.SnippetByID(ctx, sn.ID).Likes)

	liked, err = s.ToggleLike(ctx, alice.ID, sn.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.False(t, s.IsLiked(ctx, alice.ID, sn.ID))
	assert.Equal(t, 0, s.SnippetByID(ctx, sn.ID).Likes)
}

func TestToggleLike_CounterNeverNegative(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	sn := mustCreateSnippet(t, s, alice.ID, "x")

	for i, uid := range []string{bob.ID, alice.ID, bob.ID, bob.ID, alice.ID, alice.ID} {
		_, err := s.ToggleLike(ctx, uid, sn.ID)
		require.NoError(t, err)
		got := s.SnippetByID(ctx, sn.ID).Likes
		assert.GreaterOrEqual(t, got, 0, "step %d", i)
		assert.Len(t, s.Likes(ctx), got, "step %d", i)
	}

	// the persisted counter matches the edges too
	raw, err := backend.Get(ctx, KeySnippets)
	require.NoError(t, err)
	var stored []model.Snippet
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Likes)
}

func TestToggleLike_MissingRecords(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	sn := mustCreateSnippet(t, s, alice.ID, "x")

	_, err := s.ToggleLike(ctx, alice.ID, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = s.ToggleLike(ctx, "ghost", sn.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, s.Likes(ctx))
}

func TestToggleFollow(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	following, err := s.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, s.IsFollowing(ctx, alice.ID, bob.ID))
	assert.False(t, s.IsFollowing(ctx, bob.ID, alice.ID))
	assert.Equal(t, 1, s.FollowerCount(ctx, bob.ID))
	assert.Equal(t, 1, s.FollowingCount(ctx, alice.ID))

	following, err = s.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, 0, s.FollowerCount(ctx, bob.ID))

	_, err = s.ToggleFollow(ctx, alice.ID, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// DERIVED VIEWS
// =========================================================================

func TestFollowersAndFollowing_DropDanglingEdges(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	_, err := s.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	follows := s.Follows(ctx)
	follows = append(follows,
		model.Follow{ID: "f-ghost-1", FollowerID: "ghost", FollowingID: alice.ID},
		model.Follow{ID: "f-ghost-2", FollowerID: alice.ID, FollowingID: "ghost"},
	)
	raw, err := json.Marshal(follows)
	require.NoError(t, err)
	backend.Raw(KeyFollowing, raw)

	followers := s.Followers(ctx, alice.ID)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].User.Username)
	assert.Empty(t, s.Following(ctx, alice.ID))

	following := s.Following(ctx, bob.ID)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].User.Username)

	// counts are raw edge counts
	assert.Equal(t, 2, s.FollowerCount(ctx, alice.ID))
}

func TestLikedSnippets_DropDanglingEdges(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	sn := mustCreateSnippet(t, s, alice.ID, "x")
	_, err := s.ToggleLike(ctx, alice.ID, sn.ID)
	require.NoError(t, err)

	likes := append(s.Likes(ctx), model.Like{ID: "l-ghost", UserID: alice.ID, SnippetID: "ghost"})
	raw, err := json.Marshal(likes)
	require.NoError(t, err)
	backend.Raw(KeyLikes, raw)

	liked := s.LikedSnippets(ctx, alice.ID)
	require.Len(t, liked, 1)
	assert.Equal(t, sn.ID, liked[0].Snippet.ID)
	assert.Equal(t, 1, liked[0].Snippet.Likes)
}

func TestUserSnippetsAndTotalLikes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	a1 := mustCreateSnippet(t, s, alice.ID, "a1")
	a2 := mustCreateSnippet(t, s, alice.ID, "a2")
	mustCreateSnippet(t, s, bob.ID, "b1")

	for _, pair := range [][2]string{{alice.ID, a1.ID}, {bob.ID, a1.ID}, {bob.ID, a2.ID}} {
		_, err := s.ToggleLike(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	snippets := s.UserSnippets(ctx, alice.ID)
	require.Len(t, snippets, 2)
	assert.Equal(t, "a1", snippets[0].Title)
	assert.Equal(t, 3, s.UserTotalLikes(ctx, alice.ID))
	assert.Equal(t, 0, s.UserTotalLikes(ctx, bob.ID))
	assert.Empty(t, s.UserSnippets(ctx, "ghost"))
}

func TestIsVerified(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	star := mustCreateUser(t, s, "star")

	for i := 0; i < VerifiedFollowerThreshold; i++ {
		assert.False(t, s.IsVerified(ctx, star.ID))
		fan := mustCreateUser(t, s, fmt.Sprintf("fan_%d", i))
		_, err := s.ToggleFollow(ctx, fan.ID, star.ID)
		require.NoError(t, err)
	}
	assert.True(t, s.IsVerified(ctx, star.ID))

	p, err := s.Profile(ctx, star.ID)
	require.NoError(t, err)
	assert.True(t, p.Verified)
	assert.Equal(t, VerifiedFollowerThreshold, p.FollowerCount)
}

func TestProfile(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	sn := mustCreateSnippet(t, s, alice.ID, "x")
	_, err := s.ToggleLike(ctx, bob.ID, sn.ID)
	require.NoError(t, err)
	_, err = s.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	p, err := s.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{
		User:           alice.Public(),
		FollowerCount:  0,
		FollowingCount: 1,
		SnippetCount:   1,
		TotalLikes:     1,
		Verified:       false,
	}, *p)

	_, err = s.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// SEED & SESSION
// =========================================================================

func TestSeed(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	opts := SeedOptions{AdminUsername: "dapsz1", AdminPassword: "082197"}

	require.NoError(t, s.Seed(ctx, opts))

	admin := s.UserByUsername(ctx, "dapsz1")
	require.NotNil(t, admin)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	snippets := s.Snippets(ctx)
	require.Len(t, snippets, 2)
	for _, sn := range snippets {
		assert.Equal(t, admin.ID, sn.AuthorID)
		assert.Equal(t, "dapsz1", sn.Author)
	}

	// a second run is a no-op
	require.NoError(t, s.Seed(ctx, opts))
	assert.Len(t, s.Users(ctx), 1)
	assert.Len(t, s.Snippets(ctx), 2)
}

func TestSeed_SkipsAdminWhenUsersExist(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "alice")

	require.NoError(t, s.Seed(ctx, SeedOptions{AdminUsername: "dapsz1", AdminPassword: "082197"}))

	assert.Nil(t, s.UserByUsername(ctx, "dapsz1"))
	assert.Empty(t, s.Snippets(ctx))
}

func TestSessionPersistence(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	assert.Nil(t, s.LoadSession(ctx))

	sess := model.Session{UserID: "u1", Username: "alice", Role: model.RoleUser}
	require.NoError(t, s.SaveSession(ctx, sess))
	got := s.LoadSession(ctx)
	require.NotNil(t, got)
	assert.Equal(t, sess, *got)

	require.NoError(t, s.ClearSession(ctx))
	assert.Nil(t, s.LoadSession(ctx))
	require.NoError(t, s.ClearSession(ctx))

	backend.Raw(KeySession, []byte(`nonsense`))
	assert.Nil(t, s.LoadSession(ctx))

	backend.failPut.Store(true)
	assert.ErrorIs(t, s.SaveSession(ctx, sess), apperror.ErrStorage)
}

// =========================================================================
// SQLITE
// =========================================================================

func TestScenario_OnSQLite(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	st := storage.New(db, testutil.Logger())
	t.Cleanup(func() { st.Close() })
	s := New(st, testutil.Logger())
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, model.NewUser{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	sn, err := s.CreateSnippet(ctx, model.NewSnippet{Title: "x", Code: "print(1)", AuthorID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, sn.Likes)

	liked, err := s.ToggleLike(ctx, alice.ID, sn.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, s.SnippetByID(ctx, sn.ID).Likes)

	require.NoError(t, s.DeleteUser(ctx, alice.ID))
	assert.Empty(t, s.Snippets(ctx))
	assert.Empty(t, s.Likes(ctx))
}
