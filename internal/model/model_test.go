package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"letters", "alice", true},
		{"digits and underscore", "bob_42", true},
		{"mixed case", "Dapsz1", true},
		{"empty", "", false},
		{"space", "al ice", false},
		{"dash", "al-ice", false},
		{"unicode", "alicé", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUsername(tt.in))
		})
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleModerator.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserPatchApply_OnlyTouchesSetFields(t *testing.T) {
	u := User{ID: "u1", Username: "alice", Password: "secret1", Role: RoleUser, Bio: "hi"}
	bio := "new bio"
	role := RoleModerator

	UserPatch{Bio: &bio, Role: &role}.Apply(&u)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "secret1", u.Password)
	assert.Equal(t, RoleModerator, u.Role)
	assert.Equal(t, "new bio", u.Bio)
}

func TestSnippetPatchApply(t *testing.T) {
	s := Snippet{Title: "old", Language: "go", Private: false}
	title := "new"
	private := true

	SnippetPatch{Title: &title, Private: &private}.Apply(&s)

	assert.Equal(t, "new", s.Title)
	assert.Equal(t, "go", s.Language)
	assert.True(t, s.Private)
}

func TestSnippetVisibleTo(t *testing.T) {
	public := Snippet{AuthorID: "a"}
	private := Snippet{AuthorID: "a", Private: true}

	assert.True(t, public.VisibleTo(""))
	assert.True(t, public.VisibleTo("b"))
	assert.False(t, private.VisibleTo(""))
	assert.False(t, private.VisibleTo("b"))
	assert.True(t, private.VisibleTo("a"))
}

func TestPublicDropsPassword(t *testing.T) {
	u := User{ID: "u1", Username: "alice", Password: "secret1"}
	p := u.Public()
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "alice", p.Username)
}
