// Package model defines the data structures used throughout the application.
//
// The `json:"..."` tags double as the persisted layout: every collection is
// stored as a JSON array of these structs under a single key.
package model

import (
	"regexp"
	"time"
)

// Role is the permission level of a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// DefaultProfilePic is assigned to every new account.
const DefaultProfilePic = "https://via.placeholder.com/150"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidUsername reports whether name is made only of letters, digits and underscores.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// User represents a registered user account.
//
// Password is an opaque string: plain text by default, a bcrypt hash when
// password hashing is enabled. It is persisted but must never be rendered;
// use Public for anything leaving the process.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	ProfilePic string    `json:"profilePic"`
	Bio        string    `json:"bio"`
}

// NewUser carries the caller-supplied fields for creating a user.
// Role may be left empty, in which case RoleUser is used.
type NewUser struct {
	Username string
	Password string
	Role     Role
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Username   *string
	Password   *string
	Role       *Role
	ProfilePic *string
	Bio        *string
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
}

// PublicUser is the password-free projection of a User.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	ProfilePic string    `json:"profilePic"`
	Bio        string    `json:"bio"`
}

// Public strips the password.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		ProfilePic: u.ProfilePic,
		Bio:        u.Bio,
	}
}
