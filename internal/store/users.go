package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
)

// Users returns every user in insertion order.
func (s *Store) Users(ctx context.Context) []model.User {
	var out []model.User
	s.view(ctx, func(t *tx) {
		out = slices.Clone(t.Users())
	})
	return out
}

// UserByID returns the user with id, or nil.
func (s *Store) UserByID(ctx context.Context, id string) *model.User {
	var out *model.User
	s.view(ctx, func(t *tx) {
		if i := t.userIndex(id); i >= 0 {
			u := t.Users()[i]
			out = &u
		}
	})
	return out
}

// UserByUsername returns the first user whose username matches exactly, or nil.
func (s *Store) UserByUsername(ctx context.Context, username string) *model.User {
	var out *model.User
	s.view(ctx, func(t *tx) {
		out = t.userByUsername(username)
	})
	return out
}

// CreateUser adds a user. It fails with ErrConflict when the username is
// taken and leaves the collection untouched.
func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	var created model.User
	err := s.update(ctx, "creating user", func(t *tx) error {
		u, err := t.createUser(in, s.ids.NewID(), s.clock)
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("id", created.ID),
		slog.String("username", created.Username),
		slog.String("role", string(created.Role)),
	)
	return &created, nil
}

func (t *tx) createUser(in model.NewUser, id string, clock Clock) (model.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return model.User{}, err
	}
	if in.Password == "" {
		return model.User{}, apperror.ValidationFailed("password", "password is required")
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return model.User{}, apperror.ValidationFailed("role", fmt.Sprintf("invalid role %q", role))
	}
	if t.userByUsername(in.Username) != nil {
		return model.User{}, apperror.Conflict("user", "username", in.Username)
	}

	u := model.User{
		ID:         id,
		Username:   in.Username,
		Password:   in.Password,
		Role:       role,
		CreatedAt:  clock.Now(),
		ProfilePic: model.DefaultProfilePic,
		Bio:        "",
	}
	t.users.set(append(slices.Clone(t.Users()), u))
	return u, nil
}

// UpdateUser merges patch into the user with id.
//
// A username change is checked for character class and uniqueness against
// every other user, and is copied into the author snapshot of the user's
// snippets and comments in the same commit.
func (s *Store) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	var updated model.User
	err := s.update(ctx, "updating user", func(t *tx) error {
		i := t.userIndex(id)
		if i < 0 {
			return apperror.NotFound("user", id)
		}
		users := slices.Clone(t.Users())
		current := users[i]

		renamed := patch.Username != nil && *patch.Username != current.Username
		if renamed {
			if err := validateUsername(*patch.Username); err != nil {
				return err
			}
			if other := t.userByUsername(*patch.Username); other != nil && other.ID != id {
				return apperror.Conflict("user", "username", *patch.Username)
			}
		}
		if patch.Password != nil && *patch.Password == "" {
			return apperror.ValidationFailed("password", "password is required")
		}
		if patch.Role != nil && !patch.Role.Valid() {
			return apperror.ValidationFailed("role", fmt.Sprintf("invalid role %q", *patch.Role))
		}

		patch.Apply(&current)
		users[i] = current
		t.users.set(users)

		if renamed {
			t.renameAuthor(id, current.Username)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// renameAuthor rewrites the denormalized author name on everything userID wrote.
func (t *tx) renameAuthor(userID, username string) {
	snippets := slices.Clone(t.Snippets())
	changed := false
	for i := range snippets {
		if snippets[i].AuthorID == userID {
			snippets[i].Author = username
			changed = true
		}
	}
	if changed {
		t.snippets.set(snippets)
	}

	comments := slices.Clone(t.Comments())
	changed = false
	for i := range comments {
		if comments[i].UserID == userID {
			comments[i].Author = username
			changed = true
		}
	}
	if changed {
		t.comments.set(comments)
	}
}

// DeleteUser removes the user and everything that references them: their
// snippets, their comments and likes, the comments and likes on their
// snippets, and every follow edge where they are either side.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	err := s.update(ctx, "deleting user", func(t *tx) error {
		if t.userIndex(id) < 0 {
			return apperror.NotFound("user", id)
		}

		owned := make(map[string]bool)
		for _, sn := range t.Snippets() {
			if sn.AuthorID == id {
				owned[sn.ID] = true
			}
		}

		t.users.filter(t.ctx, t.st, func(u model.User) bool { return u.ID != id })
		t.snippets.filter(t.ctx, t.st, func(sn model.Snippet) bool { return sn.AuthorID != id })
		t.comments.filter(t.ctx, t.st, func(c model.Comment) bool {
			return c.UserID != id && !owned[c.SnippetID]
		})
		t.likes.filter(t.ctx, t.st, func(l model.Like) bool {
			return l.UserID != id && !owned[l.SnippetID]
		})
		t.follows.filter(t.ctx, t.st, func(f model.Follow) bool {
			return f.FollowerID != id && f.FollowingID != id
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: deleting user %s: %w", id, err)
	}

	s.logger.Info("user deleted", slog.String("id", id))
	return nil
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return apperror.ValidationFailed("username", "username is required")
	}
	if !model.ValidUsername(username) {
		return apperror.ValidationFailed("username", "username may only contain letters, digits, and underscores")
	}
	return nil
}
