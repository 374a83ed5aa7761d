package store

import (
	"context"
	"log/slog"

	"github.com/sakif/snipshare/internal/model"
)

// SeedOptions describes the first-run admin account. AdminPassword is stored
// as given, so callers that hash passwords pass the hash.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminRole     model.Role
}

var exampleSnippets = []model.NewSnippet{
	{
		Title:       "Example JavaScript snippet",
		Language:    "javascript",
		Code:        "function helloWorld() {\n  console.log(\"Hello, World!\");\n}",
		Description: "A simple JavaScript example.",
	},
	{
		Title:       "Example Python snippet",
		Language:    "python",
		Code:        "def hello_world():\n    print(\"Hello, World!\")",
		Description: "A simple Python example.",
	},
}

// Seed creates the admin account when there are no users, and the example
// snippets under that admin when there are no snippets. Both checks run in
// one transaction, so seeding an already populated store changes nothing.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) error {
	role := opts.AdminRole
	if role == "" {
		role = model.RoleAdmin
	}

	var seededUser, seededSnippets bool
	err := s.update(ctx, "seeding", func(t *tx) error {
		if len(t.Users()) == 0 {
			_, err := t.createUser(model.NewUser{
				Username: opts.AdminUsername,
				Password: opts.AdminPassword,
				Role:     role,
			}, s.ids.NewID(), s.clock)
			if err != nil {
				return err
			}
			seededUser = true
		}

		if len(t.Snippets()) > 0 {
			return nil
		}
		admin := t.userByUsername(opts.AdminUsername)
		if admin == nil {
			return nil
		}
		for _, in := range exampleSnippets {
			in.AuthorID = admin.ID
			if _, err := t.createSnippet(in, s.ids.NewID(), s.clock); err != nil {
				return err
			}
		}
		seededSnippets = true
		return nil
	})
	if err != nil {
		return err
	}

	if seededUser || seededSnippets {
		s.logger.Info("store seeded",
			slog.Bool("admin", seededUser),
			slog.Bool("snippets", seededSnippets),
			slog.String("admin_username", opts.AdminUsername),
		)
	}
	return nil
}
