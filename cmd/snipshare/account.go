package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/snipshare/internal/model"
)

func (c *cli) registerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register USERNAME",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Sessions.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Welcome, %s! You are now logged in.\n", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login USERNAME",
		Short: "Log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Sessions.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s (%s)\n", u.Username, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u := a.Sessions.CurrentUser(cmd.Context())
			if u == nil {
				fmt.Fprintln(c.out, "Not logged in")
				return nil
			}
			sess := a.Sessions.Session()
			fmt.Fprintf(c.out, "%s (%s) since %s\n", u.Username, u.Role, sess.LoginTime.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [USERNAME]",
		Short: "Show a user's profile (defaults to yours)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var u *model.User
			if len(args) > 0 {
				u = a.Store.UserByUsername(ctx, args[0])
				if u == nil {
					return fmt.Errorf("no user named %q", args[0])
				}
			} else if u, err = a.Sessions.RequireUser(ctx); err != nil {
				return err
			}

			p, err := a.Social.Profile(ctx, u.ID)
			if err != nil {
				return err
			}

			name := p.User.Username
			if p.Verified {
				name += " [verified]"
			}
			fmt.Fprintf(c.out, "%s (%s)\n", name, p.User.Role)
			if p.User.Bio != "" {
				fmt.Fprintf(c.out, "%s\n", p.User.Bio)
			}
			fmt.Fprintf(c.out, "Snippets:  %d\n", p.SnippetCount)
			fmt.Fprintf(c.out, "Likes:     %d\n", p.TotalLikes)
			fmt.Fprintf(c.out, "Followers: %d\n", p.FollowerCount)
			fmt.Fprintf(c.out, "Following: %d\n", p.FollowingCount)
			return nil
		},
	}
}

func (c *cli) followCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow USERNAME",
		Short: "Follow or unfollow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			target := a.Store.UserByUsername(ctx, args[0])
			if target == nil {
				return fmt.Errorf("no user named %q", args[0])
			}

			following, err := a.Social.ToggleFollow(ctx, a.Sessions.ActiveUserID(), target.ID)
			if err != nil {
				return err
			}
			if following {
				fmt.Fprintf(c.out, "Following %s\n", target.Username)
			} else {
				fmt.Fprintf(c.out, "Unfollowed %s\n", target.Username)
			}
			return nil
		},
	}
}
