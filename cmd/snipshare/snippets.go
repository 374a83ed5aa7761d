package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sakif/snipshare/internal/model"
)

func (c *cli) snippetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snippet",
		Aliases: []string{"snippets"},
		Short:   "Browse and manage snippets",
	}
	cmd.AddCommand(c.snippetListCmd(), c.snippetShowCmd(), c.snippetCreateCmd(), c.snippetDeleteCmd())
	return cmd
}

func (c *cli) snippetListCmd() *cobra.Command {
	var language, author string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snippets in the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			viewer := a.Sessions.ActiveUserID()
			var snippets []model.Snippet
			if author != "" {
				u := a.Store.UserByUsername(ctx, author)
				if u == nil {
					return fmt.Errorf("no user named %q", author)
				}
				snippets = a.Snippets.UserSnippets(ctx, viewer, u.ID)
			} else {
				snippets = a.Snippets.Feed(ctx, viewer, language)
			}

			if len(snippets) == 0 {
				fmt.Fprintln(c.out, "No snippets found.")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tLANGUAGE\tAUTHOR\tLIKES\tCOMMENTS")
			for _, sn := range snippets {
				title := sn.Title
				if sn.Private {
					title += " (private)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", sn.ID, title, sn.Language, sn.Author, sn.Likes, sn.Comments)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "only show snippets in this language")
	cmd.Flags().StringVar(&author, "author", "", "only show snippets by this user")
	return cmd
}

func (c *cli) snippetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a snippet with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			viewer := a.Sessions.ActiveUserID()
			sn, err := a.Snippets.Get(ctx, viewer, args[0])
			if err != nil {
				return err
			}
			comments, err := a.Snippets.Comments(ctx, viewer, sn.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s [%s] by %s\n", sn.Title, sn.Language, sn.Author)
			if sn.Description != "" {
				fmt.Fprintln(c.out, sn.Description)
			}
			fmt.Fprintf(c.out, "\n%s\n\n", sn.Code)
			fmt.Fprintf(c.out, "%d like(s), %d comment(s)\n", sn.Likes, sn.Comments)
			for _, cm := range comments {
				fmt.Fprintf(c.out, "  %s: %s\n", cm.Author, cm.Text)
			}
			return nil
		},
	}
}

func (c *cli) snippetCreateCmd() *cobra.Command {
	var (
		in      model.NewSnippet
		file    string
		private bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Share a new snippet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code, err := readCode(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			in.Code = code
			in.Private = private
			sn, err := a.Snippets.Create(ctx, a.Sessions.ActiveUserID(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created snippet %s\n", sn.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "snippet title")
	cmd.Flags().StringVarP(&in.Language, "language", "l", "", "language tag")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "short description")
	cmd.Flags().StringVarP(&file, "file", "f", "-", `file holding the code ("-" reads stdin)`)
	cmd.Flags().BoolVar(&private, "private", false, "only you can see it")
	return cmd
}

func readCode(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}

func (c *cli) snippetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a snippet with its likes and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Snippets.Delete(ctx, a.Sessions.ActiveUserID(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted snippet %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like ID",
		Short: "Like or unlike a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			liked, err := a.Snippets.ToggleLike(ctx, a.Sessions.ActiveUserID(), args[0])
			if err != nil {
				return err
			}
			if liked {
				fmt.Fprintln(c.out, "Liked")
			} else {
				fmt.Fprintln(c.out, "Unliked")
			}
			return nil
		},
	}
}

func (c *cli) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment ID TEXT",
		Short: "Comment on a snippet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cm, err := a.Snippets.AddComment(ctx, a.Sessions.ActiveUserID(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added comment %s\n", cm.ID)
			return nil
		},
	}
}
