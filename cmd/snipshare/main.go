// Command snipshare is a terminal client for a local snipshare store.
//
// It opens the same storage file as the HTTP server and keeps the login
// session in it, so `snipshare login` carries over to later invocations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/snipshare/internal/app"
	"github.com/sakif/snipshare/internal/config"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
	out        io.Writer
	errOut     io.Writer
}

// newApp reads the config and wires the services. The caller must defer a.Close().
// Logging stays at warn unless --verbose is set, so command output is not
// drowned in startup lines.
func (c *cli) newApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	logCfg := cfg.Log
	if !c.verbose {
		logCfg.Level = "warn"
	}
	a, err := app.New(ctx, cfg, logCfg.NewLogger(c.errOut))
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:          "snipshare",
		Short:        "Share and discover code snippets",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at the configured level")

	root.AddCommand(
		c.configCmd(),
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.snippetCmd(),
		c.likeCmd(),
		c.commentCmd(),
		c.followCmd(),
		c.profileCmd(),
	)
	return root
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "snipshare.toml"
			if len(args) > 0 {
				path = args[0]
			}

			write := config.Init
			if force {
				write = config.WriteFile
			}
			if err := write(path, config.Default()); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "Configuration initialized at %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
