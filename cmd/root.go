package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/dirctl/cmd/commands/audit"
	"nathanbeddoewebdev/dirctl/cmd/commands/auth"
	"nathanbeddoewebdev/dirctl/cmd/commands/cache"
	cfgcmd "nathanbeddoewebdev/dirctl/cmd/commands/config"
	"nathanbeddoewebdev/dirctl/cmd/commands/group"
	"nathanbeddoewebdev/dirctl/cmd/commands/meta"
	"nathanbeddoewebdev/dirctl/cmd/commands/script"
	synccmd "nathanbeddoewebdev/dirctl/cmd/commands/sync"
	"nathanbeddoewebdev/dirctl/cmd/commands/user"
	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/tui"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "dirctl",
		Short: "A CLI tool for administering a Samba Active Directory domain",
		Long: `dirctl administers users and groups in a Samba Active Directory domain by
driving samba-tool and LDAP helper scripts. It records every change in a
local audit trail and keeps a fingerprinted shadow of directory metadata
that is reconciled incrementally.

Quick start:
  dirctl config set realm EXAMPLE.COM     # Point at your domain
  dirctl auth login samba                 # Store the admin password
  dirctl user list                        # List all users
  dirctl user create alice                # Create a user
  dirctl sync run                         # Reconcile metadata
  dirctl audit list                       # Review recent changes`,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default from config)")
	cmd.PersistentFlags().String("log-format", "auto", "Log format: auto, console or json")
	cmd.PersistentFlags().Bool("dry-run", false, "Print mutating commands instead of executing them")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(user.NewCommand())
	cmd.AddCommand(group.NewCommand())
	cmd.AddCommand(synccmd.NewCommand())
	cmd.AddCommand(meta.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(cache.NewCommand())
	cmd.AddCommand(script.NewCommand())

	return cmd
}

// Execute runs the root command and exits with a status derived from the
// returned error. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := rootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, tui.ErrAborted) {
			fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(app.ExitCode(err))
	}
}
