package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored directory credentials",
		Long: `Manage stored directory credentials.

Two secrets are kept in the OS keychain:
  bind   password for BIND_DN, exported to the directory scripts as BIND_PW
  samba  password for the administrative account used with samba-tool -U

Environment variables (BIND_PW, SAMBA_AUTH_PASSWORD) take precedence.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}
