package script

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

// NewCommand returns the "script" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Run directory helper scripts",
		Long: `Run helper scripts from the configured scripts directory.

Script identifiers are paths relative to that directory, such as
users/list_users.sh. Paths that escape the directory are rejected.`,
	}

	cmd.AddCommand(RunCommand())

	return cmd
}

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <id> [args...]",
		Short: "Run a helper script and print its output",
		Long: `Run a helper script with the LDAP connection settings exported in its
environment (LDAP_URI, BIND_DN, BIND_PW, BASE_DN, USERS_OU, DOMAIN) and
print its standard output.

Examples:
  dirctl script run users/list_users.sh
  dirctl script run users/get_user.sh alice`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runScript,
		SilenceUsage: true,
	}

	return cmd
}

func runScript(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Scripts.Run(a.Context(cmd), args[0], args[1:]...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
