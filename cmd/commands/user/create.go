package user

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/services/directory"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user",
		Long: `Create a user account with an initial password.

The password is prompted for, or read from stdin with --password-stdin. It is
never accepted as a flag so it cannot leak through shell history.

Examples:
  dirctl user create alice --given-name Alice --surname Smith --mail alice@example.com
  printf '%s\n' "$PW" | dirctl user create bob --password-stdin --must-change-password`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	addAttrFlags(cmd)
	app.AddPasswordFlags(cmd)
	cmd.Flags().Bool("must-change-password", false, "Require a password change at next login")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	password, err := app.ReadPassword(cmd, fmt.Sprintf("Initial password for %s", name))
	if err != nil {
		return err
	}
	mustChange, _ := cmd.Flags().GetBool("must-change-password")

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.CreateUser(a.Context(cmd), directory.CreateUserInput{
		Name:               name,
		Password:           password,
		Attrs:              attrsFromFlags(cmd),
		MustChangePassword: mustChange,
	})
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("User %q created.", name))
	return nil
}
