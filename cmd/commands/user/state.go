package user

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

func EnableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enable <name>",
		Short: "Enable a user account",
		Long: `Enable a disabled user account.

Example:
  dirctl user enable alice`,
		Args:         cobra.ExactArgs(1),
		RunE:         runEnable,
		SilenceUsage: true,
	}

	return cmd
}

func runEnable(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.EnableUser(a.Context(cmd), args[0])
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("User %q enabled.", args[0]))
	return nil
}

func DisableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disable <name>",
		Short: "Disable a user account",
		Long: `Disable a user account. Asks for confirmation unless --yes is given.

Examples:
  dirctl user disable alice
  dirctl user disable alice --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDisable,
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runDisable(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := app.Confirm(cmd, fmt.Sprintf("Disable user %q?", name), "The account will no longer be able to log in."); err != nil {
		return err
	}

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.DisableUser(a.Context(cmd), name)
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("User %q disabled.", name))
	return nil
}
