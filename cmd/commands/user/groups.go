package user

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

func AddGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-group <user> <group>",
		Short: "Add a user to a group",
		Long: `Add a user to a group.

Example:
  dirctl user add-group alice Staff`,
		Args:         cobra.ExactArgs(2),
		RunE:         runAddGroup,
		SilenceUsage: true,
	}

	return cmd
}

func runAddGroup(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.AddUserToGroup(a.Context(cmd), args[0], args[1])
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("User %q added to %q.", args[0], args[1]))
	return nil
}

func RemoveGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-group <user> <group>",
		Short: "Remove a user from a group",
		Long: `Remove a user from a group.

Example:
  dirctl user remove-group alice Staff`,
		Args:         cobra.ExactArgs(2),
		RunE:         runRemoveGroup,
		SilenceUsage: true,
	}

	return cmd
}

func runRemoveGroup(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.RemoveUserFromGroup(a.Context(cmd), args[0], args[1])
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("User %q removed from %q.", args[0], args[1]))
	return nil
}
