package group

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

func AddMemberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-member <group> <member>",
		Short: "Add a member to a group",
		Long: `Add a user or group as a member of a group.

Example:
  dirctl group add-member Staff alice`,
		Args:         cobra.ExactArgs(2),
		RunE:         runAddMember,
		SilenceUsage: true,
	}

	return cmd
}

func runAddMember(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.AddGroupMember(a.Context(cmd), args[0], args[1])
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("%q added to %q.", args[1], args[0]))
	return nil
}

func RemoveMemberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-member <group> <member>",
		Short: "Remove a member from a group",
		Long: `Remove a member from a group.

Example:
  dirctl group remove-member Staff alice`,
		Args:         cobra.ExactArgs(2),
		RunE:         runRemoveMember,
		SilenceUsage: true,
	}

	return cmd
}

func runRemoveMember(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.RemoveGroupMember(a.Context(cmd), args[0], args[1])
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("%q removed from %q.", args[1], args[0]))
	return nil
}
