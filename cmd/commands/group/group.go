package group

import "github.com/spf13/cobra"

// NewCommand returns the "group" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage directory groups",
		Long: `Manage directory groups and their membership through samba-tool.

Every change is recorded in the audit trail.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(DescribeCommand())
	cmd.AddCommand(AddMemberCommand())
	cmd.AddCommand(RemoveMemberCommand())
	cmd.AddCommand(DisableCommand())

	return cmd
}
