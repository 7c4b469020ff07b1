package user

import "github.com/spf13/cobra"

// NewCommand returns the "user" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage directory users",
		Long: `Manage directory user accounts through samba-tool.

Every change is recorded in the audit trail. With --dry-run, commands print
what would be executed without touching the directory.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(SetPasswordCommand())
	cmd.AddCommand(EnableCommand())
	cmd.AddCommand(DisableCommand())
	cmd.AddCommand(AddGroupCommand())
	cmd.AddCommand(RemoveGroupCommand())
	cmd.AddCommand(VerifyCommand())

	return cmd
}
