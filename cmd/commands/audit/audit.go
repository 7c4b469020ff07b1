package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage the audit trail",
		Long: "View the audit trail of directory operations and syncs, and prune old entries.\n\n" +
			"Every mutating operation and sync run is recorded, successful or not.\n" +
			"The trail is stored in ~/.config/dirctl/dirctl.db (DIRCTL_DB_PATH overrides).",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
