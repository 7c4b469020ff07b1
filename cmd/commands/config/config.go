package config

import (
	"nathanbeddoewebdev/dirctl/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dirctl configuration",
		Long: "View and modify persistent dirctl settings.\n\n" +
			"Configuration is stored at ~/.config/dirctl/config.json. Environment\n" +
			"variables (shown in parentheses) override file values.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())
	cmd.AddCommand(ListCommand())

	return cmd
}
