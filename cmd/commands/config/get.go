package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/util"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: "Print the value stored in the config file for a key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  dirctl config get realm",
		Args:         cobra.ExactArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	k := config.Lookup(util.NormalizeKey(args[0]))
	if k == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value := k.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}
