package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value clears the key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  dirctl config set realm EXAMPLE.COM\n" +
			"  dirctl config set sync-source scripts",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	k := config.Lookup(util.NormalizeKey(args[0]))
	if k == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := strings.TrimSpace(args[1])
	if k.Validate != nil && value != "" {
		if err := k.Validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", k.Name, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	k.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", k.Name, value)
	return nil
}
