package config

import (
	"fmt"
	"os"
	"text/tabwriter"

	"nathanbeddoewebdev/dirctl/internal/config"

	"github.com/spf13/cobra"
)

// ListCommand returns the "config list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List every configuration key with its file value and whether the
environment overrides it.

Example:
  dirctl config list`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tENV")
	for _, k := range config.Keys {
		value := k.Get(cfg)
		if value == "" {
			value = "(not set)"
		}
		env := k.Env
		if _, ok := os.LookupEnv(k.Env); ok {
			env += " (set)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", k.Name, value, env)
	}
	return w.Flush()
}
