package cache

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/swrcache"

	"github.com/spf13/cobra"
)

// NewCommand returns the "cache" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached directory reads",
		Long: `List and show results are cached on disk per realm and refreshed in the
background once they are a minute old. Mutations drop the affected entries.`,
	}

	cmd.AddCommand(ClearCommand())

	return cmd
}

func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached read for the configured realm",
		Long: `Drop every cached list and show result for the configured realm so the
next read goes to the directory.

Example:
  dirctl cache clear`,
		Args:         cobra.NoArgs,
		RunE:         runClear,
		SilenceUsage: true,
	}

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	s, _, err := app.Settings(cmd, nil)
	if err != nil {
		return err
	}

	c := swrcache.ForRealm(s.Realm)
	if err := c.Clear(); err != nil {
		return fmt.Errorf("clearing %s: %w", c.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached reads in %s.\n", c.Dir())
	return nil
}
