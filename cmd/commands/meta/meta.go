package meta

import (
	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/metastore"

	"github.com/spf13/cobra"
)

// NewCommand returns the "meta" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Inspect the local metadata store",
		Long: `Inspect the metadata recorded by reconciliation: the last observed
fingerprint and snapshot of every user and group.

Entities removed from the directory keep their rows; compare LAST SYNC
against the latest run to spot them.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())

	return cmd
}

// openStore resolves settings before opening the database so the
// configured path is honored.
func openStore(cmd *cobra.Command) (*metastore.SQLiteRepository, error) {
	if _, _, err := app.Settings(cmd, nil); err != nil {
		return nil, err
	}
	return metastore.Open()
}
