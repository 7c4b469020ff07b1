package sync

import (
	"nathanbeddoewebdev/dirctl/internal/domain"

	"github.com/spf13/cobra"
)

// NewCommand returns the "sync" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local metadata store with the directory",
		Long: `Reconcile the local metadata store with the directory.

A run reads every entity of one type, fingerprints its attributes and writes
only the entities that changed since the previous run. Only one run per
entity type can be in progress at a time.`,
	}

	cmd.AddCommand(RunCommand())
	cmd.AddCommand(WatchCommand())

	return cmd
}

// entityTypes parses the optional type argument. No argument means both.
func entityTypes(args []string) ([]domain.EntityType, error) {
	if len(args) == 0 {
		return []domain.EntityType{domain.EntityUser, domain.EntityGroup}, nil
	}
	et, err := domain.ParseEntityType(args[0])
	if err != nil {
		return nil, err
	}
	return []domain.EntityType{et}, nil
}
