package auth

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/dirctl/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which passwords are stored",
		Long: `Show which directory passwords are stored in the keychain.

Example:
  dirctl auth status`,
		Args:         cobra.NoArgs,
		RunE:         runStatus,
		SilenceUsage: true,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	store := storeFactory()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, secret := range auth.Secrets {
		_, err := store.GetSecret(secret)
		switch {
		case err == nil:
			fmt.Fprintf(w, "%s:\tstored\n", secret)
		case errors.Is(err, auth.ErrSecretNotFound):
			fmt.Fprintf(w, "%s:\tnot stored\n", secret)
		default:
			fmt.Fprintf(w, "%s:\terror (%v)\n", secret, err)
		}
	}
	return w.Flush()
}
