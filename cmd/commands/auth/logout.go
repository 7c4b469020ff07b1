package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout <bind|samba>",
		Short: "Remove a stored password",
		Long: `Remove a directory password from the keychain.

Example:
  dirctl auth logout samba`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogout,
		SilenceUsage: true,
	}

	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	secret, err := auth.ParseSecret(args[0])
	if err != nil {
		return err
	}
	err = storeFactory().DeleteSecret(secret)
	if errors.Is(err, auth.ErrSecretNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s password stored\n", secret)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s password: %w", secret, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s password\n", secret)
	return nil
}
