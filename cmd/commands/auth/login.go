package auth

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"nathanbeddoewebdev/dirctl/internal/services/auth"
	"nathanbeddoewebdev/dirctl/internal/tui"

	"github.com/spf13/cobra"
)

// storeFactory is replaced in tests.
var storeFactory = auth.DefaultStore

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <bind|samba>",
		Short: "Store a directory password in the keychain",
		Long: `Store a directory password in the local keychain.

Without --password-stdin the password is prompted for interactively.

Examples:
  dirctl auth login samba
  printf '%s' "$PW" | dirctl auth login bind --password-stdin`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	secret, err := auth.ParseSecret(args[0])
	if err != nil {
		return err
	}

	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	var password string
	if fromStdin {
		password, err = readSecret(cmd.InOrStdin())
	} else {
		password, err = tui.PromptPassword(fmt.Sprintf("Enter %s password", secret))
	}
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if err := storeFactory().SetSecret(secret, password); err != nil {
		return fmt.Errorf("failed to store %s password: %w", secret, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s password\n", secret)
	return nil
}

// readSecret returns the first line of r without its line terminator.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
