package user

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

func SetPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-password <name>",
		Short: "Reset a user's password",
		Long: `Reset a user's password.

Examples:
  dirctl user set-password alice --must-change-password
  printf '%s\n' "$PW" | dirctl user set-password alice --password-stdin`,
		Args:         cobra.ExactArgs(1),
		RunE:         runSetPassword,
		SilenceUsage: true,
	}

	app.AddPasswordFlags(cmd)
	cmd.Flags().Bool("must-change-password", false, "Require a password change at next login")

	return cmd
}

func runSetPassword(cmd *cobra.Command, args []string) error {
	name := args[0]
	password, err := app.ReadPassword(cmd, fmt.Sprintf("New password for %s", name))
	if err != nil {
		return err
	}
	mustChange, _ := cmd.Flags().GetBool("must-change-password")

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.ResetPassword(a.Context(cmd), name, password, mustChange)
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("Password for %q reset.", name))
	return nil
}

func VerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <name>",
		Short: "Check a user's password",
		Long: `Check a user's password by requesting a Kerberos ticket as that user.

Exits 0 when the password is valid and 1 when it is rejected.

Example:
  printf '%s\n' "$PW" | dirctl user verify alice --password-stdin`,
		Args:         cobra.ExactArgs(1),
		RunE:         runVerify,
		SilenceUsage: true,
	}

	app.AddPasswordFlags(cmd)

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	name := args[0]
	password, err := app.ReadPassword(cmd, fmt.Sprintf("Password for %s", name))
	if err != nil {
		return err
	}

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ok, err := a.Directory.VerifyPassword(a.Context(cmd), name, password)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("password for %q is not valid", name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Password for %q is valid.\n", name)
	return nil
}
