package user

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/samba"

	"github.com/spf13/cobra"
)

func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a user's basic attributes",
		Long: `Update basic attributes of a user account. Only the flags given are changed.

Example:
  dirctl user update alice --display-name "Alice Smith" --mail alice@example.com`,
		Args:         cobra.ExactArgs(1),
		RunE:         runUpdate,
		SilenceUsage: true,
	}

	addAttrFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	attrs := attrsFromFlags(cmd)
	if attrs.Empty() {
		return errors.New("nothing to update: pass at least one of --given-name, --surname, --display-name, --mail, --upn")
	}

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.UpdateUser(a.Context(cmd), args[0], attrs)
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("User %q updated.", args[0]))
	return nil
}

func addAttrFlags(cmd *cobra.Command) {
	cmd.Flags().String("given-name", "", "Given name")
	cmd.Flags().String("surname", "", "Surname")
	cmd.Flags().String("display-name", "", "Display name")
	cmd.Flags().String("mail", "", "Mail address")
	cmd.Flags().String("upn", "", "User principal name")
}

func attrsFromFlags(cmd *cobra.Command) samba.UserAttrs {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return samba.UserAttrs{
		GivenName:   get("given-name"),
		Surname:     get("surname"),
		DisplayName: get("display-name"),
		Mail:        get("mail"),
		UPN:         get("upn"),
	}
}
