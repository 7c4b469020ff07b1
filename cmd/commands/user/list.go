package user

import (
	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/domain"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user names",
		Long: `List every user account name.

Results are cached briefly and refreshed in the background.

Examples:
  dirctl user list
  dirctl user list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	app.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, err := app.OutputFormat(cmd)
	if err != nil {
		return err
	}
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.Directory.List(a.Context(cmd), domain.EntityUser)
	if err != nil {
		return err
	}
	return app.PrintNames(cmd.OutOrStdout(), output, names)
}
