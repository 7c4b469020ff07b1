package user

import (
	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/domain"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a user's attributes",
		Long: `Show the attributes of one user account.

Examples:
  dirctl user show alice
  dirctl user show alice -o yaml`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	app.AddOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	output, err := app.OutputFormat(cmd)
	if err != nil {
		return err
	}
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.Directory.Show(a.Context(cmd), domain.EntityUser, args[0])
	if err != nil {
		return err
	}
	return app.PrintEntity(cmd.OutOrStdout(), output, domain.EntityUser, args[0], rec)
}
