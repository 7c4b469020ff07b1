package group

import (
	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/domain"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List group names",
		Long: `List every group name.

Examples:
  dirctl group list
  dirctl group list -o json`,
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

	names, err := a.Directory.List(a.Context(cmd), domain.EntityGroup)
	if err != nil {
		return err
	}
	return app.PrintNames(cmd.OutOrStdout(), output, names)
}

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a group's attributes",
		Long: `Show the attributes of one group, including its members.

Example:
  dirctl group show Staff`,
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

	rec, err := a.Directory.Show(a.Context(cmd), domain.EntityGroup, args[0])
	if err != nil {
		return err
	}
	return app.PrintEntity(cmd.OutOrStdout(), output, domain.EntityGroup, args[0], rec)
}
