package group

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Long: `Create a security group.

Example:
  dirctl group create Staff --description "All staff"`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("description", "", "Group description")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.CreateGroup(a.Context(cmd), args[0], description)
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("Group %q created.", args[0]))
	return nil
}

func DescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <name> <description>",
		Short: "Set a group's description",
		Long: `Set the description attribute of a group.

Example:
  dirctl group describe Staff "All permanent staff"`,
		Args:         cobra.ExactArgs(2),
		RunE:         runDescribe,
		SilenceUsage: true,
	}

	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.SetGroupDescription(a.Context(cmd), args[0], args[1])
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("Description of %q updated.", args[0]))
	return nil
}
