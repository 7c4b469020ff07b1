package group

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/app"

	"github.com/spf13/cobra"
)

func DisableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disable <name>",
		Short: "Disable a group by moving it to the disabled OU",
		Long: `Disable a group by moving it into an organizational unit reserved for
disabled groups. The target comes from --target-ou, or the
disabled-groups-ou setting when the flag is omitted.

Examples:
  dirctl group disable Contractors
  dirctl group disable Contractors --target-ou "OU=Disabled,DC=example,DC=com" --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDisable,
		SilenceUsage: true,
	}

	cmd.Flags().String("target-ou", "", "Distinguished name of the OU to move the group into")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runDisable(cmd *cobra.Command, args []string) error {
	name := args[0]
	targetOU, _ := cmd.Flags().GetString("target-ou")

	if err := app.Confirm(cmd, fmt.Sprintf("Disable group %q?", name), "The group will be moved out of its current OU."); err != nil {
		return err
	}

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Directory.DisableGroup(a.Context(cmd), name, targetOU)
	if err != nil {
		return err
	}
	a.Report(cmd, out, fmt.Sprintf("Group %q disabled.", name))
	return nil
}
