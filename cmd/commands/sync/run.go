package sync

import (
	"context"
	"fmt"
	"io"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/reconcile"
	"nathanbeddoewebdev/dirctl/internal/tui"

	"github.com/spf13/cobra"
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [users|groups]",
		Short: "Run one reconciliation",
		Long: `Run one reconciliation for users, groups, or both when no type is given.

Exits 75 when another run for the same type is already in progress.

Examples:
  dirctl sync run
  dirctl sync run users -o json`,
		Args:         cobra.MaximumNArgs(1),
		ValidArgs:    []string{"users", "groups"},
		RunE:         runSync,
		SilenceUsage: true,
	}

	app.AddOutputFlag(cmd)

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	output, err := app.OutputFormat(cmd)
	if err != nil {
		return err
	}
	types, err := entityTypes(args)
	if err != nil {
		return err
	}

	a, err := app.Load(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := a.Context(cmd)
	interactive := output == app.FormatTable && tui.IsInteractive()

	var results []*reconcile.Result
	for _, et := range types {
		var res *reconcile.Result
		run := func(ctx context.Context) error {
			var err error
			res, err = a.Reconciler.Run(ctx, et)
			return err
		}

		if interactive {
			err = tui.WithSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Syncing %s...", et.Plural()), run)
		} else {
			err = run(ctx)
		}
		if err != nil {
			if output == app.FormatTable {
				fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderSyncFailure(et, err))
			}
			return err
		}
		results = append(results, res)
	}

	return app.Print(cmd.OutOrStdout(), output, results, func(w io.Writer) error {
		for _, res := range results {
			fmt.Fprintln(w, tui.RenderSyncSummary(res))
		}
		return nil
	})
}
