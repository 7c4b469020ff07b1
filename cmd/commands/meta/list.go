package meta

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/metastore"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <users|groups>",
		Short: "List recorded entities",
		Long: `List every recorded entity of one type with its fingerprint and the time
it last changed.

Examples:
  dirctl meta list users
  dirctl meta list groups -o json`,
		Args:         cobra.ExactArgs(1),
		ValidArgs:    []string{"users", "groups"},
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
	et, err := domain.ParseEntityType(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), et)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []metastore.Entry{}
	}

	return app.Print(cmd.OutOrStdout(), output, entries, func(w io.Writer) error {
		if len(entries) == 0 {
			fmt.Fprintf(w, "No %s recorded. Run 'dirctl sync run %s' first.\n", et.Plural(), et.Plural())
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "NAME\tFINGERPRINT\tLAST SYNC")
		fmt.Fprintln(tw, "----\t-----------\t---------")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.EntityName, shortFingerprint(e.Fingerprint), e.LastSync.Local().Format(time.DateTime))
		}
		return tw.Flush()
	})
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
