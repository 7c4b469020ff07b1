package audit

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/auditlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded operations, newest first",
		Long: `Show recorded operations, newest first. Filters combine.

--since takes a retention-style window (24h, 7d, 2w) or a date
(2006-01-02 or RFC 3339).

Examples:
  dirctl audit list
  dirctl audit list --type user --object alice
  dirctl audit list --outcome error --since 7d
  dirctl audit list --actor ops --limit 100 -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.Int("limit", auditlog.DefaultLimit, "Maximum number of entries")
	f.String("type", "", "Object type (user, group, sync)")
	f.String("object", "", "Object name")
	f.String("actor", "", "Who performed the operation")
	f.String("action", "", "Action name (e.g. create_user)")
	f.String("outcome", "", "success or error")
	f.String("since", "", "Only entries recorded after this point")
	app.AddOutputFlag(cmd)

	return cmd
}

func filterFromFlags(cmd *cobra.Command) (auditlog.Filter, error) {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return strings.TrimSpace(v)
	}

	f := auditlog.Filter{
		ObjectType: str("type"),
		ObjectID:   str("object"),
		Actor:      str("actor"),
		Action:     str("action"),
		Outcome:    str("outcome"),
	}
	f.Limit, _ = cmd.Flags().GetInt("limit")
	if f.Limit <= 0 {
		return f, fmt.Errorf("--limit must be positive, got %d", f.Limit)
	}
	switch f.Outcome {
	case "", auditlog.OutcomeSuccess, auditlog.OutcomeError:
	default:
		return f, fmt.Errorf("--outcome must be %s or %s", auditlog.OutcomeSuccess, auditlog.OutcomeError)
	}
	if since := str("since"); since != "" {
		t, err := parseSince(since, time.Now())
		if err != nil {
			return f, err
		}
		f.Since = t
	}
	return f, nil
}

func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := parseRetention(s); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --since %q: want a window like 7d or a date like 2006-01-02", s)
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	output, err := app.OutputFormat(cmd)
	if err != nil {
		return err
	}

	if _, _, err := app.Settings(cmd, nil); err != nil {
		return err
	}
	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.Query(cmd.Context(), filter)
	if err != nil {
		return err
	}
	return app.Print(cmd.OutOrStdout(), output, entries, func(w io.Writer) error {
		return printTable(w, entries)
	})
}

func printTable(out io.Writer, entries []auditlog.AuditEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTOR\tACTION\tOBJECT\tOUTCOME\tTOOK\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime),
			orDash(e.Actor),
			e.Action,
			objectLabel(e),
			e.Outcome,
			took(e.DurationMs),
			clip(orDash(e.Detail), 80),
		)
	}
	return w.Flush()
}

func took(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return d.String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

func objectLabel(e auditlog.AuditEntry) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{e.ObjectType, e.ObjectID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ":")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
