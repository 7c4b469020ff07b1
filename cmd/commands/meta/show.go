package meta

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/tui"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <user|group> <name>",
		Short: "Show the recorded snapshot of one entity",
		Long: `Show the fingerprint and attribute snapshot recorded for one entity.

Example:
  dirctl meta show user alice`,
		Args:         cobra.ExactArgs(2),
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
	et, err := domain.ParseEntityType(args[0])
	if err != nil {
		return err
	}
	name := args[1]

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), et, name)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no metadata recorded for %s %q", et, name)
	}

	return app.Print(cmd.OutOrStdout(), output, entry, func(w io.Writer) error {
		fmt.Fprintf(w, "Fingerprint: %s\n", entry.Fingerprint)
		fmt.Fprintf(w, "Last sync:   %s\n\n", entry.LastSync.Local().Format(time.DateTime))

		rec, err := snapshotAttributes(entry.SnapshotJSON)
		if err != nil {
			fmt.Fprintln(w, entry.SnapshotJSON)
			return nil
		}
		fmt.Fprintln(w, tui.RenderAttributes(fmt.Sprintf("%s %s", et, name), rec))
		return nil
	})
}

// snapshotAttributes decodes the attributes of a stored snapshot.
func snapshotAttributes(raw string) (*domain.AttributeRecord, error) {
	var payload struct {
		Attributes map[string]json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	rec := domain.NewAttributeRecord()
	for _, key := range slices.Sorted(maps.Keys(payload.Attributes)) {
		v := payload.Attributes[key]
		var single string
		if err := json.Unmarshal(v, &single); err == nil {
			rec.Add(key, single)
			continue
		}
		var multi []string
		if err := json.Unmarshal(v, &multi); err != nil {
			return nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		for _, s := range multi {
			rec.Add(key, s)
		}
	}
	return rec, nil
}
