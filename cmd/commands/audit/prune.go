package audit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/dirctl/internal/app"
	"nathanbeddoewebdev/dirctl/internal/auditlog"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries past a retention period",
		Long: `Delete audit entries recorded longer ago than --older-than.

Retention accepts days (30d), weeks (4w) or any Go duration (72h).
Asks for confirmation unless --yes is given.

Examples:
  dirctl audit prune --older-than 90d
  dirctl audit prune --older-than 4w --yes`,
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Retention period (e.g. 90d, 4w, 72h)")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("older-than")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	retention, err := parseRetention(raw)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-retention)

	if _, _, err := app.Settings(cmd, nil); err != nil {
		return err
	}
	prompt := fmt.Sprintf("Delete audit entries recorded before %s?", cutoff.Format(time.DateTime))
	if err := app.Confirm(cmd, prompt, "Pruned entries cannot be recovered."); err != nil {
		return err
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.PruneBefore(cmd.Context(), cutoff)
	if err != nil {
		return err
	}

	noun := "entries"
	if removed == 1 {
		noun = "entry"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit %s recorded before %s.\n", removed, noun, cutoff.Format(time.DateTime))
	return nil
}

// parseRetention accepts "<n>d", "<n>w" or a Go duration. The result must
// be positive.
func parseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("--older-than is required")
	}

	var d time.Duration
	unit := map[byte]time.Duration{'d': 24 * time.Hour, 'w': 7 * 24 * time.Hour}[s[len(s)-1]]
	if unit > 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return 0, fmt.Errorf("invalid retention %q", s)
		}
		d = time.Duration(n) * unit
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, fmt.Errorf("invalid retention %q", s)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %q", s)
	}
	return d, nil
}
