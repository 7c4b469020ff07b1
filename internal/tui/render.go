package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/reconcile"
	"nathanbeddoewebdev/dirctl/internal/tui/styles"
)

// RenderSyncSummary renders a finished run as a bordered card.
func RenderSyncSummary(res *reconcile.Result) string {
	rows := [][2]string{
		{"Total", styles.AccentText.Render(fmt.Sprint(res.Total))},
		{"Updated", styles.AccentText.Render(fmt.Sprint(res.Updated))},
		{"Unchanged", fmt.Sprint(res.Total - res.Skipped - res.Updated)},
	}
	if res.Skipped > 0 {
		rows = append(rows, [2]string{"Skipped", styles.MutedText.Render(fmt.Sprint(res.Skipped))})
	}
	rows = append(rows,
		[2]string{"Duration", res.Duration.Round(time.Millisecond).String()},
		[2]string{"Run", styles.MutedText.Render(res.RunID)},
	)
	title := styles.Title.Render("Synced "+res.EntityType.Plural()) + "  " + styles.OutcomeIndicator("success")
	return styles.Card.Render(title + "\n\n" + labelRows(rows))
}

// RenderSyncFailure renders a failed or skipped run.
func RenderSyncFailure(et domain.EntityType, err error) string {
	title := styles.Title.Render("Sync "+et.Plural()) + "  " + styles.OutcomeIndicator("error")
	return styles.CardError.Render(title + "\n\n" + styles.ErrorText.Render(err.Error()))
}

// RenderAttributes renders an entity as aligned label/value rows. Multi-valued
// attributes list one value per line.
func RenderAttributes(title string, rec *domain.AttributeRecord) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	if rec.Len() == 0 {
		b.WriteString(styles.MutedText.Render("  (no attributes)"))
		b.WriteString("\n")
		return b.String()
	}

	width := 0
	for _, k := range rec.Keys() {
		width = max(width, lipgloss.Width(k))
	}
	label := styles.Label.Width(width + 1)
	pad := strings.Repeat(" ", width+4)
	for _, k := range rec.Keys() {
		for i, v := range rec.Values(k) {
			if i == 0 {
				b.WriteString("  " + label.Render(k+":") + " ")
			} else {
				b.WriteString(pad)
			}
			b.WriteString(styles.Value.Render(strings.ReplaceAll(v, "\n", "\n"+pad)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func labelRows(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	label := styles.Label.Width(width + 1)
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, label.Render(r[0]+":")+" "+r[1])
	}
	return strings.Join(lines, "\n")
}
