package styles

import "github.com/charmbracelet/lipgloss"

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for attribute names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for attribute values in detail views.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for hints and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText highlights counts and identifiers.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)
)

// --- Outcome badges ---

// OutcomeStyle returns the style for an audit outcome or sync status.
func OutcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "success", "ok", "valid":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "dry_run", "skipped", "in_progress":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "error", "invalid":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// OutcomeIndicator returns a colored dot followed by the outcome text.
func OutcomeIndicator(outcome string) string {
	style := OutcomeStyle(outcome)
	return style.Render("●") + " " + style.Render(outcome)
}

// --- Layout components ---

var (
	// Border is the default subtle border style.
	Border = lipgloss.RoundedBorder()

	// Card is a rounded-border panel for summaries.
	Card = lipgloss.NewStyle().
		Border(Border).
		BorderForeground(Dim).
		Padding(0, 2)

	// CardError is a card with a red border for failed runs.
	CardError = lipgloss.NewStyle().
			Border(Border).
			BorderForeground(Red).
			Padding(0, 2)
)
