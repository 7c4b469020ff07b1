package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/tui"
)

// EntityView is the json/yaml shape of a shown entity.
type EntityView struct {
	Type       domain.EntityType `json:"type" yaml:"type"`
	Name       string            `json:"name" yaml:"name"`
	Attributes map[string]any    `json:"attributes" yaml:"attributes"`
}

// PrintNames prints entity names one per line, or as a json/yaml list.
func PrintNames(w io.Writer, format string, names []string) error {
	if names == nil {
		names = []string{}
	}
	return Print(w, format, names, func(w io.Writer) error {
		for _, n := range names {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintEntity prints one entity's attributes.
func PrintEntity(w io.Writer, format string, et domain.EntityType, name string, rec *domain.AttributeRecord) error {
	view := EntityView{Type: et, Name: name, Attributes: rec.Map()}
	return Print(w, format, view, func(w io.Writer) error {
		_, err := io.WriteString(w, tui.RenderAttributes(name, rec))
		return err
	})
}

// Report prints the tool output of a mutation followed by msg. In dry-run
// mode the output is the command that would have run.
func (a *App) Report(cmd *cobra.Command, output, msg string) {
	out := cmd.OutOrStdout()
	if output = strings.TrimSpace(output); output != "" {
		fmt.Fprintln(out, output)
	}
	if a.Settings.DryRun {
		msg = "[dry run] " + msg
	}
	fmt.Fprintln(out, msg)
}

// AddPasswordFlags registers --password-stdin on cmd.
func AddPasswordFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("password-stdin", false, "Read the password from the first line of stdin")
}

// ReadPassword reads a password from stdin when --password-stdin is set,
// otherwise prompts on the terminal.
func ReadPassword(cmd *cobra.Command, title string) (string, error) {
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return "", errors.New("empty password on stdin")
		}
		return pw, nil
	}
	if !tui.IsInteractive() {
		return "", errors.New("no terminal for a password prompt; use --password-stdin")
	}
	return tui.PromptPassword(title)
}

// Confirm asks before a destructive operation unless --yes was given.
// Without a terminal, --yes is required.
func Confirm(cmd *cobra.Command, title, description string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}
	if !tui.IsInteractive() {
		return errors.New("refusing to continue without confirmation; pass --yes")
	}
	return tui.Confirm(title, description, "Yes, continue")
}
