// Package tui holds dirctl's interactive prompts and styled renderers. Forms
// are built with huh and fall back to accessible mode when ACCESSIBLE is set.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted by user")

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

func runForm(groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// Confirm asks a yes/no question. Declining returns ErrAborted.
func Confirm(title, description, affirmative string) error {
	ok := false
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative(affirmative).
		Negative("Cancel").
		Value(&ok)
	if err := runForm(huh.NewGroup(field)); err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// PromptPassword reads a secret without echo. Empty input is rejected
// inside the form.
func PromptPassword(title string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value cannot be empty")
			}
			return nil
		}).
		Value(&value)
	if err := runForm(huh.NewGroup(field)); err != nil {
		return "", err
	}
	return value, nil
}

// WithSpinner runs action while showing a spinner on out. The spinner's
// context is canceled when the user aborts.
func WithSpinner(ctx context.Context, out io.Writer, title string, action func(context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(accessible()).
		Output(out).
		Context(ctx).
		ActionWithErr(action).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
