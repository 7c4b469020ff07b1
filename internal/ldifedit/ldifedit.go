// Package ldifedit rewrites a single attribute inside an LDIF document. It
// backs the dirctl-editor helper that the management tool launches as its
// --editor for "group edit" and "user edit".
package ldifedit

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrNoAttribute is returned when no attribute name is supplied.
var ErrNoAttribute = errors.New("ldifedit: attribute name is required")

// Set replaces every occurrence of attr in content with a single
// "attr: value" line at the position of the first occurrence, or appends it
// when absent. An empty value removes the attribute. Continuation lines of
// replaced values are dropped. Values that are not LDIF-safe are written
// base64 encoded ("attr:: ...").
func Set(content, attr, value string) (string, error) {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return "", ErrNoAttribute
	}
	if strings.ContainsAny(attr, ": \t\r\n") {
		return "", fmt.Errorf("ldifedit: invalid attribute name %q", attr)
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	replacement := encodeLine(attr, value)
	out := make([]string, 0, len(lines)+1)
	inserted := false
	skipping := false
	for _, line := range lines {
		if skipping && strings.HasPrefix(line, " ") {
			continue
		}
		skipping = false
		if matches(line, attr) {
			skipping = true
			if !inserted && value != "" {
				out = append(out, replacement)
			}
			inserted = true
			continue
		}
		out = append(out, line)
	}
	if !inserted && value != "" {
		out = append(out, replacement)
	}
	return strings.Join(out, "\n") + "\n", nil
}

// SetFile applies Set to the file at path in place.
func SetFile(path, attr, value string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ldifedit: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ldifedit: %w", err)
	}
	updated, err := Set(string(data), attr, value)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("ldifedit: %w", err)
	}
	return nil
}

// matches reports whether line starts attribute attr (case-insensitive).
func matches(line, attr string) bool {
	key, _, ok := strings.Cut(line, ":")
	return ok && strings.EqualFold(strings.TrimSpace(key), attr)
}

func encodeLine(attr, value string) string {
	if safe(value) {
		return attr + ": " + value
	}
	return attr + ":: " + base64.StdEncoding.EncodeToString([]byte(value))
}

// safe follows the RFC 2849 SAFE-STRING rules.
func safe(v string) bool {
	if v == "" {
		return true
	}
	switch v[0] {
	case ' ', ':', '<':
		return false
	}
	if strings.HasSuffix(v, " ") || !utf8.ValidString(v) {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == 0 || c == '\n' || c == '\r' || c > 0x7f {
			return false
		}
	}
	return true
}
