// Package parse decodes the textual output of directory tools into typed
// records. All functions are pure.
package parse

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// Sentinel lines delimiting the data block of bulk script output.
const (
	DataBegin = "DATA_BEGIN"
	DataEnd   = "DATA_END"
)

// OutputError reports output that lacks the expected structure. It wraps
// domain.ErrMalformedOutput and keeps the raw text for auditing.
type OutputError struct {
	Reason string
	Output string
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%v: %s", domain.ErrMalformedOutput, e.Reason)
}

func (e *OutputError) Unwrap() error {
	return domain.ErrMalformedOutput
}

// List returns the non-blank lines of text, trimmed.
func List(text string) []string {
	var out []string
	for _, line := range splitLines(text) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// KeyValue parses single-entity "key: value" output. A line whose first
// character is not whitespace and that contains a colon opens a new key;
// other non-blank lines continue the current value, joined by a newline.
// Blank lines are ignored. A repeated key replaces the earlier value.
func KeyValue(text string) *domain.AttributeRecord {
	rec := domain.NewAttributeRecord()
	current := ""
	for _, raw := range splitLines(text) {
		line := strings.TrimRight(raw, " \t\r")
		if line == "" {
			continue
		}
		if key, value, ok := splitKeyValue(line); ok {
			current = key
			rec.Set(key, value)
			continue
		}
		if current != "" {
			rec.Append(current, strings.TrimSpace(line))
		}
	}
	return rec
}

// splitKeyValue splits on the first colon. The line must not start with
// whitespace and the key must be non-empty.
func splitKeyValue(line string) (string, string, bool) {
	if line[0] == ' ' || line[0] == '\t' {
		return "", "", false
	}
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// DataBlock returns the text strictly between the first DATA_BEGIN line and
// the first DATA_END line.
func DataBlock(output string) (string, error) {
	lines := splitLines(output)
	start, end := -1, -1
	for i, line := range lines {
		switch strings.TrimRight(line, "\r") {
		case DataBegin:
			if start < 0 {
				start = i
			}
		case DataEnd:
			if end < 0 {
				end = i
			}
		}
	}
	switch {
	case start < 0 && end < 0:
		return "", &OutputError{Reason: "missing " + DataBegin + " and " + DataEnd, Output: output}
	case start < 0:
		return "", &OutputError{Reason: "missing " + DataBegin, Output: output}
	case end < 0:
		return "", &OutputError{Reason: "missing " + DataEnd, Output: output}
	case end <= start:
		return "", &OutputError{Reason: DataEnd + " before " + DataBegin, Output: output}
	}
	return strings.TrimSpace(strings.Join(lines[start+1:end], "\n")), nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
