package auditlog

import (
	"encoding/json"
	"errors"
	"maps"

	"github.com/charmbracelet/x/ansi"

	"nathanbeddoewebdev/dirctl/internal/executor"
	"nathanbeddoewebdev/dirctl/internal/parse"
)

// maxOutputChars bounds captured stdout/stderr stored per row.
const maxOutputChars = 8192

// Details encodes fields as the JSON detail column.
func Details(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return `{"error":"unencodable details"}`
	}
	return string(b)
}

// ErrorDetails describes err for the audit log. Execution failures include
// the redacted argv, exit code and captured output; parse failures include
// the raw output. Extra fields are merged in.
func ErrorDetails(err error, extra map[string]any) string {
	fields := map[string]any{}
	maps.Copy(fields, extra)
	if err != nil {
		fields["error"] = err.Error()
	}

	var execErr *executor.ExecError
	if errors.As(err, &execErr) {
		fields["args"] = execErr.Args
		fields["exit_code"] = execErr.ExitCode
		fields["stdout"] = cleanOutput(execErr.Stdout)
		fields["stderr"] = cleanOutput(execErr.Stderr)
	}

	var outErr *parse.OutputError
	if errors.As(err, &outErr) {
		fields["stdout"] = cleanOutput(outErr.Output)
	}

	return Details(fields)
}

// cleanOutput strips terminal escape sequences and truncates.
func cleanOutput(s string) string {
	s = ansi.Strip(s)
	if len(s) > maxOutputChars {
		s = ansi.Truncate(s, maxOutputChars, "…")
	}
	return s
}
