// Package executor runs external directory-management commands.
//
// Every invocation is bounded by a timeout, its arguments are checked for
// control characters before anything is spawned, and stdout/stderr are fully
// captured. Failures of the external tool are reported as a Result outcome,
// not as a Go error; Execute only returns an error for caller defects
// (empty command, invalid arguments) or cancellation.
package executor

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// Conventional exit codes reported for outcomes that have no real exit status.
const (
	ExitCodeTimeout  = 124
	ExitCodeNotFound = 127
)

// Outcome classifies how an invocation ended.
type Outcome int

const (
	Success Outcome = iota
	NonZeroExit
	Timeout
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case NonZeroExit:
		return "nonzero_exit"
	case Timeout:
		return "timeout"
	case NotFound:
		return "not_found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// CommandSpec describes one external invocation.
type CommandSpec struct {
	// Args is the full argument vector; Args[0] is the executable.
	Args []string

	// Timeout bounds the process lifetime. Zero uses the executor default.
	Timeout time.Duration

	// Env is overlaid on the inherited environment. Use it for secrets so
	// they never appear in process listings.
	Env map[string]string

	// DryRun reports the would-be command instead of running it.
	DryRun bool

	// Secrets are argument values that must be masked in logs, dry-run
	// output and errors.
	Secrets []string
}

// Result is the captured outcome of an invocation. Executors never modify a
// Result after returning it.
type Result struct {
	Outcome  Outcome
	ExitCode int

	// Stdout and Stderr are trimmed of surrounding whitespace. On timeout
	// they hold whatever was produced before the process was killed.
	Stdout string
	Stderr string

	// Args is the redacted argument vector.
	Args     []string
	Duration time.Duration
	DryRun   bool
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Outcome == Success
}

// Err converts a non-successful result into an *ExecError.
func (r Result) Err() error {
	var kind error
	switch r.Outcome {
	case Success:
		return nil
	case NonZeroExit:
		kind = domain.ErrRejected
	case Timeout:
		kind = domain.ErrTimeout
	case NotFound:
		kind = domain.ErrToolNotFound
	default:
		kind = fmt.Errorf("unknown outcome %s", r.Outcome)
	}
	return &ExecError{
		Kind:     kind,
		Args:     slices.Clone(r.Args),
		ExitCode: r.ExitCode,
		Stdout:   r.Stdout,
		Stderr:   r.Stderr,
	}
}

// ExecError describes a failed invocation together with its captured output.
type ExecError struct {
	Kind     error
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExecError) Error() string {
	var b strings.Builder
	b.WriteString(commandName(e.Args))
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if reason := firstLine(e.Stderr); reason != "" {
		b.WriteString(": ")
		b.WriteString(reason)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Kind
}

func commandName(args []string) string {
	switch len(args) {
	case 0:
		return "<empty>"
	case 1:
		return args[0]
	case 2:
		return args[0] + " " + args[1]
	default:
		return args[0] + " " + args[1] + " " + args[2]
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
