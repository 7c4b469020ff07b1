package domain

import "errors"

// Sentinel errors for classifying directory-tool failures.
// Executors and parsers wrap these so the CLI can handle error categories
// uniformly without inspecting process details.
//
//	return fmt.Errorf("failed to show user: %w", domain.ErrTimeout)
var (
	// ErrSanitization indicates a caller-supplied argument contained
	// control characters. No process is spawned when this is returned.
	ErrSanitization = errors.New("argument contains invalid characters")

	// ErrToolNotFound indicates the external executable could not be
	// resolved or started. This is an infrastructure problem.
	ErrToolNotFound = errors.New("executable not found")

	// ErrTimeout indicates the external process did not exit within its
	// configured timeout and was terminated.
	ErrTimeout = errors.New("command timed out")

	// ErrRejected indicates the external process exited non-zero, i.e. the
	// directory refused the operation (bad credentials, unknown user, ...).
	ErrRejected = errors.New("command rejected")

	// ErrMalformedOutput indicates the process output did not have the
	// expected structure.
	ErrMalformedOutput = errors.New("malformed command output")

	// ErrInvalidScriptPath indicates a script identifier resolved outside
	// the configured scripts directory or to something that is not a file.
	ErrInvalidScriptPath = errors.New("invalid script path")

	// ErrSyncInProgress indicates another reconciliation run for the same
	// entity type holds the lock.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNotFound indicates a requested local record does not exist.
	ErrNotFound = errors.New("resource not found")
)

// IsInfrastructure reports whether err is caused by the environment rather
// than by the directory rejecting the request (missing tool, hung tool).
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrToolNotFound) || errors.Is(err, ErrTimeout)
}

// IsRejected reports whether err is a business-level rejection from the
// external tool.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
