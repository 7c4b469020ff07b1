package app

import (
	"errors"

	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/tui"
)

// Process exit codes, following sysexits(3) where one applies.
const (
	ExitError       = 1
	ExitUsage       = 64 // EX_USAGE: argument failed sanitization
	ExitUnavailable = 69 // EX_UNAVAILABLE: tool missing or hung
	ExitTempFail    = 75 // EX_TEMPFAIL: another sync holds the lock
	ExitAborted     = 130
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrSanitization):
		return ExitUsage
	case domain.IsInfrastructure(err):
		return ExitUnavailable
	case errors.Is(err, domain.ErrSyncInProgress):
		return ExitTempFail
	case errors.Is(err, tui.ErrAborted):
		return ExitAborted
	}
	return ExitError
}
