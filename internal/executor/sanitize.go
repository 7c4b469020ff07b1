package executor

import (
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// isControl reports bytes in 0x00-0x08, 0x0B-0x0C and 0x0E-0x1F.
// Tab, line feed and carriage return are allowed.
func isControl(b byte) bool {
	return b <= 0x08 || b == 0x0B || b == 0x0C || (b >= 0x0E && b <= 0x1F)
}

// Sanitize rejects arguments containing control characters.
func Sanitize(args []string) error {
	for i, arg := range args {
		for j := 0; j < len(arg); j++ {
			if isControl(arg[j]) {
				return fmt.Errorf("executor: argument %d has byte 0x%02x: %w", i, arg[j], domain.ErrSanitization)
			}
		}
	}
	return nil
}
