package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// invalidNameChars are rejected in account and group names by the directory.
const invalidNameChars = `"[]:;|=+*?<>/\,`

// ValidateEntityName checks that a user or group name is acceptable to the
// directory before any command is built:
//   - 1 to 64 characters
//   - no leading or trailing whitespace
//   - none of the characters " [ ] : ; | = + * ? < > / \ ,
//   - must not end with a period
func ValidateEntityName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return fmt.Errorf("name must not be empty")
	}
	if n > 64 {
		return fmt.Errorf("name must be at most 64 characters, got %d", n)
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("name %q must not start or end with whitespace", name)
	}
	if i := strings.IndexAny(name, invalidNameChars); i >= 0 {
		return fmt.Errorf("name %q contains invalid character %q", name, string(name[i]))
	}
	if strings.HasSuffix(name, ".") {
		return fmt.Errorf("name %q must not end with a period", name)
	}
	return nil
}
