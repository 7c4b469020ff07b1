package util

import "strings"

// NormalizeKey lowercases and trims s and spells word separators as "-",
// so "Disabled_Groups_OU" and "disabled-groups-ou" name the same key.
func NormalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
