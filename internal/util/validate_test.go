package util

import (
	"strings"
	"testing"
)

func TestValidateEntityName_Valid(t *testing.T) {
	valid := []string{
		"alice",
		"jose.silva",
		"Domain Admins",
		"svc-backup",
		"a",
		"joão",
		strings.Repeat("x", 64),
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateEntityName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateEntityName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "must not be empty"},
		{strings.Repeat("x", 65), "at most 64"},
		{" alice", "whitespace"},
		{"alice ", "whitespace"},
		{"ali:ce", "invalid character"},
		{"a/b", "invalid character"},
		{"a,b", "invalid character"},
		{`back\slash`, "invalid character"},
		{"trailing.", "must not end with a period"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntityName(tt.name)
			if err == nil {
				t.Errorf("expected %q to be invalid, got nil", tt.name)
				return
			}
			if got := err.Error(); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	for in, want := range map[string]string{
		"realm":              "realm",
		"  Sync-Source ":     "sync-source",
		"DISABLED_GROUPS_OU": "disabled-groups-ou",
		"Bind":               "bind",
		"":                   "",
	} {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
