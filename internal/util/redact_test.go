package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRedactArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		secrets []string
		want    []string
	}{
		{
			name: "flag with separate value",
			args: []string{"user", "setpassword", "alice", "--newpassword", "s3cret"},
			want: []string{"user", "setpassword", "alice", "--newpassword", "<redacted>"},
		},
		{
			name: "flag with attached value",
			args: []string{"--password=s3cret", "user", "list"},
			want: []string{"--password=<redacted>", "user", "list"},
		},
		{
			name:    "positional secret",
			args:    []string{"user", "create", "alice", "Hunter2!"},
			secrets: []string{"Hunter2!"},
			want:    []string{"user", "create", "alice", "<redacted>"},
		},
		{
			name: "dangling flag",
			args: []string{"--newpassword"},
			want: []string{"--newpassword"},
		},
		{
			name:    "empty secret ignored",
			args:    []string{"user", "list", ""},
			secrets: []string{""},
			want:    []string{"user", "list", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactArgs(tt.args, tt.secrets...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RedactArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
