package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup(t *testing.T) {
	for in, want := range map[string]string{
		"realm":                "realm",
		" SYNC-SOURCE ":        "sync-source",
		"Disabled-Groups-OU":   "disabled-groups-ou",
		"region":               "",
		"":                     "",
		"disabled_groups_ou":   "",
		"timeout-seconds-long": "",
	} {
		got := ""
		if k := Lookup(in); k != nil {
			got = k.Name
		}
		if got != want {
			t.Errorf("Lookup(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeys_WellFormed(t *testing.T) {
	envs := map[string]string{}
	names := map[string]bool{}
	for _, k := range Keys {
		if names[k.Name] {
			t.Errorf("duplicate key %q", k.Name)
		}
		names[k.Name] = true
		if k.Get == nil || k.Set == nil || k.Description == "" || k.Env == "" {
			t.Errorf("key %q is incomplete", k.Name)
		}
		if prev, dup := envs[k.Env]; dup {
			t.Errorf("keys %q and %q share %s", prev, k.Name, k.Env)
		}
		envs[k.Env] = k.Name

		sample := "value-for-" + k.Name
		if k.Validate != nil {
			sample = map[string]string{"sync-source": "scripts"}[k.Name]
			if sample == "" {
				sample = "7"
			}
		}
		cfg := &Config{}
		k.Set(cfg, sample)
		if got := k.Get(cfg); got != sample {
			t.Errorf("%s: Get after Set = %q, want %q", k.Name, got, sample)
		}
	}
}

func TestKeys_Validate(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
	}{
		{"timeout-seconds", "30", true},
		{"timeout-seconds", " 5 ", true},
		{"timeout-seconds", "0", false},
		{"timeout-seconds", "soon", false},
		{"max-procs", "8", true},
		{"max-procs", "-1", false},
		{"sync-source", "scripts", true},
		{"sync-source", "TOOL", true},
		{"sync-source", "ldap", false},
	}
	for _, tt := range tests {
		k := Lookup(tt.key)
		if k == nil || k.Validate == nil {
			t.Fatalf("%s has no validator", tt.key)
		}
		if err := k.Validate(tt.value); (err == nil) != tt.ok {
			t.Errorf("%s=%q: err = %v, want ok=%v", tt.key, tt.value, err, tt.ok)
		}
	}
}

func TestSyncSourceSetLowercases(t *testing.T) {
	cfg := &Config{}
	Lookup("sync-source").Set(cfg, "Scripts")
	if cfg.SyncSource != "scripts" {
		t.Errorf("SyncSource = %q", cfg.SyncSource)
	}
}

func TestKeyNamesAndHelp(t *testing.T) {
	names := KeyNames()
	want := make([]string, 0, len(Keys))
	for _, k := range Keys {
		want = append(want, k.Name)
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("KeyNames() mismatch (-want +got):\n%s", diff)
	}

	help := KeysHelp()
	if !strings.HasPrefix(help, "Available keys:\n") {
		t.Errorf("help header missing:\n%s", help)
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Description+" ($"+k.Env+")") {
			t.Errorf("help missing %s", k.Name)
		}
	}
}
