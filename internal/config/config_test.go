package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		want    *Config
		wantErr bool
	}{
		{"missing file", filepath.Join(dir, "absent", "config.json"), &Config{}, false},
		{"values", write("ok.json", `{"realm":"EXAMPLE.COM","max_procs":"8"}`), &Config{Realm: "EXAMPLE.COM", MaxProcs: "8"}, false},
		{"unknown fields ignored", write("extra.json", `{"realm":"X","region":"fsn1"}`), &Config{Realm: "X"}, false},
		{"invalid json", write("bad.json", "{realm"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFrom(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadFrom() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dirctl", "config.json")

	for _, want := range []*Config{
		{Realm: "ONE.EXAMPLE", SyncSource: "scripts"},
		{Realm: "TWO.EXAMPLE", DisabledGroupsOU: "OU=Disabled,DC=example,DC=com"},
	} {
		if err := want.SaveTo(path); err != nil {
			t.Fatalf("SaveTo() error: %v", err)
		}
		got, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom() error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("leftover temp files: %v", entries)
	}
}

func TestPath(t *testing.T) {
	t.Cleanup(ResetPath)

	override := filepath.Join(t.TempDir(), "config.json")
	SetPath(override)
	if got, err := Path(); err != nil || got != override {
		t.Errorf("Path() = %q, %v; want %q", got, err, override)
	}

	ResetPath()
	got, err := Path()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if filepath.Base(got) != "config.json" || filepath.Base(filepath.Dir(got)) != "dirctl" {
		t.Errorf("Path() = %q, want .../dirctl/config.json", got)
	}
}

func TestSaveAndLoadViaPath(t *testing.T) {
	t.Cleanup(ResetPath)
	SetPath(filepath.Join(t.TempDir(), "config.json"))

	if err := (&Config{Workgroup: "EXAMPLE"}).Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Workgroup != "EXAMPLE" {
		t.Errorf("Workgroup = %q", cfg.Workgroup)
	}
}
