package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// clearEnv unsets every variable Resolve reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvToolPath, EnvRealm, EnvWorkgroup, EnvAuthUser, EnvAuthDomain, EnvAuthPassword,
		EnvTimeoutSeconds, EnvDryRun, EnvScriptsDir, EnvScriptTimeout, EnvLDAPURI, EnvBindDN,
		EnvBindPassword, EnvBaseDN, EnvUsersOU, EnvDomain, EnvSyncSource, EnvMaxProcs, EnvDBPath,
		EnvLogLevel, EnvDisabledGroupsOU, EnvEditorPath,
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := Settings{
		ToolPath:      "samba-tool",
		Timeout:       20 * time.Second,
		ScriptsDir:    "scripts_ad",
		ScriptTimeout: 60 * time.Second,
		SyncSource:    SourceTool,
		MaxProcs:      4,
		LogLevel:      "info",
		EditorPath:    "dirctl-editor",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_FileThenEnv(t *testing.T) {
	clearEnv(t)

	cfg := &Config{
		ToolPath:       "/opt/samba/bin/samba-tool",
		Realm:          "FILE.EXAMPLE",
		Workgroup:      "FILE",
		TimeoutSeconds: "45",
		SyncSource:     "scripts",
	}
	t.Setenv(EnvRealm, "ENV.EXAMPLE")
	t.Setenv(EnvDryRun, "true")
	t.Setenv(EnvBindPassword, "s3cret")
	t.Setenv(EnvMaxProcs, "2")

	got, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ToolPath != "/opt/samba/bin/samba-tool" {
		t.Errorf("ToolPath = %q, want file value", got.ToolPath)
	}
	if got.Realm != "ENV.EXAMPLE" {
		t.Errorf("Realm = %q, want env value", got.Realm)
	}
	if got.Workgroup != "FILE" {
		t.Errorf("Workgroup = %q, want file value", got.Workgroup)
	}
	if got.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", got.Timeout)
	}
	if !got.DryRun {
		t.Error("DryRun = false, want true")
	}
	if got.BindPassword != "s3cret" {
		t.Errorf("BindPassword = %q, want env value", got.BindPassword)
	}
	if got.MaxProcs != 2 {
		t.Errorf("MaxProcs = %d, want 2", got.MaxProcs)
	}
	if got.SyncSource != SourceScripts {
		t.Errorf("SyncSource = %q, want scripts", got.SyncSource)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := map[string]struct {
		env   string
		value string
	}{
		"timeout":     {EnvTimeoutSeconds, "0"},
		"timeout nan": {EnvTimeoutSeconds, "soon"},
		"procs":       {EnvMaxProcs, "-3"},
		"source":      {EnvSyncSource, "ldap"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)
			if _, err := Resolve(nil); err == nil {
				t.Fatalf("expected error for %s=%q", tt.env, tt.value)
			}
		})
	}
}

func TestAuthPrincipal(t *testing.T) {
	tests := []struct {
		s    Settings
		want string
	}{
		{Settings{}, ""},
		{Settings{AuthUser: "admin"}, "admin"},
		{Settings{AuthUser: "admin", AuthDomain: "EXAMPLE"}, `EXAMPLE\admin`},
		{Settings{AuthDomain: "EXAMPLE"}, ""},
	}
	for _, tt := range tests {
		if got := tt.s.AuthPrincipal(); got != tt.want {
			t.Errorf("AuthPrincipal(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestLoadEnvFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SAMBA_REALM=FROM.ENV\nSAMBA_WORKGROUP=ENVWG\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.local"), []byte("SAMBA_REALM=FROM.LOCAL\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	LoadEnvFiles()
	t.Cleanup(func() {
		os.Unsetenv(EnvRealm)
		os.Unsetenv(EnvWorkgroup)
	})

	if got := os.Getenv(EnvRealm); got != "FROM.LOCAL" {
		t.Errorf("%s = %q, want .env.local value", EnvRealm, got)
	}
	if got := os.Getenv(EnvWorkgroup); got != "ENVWG" {
		t.Errorf("%s = %q, want .env value", EnvWorkgroup, got)
	}
}
