package scripts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/executor"
)

type fakeRunner struct {
	specs []executor.CommandSpec
	out   string
}

func (f *fakeRunner) Execute(_ context.Context, spec executor.CommandSpec) (executor.Result, error) {
	f.specs = append(f.specs, spec)
	return executor.Result{Outcome: executor.Success, Stdout: f.out}, nil
}

func writeScript(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho ok\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func newRunner(t *testing.T, r executor.Runner) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "scripts_ad")
	writeScript(t, filepath.Join(base, "users", "list_users.sh"))
	writeScript(t, filepath.Join(dir, "outside.sh"))

	runner, err := NewRunner(r, config.Settings{
		ScriptsDir:    base,
		ScriptTimeout: 30 * time.Second,
		LDAPURI:       "ldap://dc1.example.com",
		BindDN:        "CN=svc,DC=example,DC=com",
		BindPassword:  "b1nd",
		BaseDN:        "DC=example,DC=com",
		UsersOU:       "OU=Users,DC=example,DC=com",
		Domain:        "example.com",
	})
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}
	return runner, dir
}

func TestResolve(t *testing.T) {
	r, dir := newRunner(t, &fakeRunner{})
	if err := os.MkdirAll(filepath.Join(r.BaseDir(), "groups", "dir.sh"), 0o755); err != nil {
		t.Fatal(err)
	}
	symlinks := os.Symlink(filepath.Join(dir, "outside.sh"), filepath.Join(r.BaseDir(), "users", "escape.sh")) == nil

	got, err := r.Resolve(ListUsers)
	if err != nil {
		t.Fatalf("Resolve(%q) error: %v", ListUsers, err)
	}
	if filepath.Base(got) != "list_users.sh" || !filepath.IsAbs(got) {
		t.Errorf("Resolve = %q, want absolute path to list_users.sh", got)
	}

	bad := []string{
		"",
		"../outside.sh",
		"users/../../outside.sh",
		filepath.Join(dir, "outside.sh"),
		"users/missing.sh",
		"groups/dir.sh",
		".",
	}
	if symlinks {
		bad = append(bad, "users/escape.sh")
	}
	for _, id := range bad {
		if _, err := r.Resolve(id); !errors.Is(err, domain.ErrInvalidScriptPath) {
			t.Errorf("Resolve(%q) err = %v, want ErrInvalidScriptPath", id, err)
		}
	}
}

func TestRun_PassesEnvironmentAndArgs(t *testing.T) {
	fake := &fakeRunner{out: "DATA_BEGIN\nDATA_END"}
	r, _ := newRunner(t, fake)

	out, err := r.Run(context.Background(), ListUsers, "--all")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out != "DATA_BEGIN\nDATA_END" {
		t.Errorf("out = %q", out)
	}

	spec := fake.specs[0]
	if filepath.Base(spec.Args[0]) != "list_users.sh" || spec.Args[1] != "--all" {
		t.Errorf("args = %v", spec.Args)
	}
	if spec.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", spec.Timeout)
	}
	wantEnv := map[string]string{
		"LDAP_URI": "ldap://dc1.example.com",
		"BIND_DN":  "CN=svc,DC=example,DC=com",
		"BIND_PW":  "b1nd",
		"BASE_DN":  "DC=example,DC=com",
		"USERS_OU": "OU=Users,DC=example,DC=com",
		"DOMAIN":   "example.com",
	}
	if diff := cmp.Diff(wantEnv, spec.Env); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b1nd"}, spec.Secrets); diff != "" {
		t.Errorf("secrets mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_InvalidPathNeverExecutes(t *testing.T) {
	fake := &fakeRunner{}
	r, _ := newRunner(t, fake)

	if _, err := r.Run(context.Background(), "../outside.sh"); !errors.Is(err, domain.ErrInvalidScriptPath) {
		t.Fatalf("err = %v, want ErrInvalidScriptPath", err)
	}
	if len(fake.specs) != 0 {
		t.Errorf("expected no executions, got %d", len(fake.specs))
	}
}

func TestScriptNames(t *testing.T) {
	if ListScript(domain.EntityGroup) != ListGroups || ListScript(domain.EntityUser) != ListUsers {
		t.Error("ListScript mismatch")
	}
	if ShowScript(domain.EntityGroup) != GetGroup || ShowScript(domain.EntityUser) != GetUser {
		t.Error("ShowScript mismatch")
	}
}
