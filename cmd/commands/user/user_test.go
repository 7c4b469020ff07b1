package user

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zalando/go-keyring"

	"nathanbeddoewebdev/dirctl/internal/auditlog"
	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/database"
)

// fakeTool is a samba-tool stand-in that appends its arguments to
// $FAKE_LOG and answers list, show and get-kerberos-ticket.
const fakeTool = `#!/bin/sh
echo "$*" >> "$FAKE_LOG"
case "$1 $2" in
"user list") printf 'alice\nbob\n' ;;
"user show") printf 'dn: CN=%s,CN=Users,DC=example,DC=com\nsAMAccountName: %s\nmail: %s@example.com\n' "$3" "$3" "$3" ;;
"user get-kerberos-ticket") [ "$PASSWD" = "correct horse" ] || { echo "kinit: Preauthentication failed" >&2; exit 1; } ;;
"user create") echo "User '$3' added successfully" ;;
esac
`

type env struct {
	log    string
	dbPath string
}

func setup(t *testing.T) env {
	t.Helper()
	keyring.MockInit()

	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)
	t.Cleanup(database.ResetPath)
	t.Chdir(dir)

	tool := filepath.Join(dir, "samba-tool")
	if err := os.WriteFile(tool, []byte(fakeTool), 0o755); err != nil {
		t.Fatal(err)
	}
	e := env{log: filepath.Join(dir, "calls.log"), dbPath: filepath.Join(dir, "dirctl.db")}
	t.Setenv("SAMBA_TOOL_PATH", tool)
	t.Setenv("FAKE_LOG", e.log)
	t.Setenv("DIRCTL_DB_PATH", e.dbPath)
	t.Setenv("DIRCTL_ACTOR", "tester")
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return e
}

func (e env) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.log)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (e env) audit(t *testing.T) []auditlog.AuditEntry {
	t.Helper()
	repo, err := auditlog.OpenAt(e.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	entries, err := repo.Query(t.Context(), auditlog.Filter{Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	return entries
}

func execUser(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	setup(t)

	out, err := execUser(t, "", "list")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if diff := cmp.Diff("alice\nbob\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestShow_JSON(t *testing.T) {
	setup(t)

	out, err := execUser(t, "", "show", "alice", "-o", "json")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	for _, want := range []string{`"name": "alice"`, `"mail": "alice@example.com"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCreate_PasswordFromStdin(t *testing.T) {
	e := setup(t)

	out, err := execUser(t, "s3cret-Pass\n", "create", "carol", "--password-stdin", "--mail", "carol@example.com")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if !strings.Contains(out, `User "carol" created.`) {
		t.Errorf("output = %q", out)
	}

	want := []string{
		"user create carol s3cret-Pass",
		"user rename carol --mail-address carol@example.com",
	}
	if diff := cmp.Diff(want, e.calls(t)); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	entries := e.audit(t)
	if len(entries) != 1 || entries[0].Action != "create_user" || entries[0].Actor != "tester" {
		t.Fatalf("audit = %+v", entries)
	}
	if strings.Contains(entries[0].Detail, "s3cret-Pass") {
		t.Errorf("audit detail leaks the password: %s", entries[0].Detail)
	}
}

func TestCreate_EmptyStdinFails(t *testing.T) {
	e := setup(t)

	if _, err := execUser(t, "", "create", "carol", "--password-stdin"); err == nil {
		t.Fatal("expected error for empty password")
	}
	if calls := e.calls(t); len(calls) != 0 {
		t.Errorf("tool called: %v", calls)
	}
}

func TestUpdate_RequiresAFlag(t *testing.T) {
	setup(t)

	_, err := execUser(t, "", "update", "alice")
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Fatalf("err = %v", err)
	}
}

func TestDisable_NeedsYesWithoutTerminal(t *testing.T) {
	e := setup(t)

	if _, err := execUser(t, "", "disable", "alice"); err == nil {
		t.Fatal("expected confirmation error")
	}
	if calls := e.calls(t); len(calls) != 0 {
		t.Errorf("tool called: %v", calls)
	}

	if _, err := execUser(t, "", "disable", "alice", "--yes"); err != nil {
		t.Fatalf("disable --yes error: %v", err)
	}
	if diff := cmp.Diff([]string{"user disable alice"}, e.calls(t)); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDryRun_DoesNotExecuteMutations(t *testing.T) {
	e := setup(t)
	t.Setenv("SAMBA_DRY_RUN", "true")

	out, err := execUser(t, "", "enable", "alice")
	if err != nil {
		t.Fatalf("enable error: %v", err)
	}
	if !strings.Contains(out, "DRY_RUN: ") || !strings.Contains(out, `[dry run] User "alice" enabled.`) {
		t.Errorf("output = %q", out)
	}
	if calls := e.calls(t); len(calls) != 0 {
		t.Errorf("tool called in dry run: %v", calls)
	}
}

func TestVerify(t *testing.T) {
	setup(t)

	out, err := execUser(t, "correct horse\n", "verify", "alice", "--password-stdin")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("output = %q", out)
	}

	if _, err := execUser(t, "wrong\n", "verify", "alice", "--password-stdin"); err == nil {
		t.Fatal("expected error for a rejected password")
	}
}

func TestAddGroup_AuditedAgainstUser(t *testing.T) {
	e := setup(t)

	if _, err := execUser(t, "", "add-group", "alice", "Staff"); err != nil {
		t.Fatalf("add-group error: %v", err)
	}
	if diff := cmp.Diff([]string{"group addmembers Staff alice"}, e.calls(t)); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	entries := e.audit(t)
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d", len(entries))
	}
	got := entries[0]
	if got.Action != "add_user_to_group" || got.ObjectType != "user" || got.ObjectID != "alice" {
		t.Errorf("audit = %+v", got)
	}
}
