package meta

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/database"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/fingerprint"
	"nathanbeddoewebdev/dirctl/internal/metastore"
)

func seed(t *testing.T, snaps ...domain.EntitySnapshot) {
	t.Helper()
	dir := t.TempDir()
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)
	t.Cleanup(database.ResetPath)
	t.Chdir(dir)
	dbPath := filepath.Join(dir, "dirctl.db")
	t.Setenv("DIRCTL_DB_PATH", dbPath)

	store, err := metastore.OpenAt(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	tx, err := store.Begin(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range snaps {
		digest, canonical := fingerprint.Of(s)
		if err := tx.Upsert(t.Context(), &metastore.Entry{
			EntityType:   s.Type,
			EntityName:   s.Name,
			Fingerprint:  digest,
			SnapshotJSON: canonical,
			LastSync:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func snapshot(et domain.EntityType, name string, pairs ...string) domain.EntitySnapshot {
	rec := domain.NewAttributeRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Add(pairs[i], pairs[i+1])
	}
	return domain.EntitySnapshot{Type: et, Name: name, Attributes: rec}
}

func execMeta(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	seed(t,
		snapshot(domain.EntityUser, "alice", "mail", "alice@example.com"),
		snapshot(domain.EntityUser, "bob", "mail", "bob@example.com"),
		snapshot(domain.EntityGroup, "Staff", "member", "CN=alice"),
	)

	out, err := execMeta(t, "list", "users")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	for _, want := range []string{"NAME", "FINGERPRINT", "alice", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Staff") {
		t.Errorf("users listing includes a group:\n%s", out)
	}
}

func TestList_Empty(t *testing.T) {
	seed(t)

	out, err := execMeta(t, "list", "groups")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(out, "No groups recorded") {
		t.Errorf("output = %q", out)
	}
}

func TestShow(t *testing.T) {
	seed(t, snapshot(domain.EntityGroup, "Staff", "member", "CN=alice", "member", "CN=bob", "description", "All staff"))

	out, err := execMeta(t, "show", "group", "Staff")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	for _, want := range []string{"Fingerprint:", "description", "All staff", "CN=alice", "CN=bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow_NotRecorded(t *testing.T) {
	seed(t)

	if _, err := execMeta(t, "show", "user", "nobody"); err == nil {
		t.Fatal("expected error for an unrecorded entity")
	}
}

func TestSnapshotAttributes(t *testing.T) {
	rec, err := snapshotAttributes(`{"attributes": {"mail": "a@example.com", "member": ["CN=a", "CN=b"]}, "groupname": "g"}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Values("member"); len(got) != 2 || got[1] != "CN=b" {
		t.Errorf("member = %v", got)
	}
	if got, _ := rec.Get("mail"); got != "a@example.com" {
		t.Errorf("mail = %q", got)
	}
}
