package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/reconcile"
)

func TestRenderSyncSummary(t *testing.T) {
	out := ansi.Strip(RenderSyncSummary(&reconcile.Result{
		RunID:      "run-1",
		EntityType: domain.EntityGroup,
		Total:      10,
		Updated:    3,
		Duration:   1500 * time.Millisecond,
	}))
	for _, want := range []string{"Synced groups", "Total:", "10", "Updated:", "3", "Unchanged:", "7", "1.5s", "run-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSyncSummary_Skipped(t *testing.T) {
	res := &reconcile.Result{RunID: "run-2", EntityType: domain.EntityUser, Total: 5, Skipped: 2, Updated: 1}
	out := ansi.Strip(RenderSyncSummary(res))
	for _, want := range []string{"Skipped:", "Unchanged:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if i := strings.Index(line, "Unchanged:"); i >= 0 {
			if f := strings.Fields(line[i+len("Unchanged:"):]); len(f) == 0 || f[0] != "2" {
				t.Errorf("unchanged line = %q, want 2", line)
			}
		}
	}

	res.Skipped = 0
	if out := ansi.Strip(RenderSyncSummary(res)); strings.Contains(out, "Skipped") {
		t.Errorf("zero skipped should be hidden:\n%s", out)
	}
}

func TestRenderSyncFailure(t *testing.T) {
	out := ansi.Strip(RenderSyncFailure(domain.EntityUser, errors.New("samba-tool: command timed out")))
	if !strings.Contains(out, "Sync users") || !strings.Contains(out, "command timed out") {
		t.Errorf("unexpected failure render:\n%s", out)
	}
}

func TestRenderAttributes(t *testing.T) {
	rec := domain.NewAttributeRecord()
	rec.Set("cn", "Admins")
	rec.Add("member", "CN=alice")
	rec.Add("member", "CN=bob")

	lines := strings.Split(strings.TrimRight(ansi.Strip(RenderAttributes("Admins", rec)), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if lines[0] != "Admins" {
		t.Errorf("title line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "cn:") || !strings.HasSuffix(lines[1], "Admins") {
		t.Errorf("cn line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "member:") || !strings.HasSuffix(lines[2], "CN=alice") {
		t.Errorf("member line = %q", lines[2])
	}
	if strings.Contains(lines[3], "member:") || !strings.HasSuffix(lines[3], "CN=bob") {
		t.Errorf("continuation line = %q", lines[3])
	}
	if strings.Index(lines[2], "CN=alice") != strings.Index(lines[3], "CN=bob") {
		t.Errorf("values not aligned:\n%s\n%s", lines[2], lines[3])
	}
}

func TestRenderAttributes_Empty(t *testing.T) {
	out := ansi.Strip(RenderAttributes("ghost", domain.NewAttributeRecord()))
	if !strings.Contains(out, "(no attributes)") {
		t.Errorf("unexpected render:\n%s", out)
	}
}
