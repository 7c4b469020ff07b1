package samba

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTemplateRender(t *testing.T) {
	tmpl := Template{
		Args: []string{"group", "edit", "${name}", "--editor", "$editor"},
		Env:  map[string]string{"X": "${value}-suffix"},
	}
	args, env, err := tmpl.Render(map[string]string{"name": "staff", "editor": "/bin/ed", "value": "v"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if diff := cmp.Diff([]string{"group", "edit", "staff", "--editor", "/bin/ed"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"X": "v-suffix"}, env); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
	if tmpl.Args[2] != "${name}" {
		t.Error("Render must not modify the template")
	}
}

func TestTemplateRender_ValuesAreNotReexpanded(t *testing.T) {
	tmpl := Template{Args: []string{"${v}"}}
	args, _, err := tmpl.Render(map[string]string{"v": "${HOME}"})
	if err != nil {
		t.Fatal(err)
	}
	if args[0] != "${HOME}" {
		t.Errorf("got %q, want literal placeholder text", args[0])
	}
}

func TestTemplateRender_Missing(t *testing.T) {
	tmpl := Template{Args: []string{"${a}", "${b}"}, Env: map[string]string{"E": "${a}"}}
	_, _, err := tmpl.Render(map[string]string{})
	if err == nil {
		t.Fatal("expected error for missing placeholders")
	}
	if got := err.Error(); got != "samba: template references unset a, b" {
		t.Errorf("error = %q", got)
	}
}
