package samba

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Template is a parametrized external command: argument and environment
// values may reference ${name} placeholders filled at render time.
type Template struct {
	Args []string
	Env  map[string]string
}

// Render substitutes vars into a copy of the template. Every referenced
// placeholder must be present in vars.
func (t Template) Render(vars map[string]string) ([]string, map[string]string, error) {
	var missing []string
	mapping := func(name string) string {
		v, ok := vars[name]
		if !ok {
			missing = append(missing, name)
		}
		return v
	}

	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = os.Expand(a, mapping)
	}

	var env map[string]string
	if len(t.Env) > 0 {
		env = make(map[string]string, len(t.Env))
		for k, v := range t.Env {
			env[k] = os.Expand(v, mapping)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, nil, fmt.Errorf("samba: template references unset %s", strings.Join(slices.Compact(missing), ", "))
	}
	return args, env, nil
}

// Environment variables read by the dirctl-editor helper.
const (
	EditAttrEnv  = "DIRCTL_EDIT_ATTR"
	EditValueEnv = "DIRCTL_EDIT_VALUE"
)

// editAttribute drives "<kind> edit" with the editor helper, which rewrites
// one attribute of the LDIF the tool hands it.
var editAttribute = Template{
	Args: []string{"${kind}", "edit", "${name}", "--editor", "${editor}"},
	Env: map[string]string{
		EditAttrEnv:  "${attr}",
		EditValueEnv: "${value}",
	},
}
