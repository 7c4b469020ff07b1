// Package scripts runs the directory shell scripts shipped alongside dirctl.
// Scripts are addressed by a relative identifier such as
// "users/list_users.sh" resolved under a configured base directory.
package scripts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/executor"
)

// Well-known script identifiers.
const (
	ListUsers  = "users/list_users.sh"
	ListGroups = "groups/list_groups.sh"
	GetUser    = "users/get_user.sh"
	GetGroup   = "groups/get_group.sh"
)

// ListScript returns the bulk listing script for et.
func ListScript(et domain.EntityType) string {
	if et == domain.EntityGroup {
		return ListGroups
	}
	return ListUsers
}

// ShowScript returns the single-entity script for et.
func ShowScript(et domain.EntityType) string {
	if et == domain.EntityGroup {
		return GetGroup
	}
	return GetUser
}

// Runner resolves and executes scripts.
type Runner struct {
	runner  executor.Runner
	baseDir string
	timeout time.Duration
	env     map[string]string
}

// NewRunner returns a Runner for the scripts under s.ScriptsDir. A relative
// directory is resolved against the working directory.
func NewRunner(r executor.Runner, s config.Settings) (*Runner, error) {
	base, err := filepath.Abs(s.ScriptsDir)
	if err != nil {
		return nil, fmt.Errorf("scripts: resolving base directory: %w", err)
	}
	return &Runner{
		runner:  r,
		baseDir: base,
		timeout: s.ScriptTimeout,
		env: map[string]string{
			"LDAP_URI": s.LDAPURI,
			"BIND_DN":  s.BindDN,
			"BIND_PW":  s.BindPassword,
			"BASE_DN":  s.BaseDN,
			"USERS_OU": s.UsersOU,
			"DOMAIN":   s.Domain,
		},
	}, nil
}

// BaseDir returns the absolute scripts directory.
func (r *Runner) BaseDir() string { return r.baseDir }

// Resolve maps id to an absolute path inside the base directory. Paths that
// escape the base (directly or through symlinks) or that are not regular
// files are rejected with domain.ErrInvalidScriptPath.
func (r *Runner) Resolve(id string) (string, error) {
	if id == "" || filepath.IsAbs(id) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidScriptPath, id)
	}
	base, err := filepath.EvalSymlinks(r.baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: base directory %s: %v", domain.ErrInvalidScriptPath, r.baseDir, err)
	}

	candidate := filepath.Join(base, filepath.FromSlash(id))
	if !within(base, candidate) {
		return "", fmt.Errorf("%w: %q escapes %s", domain.ErrInvalidScriptPath, id, base)
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: script not found: %s", domain.ErrInvalidScriptPath, candidate)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidScriptPath, err)
	}
	if !within(base, resolved) {
		return "", fmt.Errorf("%w: %q escapes %s", domain.ErrInvalidScriptPath, id, base)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidScriptPath, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: not a regular file: %s", domain.ErrInvalidScriptPath, resolved)
	}
	return resolved, nil
}

// Run executes script id with args and returns its stdout. Failures of the
// script itself are returned as *executor.ExecError.
func (r *Runner) Run(ctx context.Context, id string, args ...string) (string, error) {
	path, err := r.Resolve(id)
	if err != nil {
		return "", err
	}
	spec := executor.CommandSpec{
		Args:    append([]string{path}, args...),
		Timeout: r.timeout,
		Env:     r.env,
		Secrets: []string{r.env["BIND_PW"]},
	}
	return executor.Output(ctx, r.runner, spec)
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
