// Package samba wraps the directory management tool (samba-tool). Each
// method builds one argument vector on top of the configured base
// arguments, runs it through an executor.Runner and decodes the output.
package samba

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/executor"
	"nathanbeddoewebdev/dirctl/internal/parse"
	"nathanbeddoewebdev/dirctl/internal/retry"
)

// passwdEnv is read by the tool as the password for -U and by
// get-kerberos-ticket as the password to verify.
const passwdEnv = "PASSWD"

// UserAttrs are the basic user attributes settable through "user rename".
// Empty fields are left untouched.
type UserAttrs struct {
	GivenName   string `json:"given_name,omitempty"`
	Surname     string `json:"surname,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Mail        string `json:"mail,omitempty"`
	UPN         string `json:"upn,omitempty"`
}

// Empty reports whether no attribute is set.
func (a UserAttrs) Empty() bool {
	return a == UserAttrs{}
}

func (a UserAttrs) args() []string {
	var args []string
	add := func(flag, v string) {
		if v != "" {
			args = append(args, flag, v)
		}
	}
	add("--given-name", a.GivenName)
	add("--surname", a.Surname)
	add("--display-name", a.DisplayName)
	add("--mail-address", a.Mail)
	add("--upn", a.UPN)
	return args
}

// Tool invokes the management tool with settings resolved at startup.
type Tool struct {
	runner   executor.Runner
	path     string
	realm    string
	group    string
	auth     string
	authPass string
	timeout  time.Duration
	dryRun   bool
	editor   string
}

// New returns a Tool that runs commands through r.
func New(r executor.Runner, s config.Settings) *Tool {
	return &Tool{
		runner:   r,
		path:     s.ToolPath,
		realm:    s.Realm,
		group:    s.Workgroup,
		auth:     s.AuthPrincipal(),
		authPass: s.AuthPassword,
		timeout:  s.Timeout,
		dryRun:   s.DryRun,
		editor:   s.EditorPath,
	}
}

// DryRun reports whether mutating calls only describe their command.
func (t *Tool) DryRun() bool { return t.dryRun }

// baseArgs returns [tool, --realm R, --workgroup W].
func (t *Tool) baseArgs() []string {
	args := []string{t.path}
	if t.realm != "" {
		args = append(args, "--realm", t.realm)
	}
	if t.group != "" {
		args = append(args, "--workgroup", t.group)
	}
	return args
}

type call struct {
	args    []string
	env     map[string]string
	secrets []string
	mutate  bool
	noAuth  bool
}

func (t *Tool) spec(c call) executor.CommandSpec {
	args := t.baseArgs()
	env := map[string]string{}
	if t.auth != "" && !c.noAuth {
		args = append(args, "-U", t.auth)
		if t.authPass != "" {
			env[passwdEnv] = t.authPass
		}
	}
	args = append(args, c.args...)
	for k, v := range c.env {
		env[k] = v
	}
	return executor.CommandSpec{
		Args:    args,
		Timeout: t.timeout,
		Env:     env,
		DryRun:  c.mutate && t.dryRun,
		Secrets: c.secrets,
	}
}

// Run executes an arbitrary subcommand and returns stdout.
func (t *Tool) Run(ctx context.Context, args []string, env map[string]string, mutate bool) (string, error) {
	return executor.Output(ctx, t.runner, t.spec(call{args: args, env: env, mutate: mutate}))
}

func (t *Tool) mutate(ctx context.Context, c call) (string, error) {
	c.mutate = true
	return executor.Output(ctx, t.runner, t.spec(c))
}

func (t *Tool) read(ctx context.Context, args ...string) (string, error) {
	var out string
	err := retry.ToolRead.Do(ctx, func() error {
		var err error
		out, err = executor.Output(ctx, t.runner, t.spec(call{args: args}))
		return err
	})
	return out, err
}

// List returns entity names, one per non-blank output line.
func (t *Tool) List(ctx context.Context, et domain.EntityType) ([]string, error) {
	out, err := t.read(ctx, string(et), "list")
	if err != nil {
		return nil, err
	}
	return parse.List(out), nil
}

// Show returns the attributes of one entity.
func (t *Tool) Show(ctx context.Context, et domain.EntityType, name string) (*domain.AttributeRecord, error) {
	out, err := t.read(ctx, string(et), "show", name)
	if err != nil {
		return nil, err
	}
	return parse.KeyValue(out), nil
}

// UserCreate creates a user with an initial password.
func (t *Tool) UserCreate(ctx context.Context, name, password string) (string, error) {
	return t.mutate(ctx, call{args: []string{"user", "create", name, password}, secrets: []string{password}})
}

// UserUpdate sets basic attributes through "user rename".
func (t *Tool) UserUpdate(ctx context.Context, name string, attrs UserAttrs) (string, error) {
	if attrs.Empty() {
		return "", fmt.Errorf("samba: no attributes to update for %s", name)
	}
	return t.mutate(ctx, call{args: append([]string{"user", "rename", name}, attrs.args()...)})
}

// UserSetPassword replaces the password, optionally forcing a change at
// next login.
func (t *Tool) UserSetPassword(ctx context.Context, name, password string, mustChange bool) (string, error) {
	args := []string{"user", "setpassword", name, "--newpassword", password}
	if mustChange {
		args = append(args, "--must-change-at-next-login")
	}
	return t.mutate(ctx, call{args: args, secrets: []string{password}})
}

// UserEnable enables a disabled account.
func (t *Tool) UserEnable(ctx context.Context, name string) (string, error) {
	return t.mutate(ctx, call{args: []string{"user", "enable", name}})
}

// UserDisable disables an account.
func (t *Tool) UserDisable(ctx context.Context, name string) (string, error) {
	return t.mutate(ctx, call{args: []string{"user", "disable", name}})
}

// VerifyPassword obtains a Kerberos ticket as name. A rejected password
// surfaces as domain.ErrRejected. The admin account is not used.
func (t *Tool) VerifyPassword(ctx context.Context, name, password string) error {
	_, err := executor.Output(ctx, t.runner, t.spec(call{
		args:    []string{"user", "get-kerberos-ticket", name},
		env:     map[string]string{passwdEnv: password},
		secrets: []string{password},
		noAuth:  true,
	}))
	return err
}

// GroupAdd creates a group.
func (t *Tool) GroupAdd(ctx context.Context, name, description string) (string, error) {
	args := []string{"group", "add", name}
	if description != "" {
		args = append(args, "--description", description)
	}
	return t.mutate(ctx, call{args: args})
}

// SetAttribute rewrites one attribute of an entity through the editor helper.
func (t *Tool) SetAttribute(ctx context.Context, et domain.EntityType, name, attr, value string) (string, error) {
	args, env, err := editAttribute.Render(map[string]string{
		"kind":   string(et),
		"name":   name,
		"editor": t.editor,
		"attr":   attr,
		"value":  value,
	})
	if err != nil {
		return "", err
	}
	return t.mutate(ctx, call{args: args, env: env})
}

// GroupSetDescription sets a group's description.
func (t *Tool) GroupSetDescription(ctx context.Context, name, description string) (string, error) {
	return t.SetAttribute(ctx, domain.EntityGroup, name, "description", description)
}

// GroupAddMembers adds members to a group.
func (t *Tool) GroupAddMembers(ctx context.Context, group string, members ...string) (string, error) {
	if len(members) == 0 {
		return "", fmt.Errorf("samba: no members given for %s", group)
	}
	return t.mutate(ctx, call{args: []string{"group", "addmembers", group, strings.Join(members, ",")}})
}

// GroupRemoveMembers removes members from a group.
func (t *Tool) GroupRemoveMembers(ctx context.Context, group string, members ...string) (string, error) {
	if len(members) == 0 {
		return "", fmt.Errorf("samba: no members given for %s", group)
	}
	return t.mutate(ctx, call{args: []string{"group", "removemembers", group, strings.Join(members, ",")}})
}

// GroupMove moves a group into the OU identified by targetDN.
func (t *Tool) GroupMove(ctx context.Context, group, targetDN string) (string, error) {
	return t.mutate(ctx, call{args: []string{"group", "move", group, targetDN}})
}
