package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Key binds a "dirctl config" key name to its Config field and the
// environment variable that overrides it.
type Key struct {
	Name        string
	Env         string
	Description string
	Get         func(cfg *Config) string
	// Set mutates cfg only; callers Save.
	Set func(cfg *Config, value string)
	// Validate is optional.
	Validate func(value string) error
}

// Keys lists every persisted setting in help order.
var Keys = []Key{
	{
		Name:        "tool-path",
		Env:         EnvToolPath,
		Description: "Path to the directory management tool (default samba-tool)",
		Get:         func(cfg *Config) string { return cfg.ToolPath },
		Set:         func(cfg *Config, v string) { cfg.ToolPath = v },
	},
	{
		Name:        "realm",
		Env:         EnvRealm,
		Description: "Kerberos realm passed as --realm",
		Get:         func(cfg *Config) string { return cfg.Realm },
		Set:         func(cfg *Config, v string) { cfg.Realm = v },
	},
	{
		Name:        "workgroup",
		Env:         EnvWorkgroup,
		Description: "Workgroup passed as --workgroup",
		Get:         func(cfg *Config) string { return cfg.Workgroup },
		Set:         func(cfg *Config, v string) { cfg.Workgroup = v },
	},
	{
		Name:        "auth-user",
		Env:         EnvAuthUser,
		Description: "Administrative account used with -U",
		Get:         func(cfg *Config) string { return cfg.AuthUser },
		Set:         func(cfg *Config, v string) { cfg.AuthUser = v },
	},
	{
		Name:        "auth-domain",
		Env:         EnvAuthDomain,
		Description: "Domain of the administrative account",
		Get:         func(cfg *Config) string { return cfg.AuthDomain },
		Set:         func(cfg *Config, v string) { cfg.AuthDomain = v },
	},
	{
		Name:        "timeout-seconds",
		Env:         EnvTimeoutSeconds,
		Description: "Timeout for each tool invocation in seconds (default 20)",
		Get:         func(cfg *Config) string { return cfg.TimeoutSeconds },
		Set:         func(cfg *Config, v string) { cfg.TimeoutSeconds = v },
		Validate:    positiveInt,
	},
	{
		Name:        "scripts-dir",
		Env:         EnvScriptsDir,
		Description: "Base directory of the directory scripts",
		Get:         func(cfg *Config) string { return cfg.ScriptsDir },
		Set:         func(cfg *Config, v string) { cfg.ScriptsDir = v },
	},
	{
		Name:        "ldap-uri",
		Env:         EnvLDAPURI,
		Description: "Directory URI exported to scripts as LDAP_URI",
		Get:         func(cfg *Config) string { return cfg.LDAPURI },
		Set:         func(cfg *Config, v string) { cfg.LDAPURI = v },
	},
	{
		Name:        "bind-dn",
		Env:         EnvBindDN,
		Description: "Bind DN exported to scripts as BIND_DN",
		Get:         func(cfg *Config) string { return cfg.BindDN },
		Set:         func(cfg *Config, v string) { cfg.BindDN = v },
	},
	{
		Name:        "base-dn",
		Env:         EnvBaseDN,
		Description: "Search base exported to scripts as BASE_DN",
		Get:         func(cfg *Config) string { return cfg.BaseDN },
		Set:         func(cfg *Config, v string) { cfg.BaseDN = v },
	},
	{
		Name:        "users-ou",
		Env:         EnvUsersOU,
		Description: "Users OU exported to scripts as USERS_OU",
		Get:         func(cfg *Config) string { return cfg.UsersOU },
		Set:         func(cfg *Config, v string) { cfg.UsersOU = v },
	},
	{
		Name:        "domain",
		Env:         EnvDomain,
		Description: "DNS domain exported to scripts as DOMAIN",
		Get:         func(cfg *Config) string { return cfg.Domain },
		Set:         func(cfg *Config, v string) { cfg.Domain = v },
	},
	{
		Name:        "sync-source",
		Env:         EnvSyncSource,
		Description: "Where sync reads entities from: tool or scripts (default tool)",
		Get:         func(cfg *Config) string { return cfg.SyncSource },
		Set:         func(cfg *Config, v string) { cfg.SyncSource = strings.ToLower(v) },
		Validate: func(v string) error {
			if _, err := ParseSyncSource(v); err != nil {
				return err
			}
			return nil
		},
	},
	{
		Name:        "max-procs",
		Env:         EnvMaxProcs,
		Description: "Maximum concurrent external processes (default 4)",
		Get:         func(cfg *Config) string { return cfg.MaxProcs },
		Set:         func(cfg *Config, v string) { cfg.MaxProcs = v },
		Validate:    positiveInt,
	},
	{
		Name:        "disabled-groups-ou",
		Env:         EnvDisabledGroupsOU,
		Description: "OU that disabled groups are moved into",
		Get:         func(cfg *Config) string { return cfg.DisabledGroupsOU },
		Set:         func(cfg *Config, v string) { cfg.DisabledGroupsOU = v },
	},
	{
		Name:        "editor-path",
		Env:         EnvEditorPath,
		Description: "Path to the dirctl-editor helper used for attribute edits",
		Get:         func(cfg *Config) string { return cfg.EditorPath },
		Set:         func(cfg *Config, v string) { cfg.EditorPath = v },
	},
}

// Lookup finds a key by name, ignoring case and surrounding space.
func Lookup(name string) *Key {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp renders Keys as an aligned block for command help.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s ($%s)\n", maxLen, k.Name, k.Description, k.Env)
	}
	return b.String()
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("expected a positive integer, got %q", v)
	}
	return nil
}
