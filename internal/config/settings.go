package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variables recognised by Resolve.
const (
	EnvToolPath         = "SAMBA_TOOL_PATH"
	EnvRealm            = "SAMBA_REALM"
	EnvWorkgroup        = "SAMBA_WORKGROUP"
	EnvAuthUser         = "SAMBA_AUTH_USER"
	EnvAuthDomain       = "SAMBA_AUTH_DOMAIN"
	EnvAuthPassword     = "SAMBA_AUTH_PASSWORD"
	EnvTimeoutSeconds   = "SAMBA_TIMEOUT_SECONDS"
	EnvDryRun           = "SAMBA_DRY_RUN"
	EnvScriptsDir       = "AD_SCRIPTS_DIR"
	EnvScriptTimeout    = "AD_SCRIPT_TIMEOUT_SECONDS"
	EnvLDAPURI          = "LDAP_URI"
	EnvBindDN           = "BIND_DN"
	EnvBindPassword     = "BIND_PW"
	EnvBaseDN           = "BASE_DN"
	EnvUsersOU          = "USERS_OU"
	EnvDomain           = "DOMAIN"
	EnvSyncSource       = "DIRCTL_SYNC_SOURCE"
	EnvMaxProcs         = "DIRCTL_MAX_PROCS"
	EnvDBPath           = "DIRCTL_DB_PATH"
	EnvLogLevel         = "DIRCTL_LOG_LEVEL"
	EnvDisabledGroupsOU = "DIRCTL_DISABLED_GROUPS_OU"
	EnvEditorPath       = "DIRCTL_EDITOR"
)

const (
	defaultToolPath      = "samba-tool"
	defaultEditorPath    = "dirctl-editor"
	defaultTimeout       = 20
	defaultScriptTimeout = 60
	defaultMaxProcs      = 4
)

// SyncSource selects how reconciliation obtains entity snapshots.
type SyncSource string

const (
	// SourceTool lists entities with the management tool and shows each one.
	SourceTool SyncSource = "tool"
	// SourceScripts reads a single LDIF dump from the bulk listing scripts.
	SourceScripts SyncSource = "scripts"
)

// ParseSyncSource validates s. An empty string selects SourceTool.
func ParseSyncSource(s string) (SyncSource, error) {
	switch SyncSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", SourceTool:
		return SourceTool, nil
	case SourceScripts:
		return SourceScripts, nil
	}
	return "", fmt.Errorf("config: unknown sync source %q (expected tool or scripts)", s)
}

// Settings is the fully resolved runtime configuration. It is built once
// at startup and passed by value into constructors.
type Settings struct {
	ToolPath     string
	Realm        string
	Workgroup    string
	AuthUser     string
	AuthDomain   string
	AuthPassword string
	Timeout      time.Duration
	DryRun       bool

	ScriptsDir    string
	ScriptTimeout time.Duration
	LDAPURI       string
	BindDN        string
	BindPassword  string
	BaseDN        string
	UsersOU       string
	Domain        string

	SyncSource       SyncSource
	MaxProcs         int
	DBPath           string
	LogLevel         string
	DisabledGroupsOU string
	EditorPath       string
}

// LoadEnvFiles loads .env.local and .env from the working directory.
// Variables already present in the environment are never overwritten, and
// .env.local wins over .env.
func LoadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// Resolve merges cfg with the environment. Environment variables take
// precedence over file values, which take precedence over defaults.
// Secrets (SAMBA_AUTH_PASSWORD, BIND_PW) come only from the environment.
func Resolve(cfg *Config) (Settings, error) {
	return resolve(cfg, viper.New())
}

func resolve(cfg *Config, v *viper.Viper) (Settings, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	v.AutomaticEnv()

	v.SetDefault(EnvToolPath, or(cfg.ToolPath, defaultToolPath))
	v.SetDefault(EnvRealm, cfg.Realm)
	v.SetDefault(EnvWorkgroup, cfg.Workgroup)
	v.SetDefault(EnvAuthUser, cfg.AuthUser)
	v.SetDefault(EnvAuthDomain, cfg.AuthDomain)
	v.SetDefault(EnvTimeoutSeconds, or(cfg.TimeoutSeconds, fmt.Sprint(defaultTimeout)))
	v.SetDefault(EnvDryRun, false)
	v.SetDefault(EnvScriptsDir, or(cfg.ScriptsDir, "scripts_ad"))
	v.SetDefault(EnvScriptTimeout, defaultScriptTimeout)
	v.SetDefault(EnvLDAPURI, cfg.LDAPURI)
	v.SetDefault(EnvBindDN, cfg.BindDN)
	v.SetDefault(EnvBaseDN, cfg.BaseDN)
	v.SetDefault(EnvUsersOU, cfg.UsersOU)
	v.SetDefault(EnvDomain, cfg.Domain)
	v.SetDefault(EnvSyncSource, cfg.SyncSource)
	v.SetDefault(EnvMaxProcs, or(cfg.MaxProcs, fmt.Sprint(defaultMaxProcs)))
	v.SetDefault(EnvLogLevel, "info")
	v.SetDefault(EnvDisabledGroupsOU, cfg.DisabledGroupsOU)
	v.SetDefault(EnvEditorPath, or(cfg.EditorPath, defaultEditorPath))

	s := Settings{
		ToolPath:         v.GetString(EnvToolPath),
		Realm:            v.GetString(EnvRealm),
		Workgroup:        v.GetString(EnvWorkgroup),
		AuthUser:         v.GetString(EnvAuthUser),
		AuthDomain:       v.GetString(EnvAuthDomain),
		AuthPassword:     v.GetString(EnvAuthPassword),
		DryRun:           v.GetBool(EnvDryRun),
		ScriptsDir:       v.GetString(EnvScriptsDir),
		LDAPURI:          v.GetString(EnvLDAPURI),
		BindDN:           v.GetString(EnvBindDN),
		BindPassword:     v.GetString(EnvBindPassword),
		BaseDN:           v.GetString(EnvBaseDN),
		UsersOU:          v.GetString(EnvUsersOU),
		Domain:           v.GetString(EnvDomain),
		DBPath:           v.GetString(EnvDBPath),
		LogLevel:         v.GetString(EnvLogLevel),
		DisabledGroupsOU: v.GetString(EnvDisabledGroupsOU),
		EditorPath:       v.GetString(EnvEditorPath),
	}

	timeout := v.GetInt(EnvTimeoutSeconds)
	if timeout <= 0 {
		return Settings{}, fmt.Errorf("config: %s must be a positive integer, got %q", EnvTimeoutSeconds, v.GetString(EnvTimeoutSeconds))
	}
	s.Timeout = time.Duration(timeout) * time.Second

	scriptTimeout := v.GetInt(EnvScriptTimeout)
	if scriptTimeout <= 0 {
		return Settings{}, fmt.Errorf("config: %s must be a positive integer, got %q", EnvScriptTimeout, v.GetString(EnvScriptTimeout))
	}
	s.ScriptTimeout = time.Duration(scriptTimeout) * time.Second

	s.MaxProcs = v.GetInt(EnvMaxProcs)
	if s.MaxProcs <= 0 {
		return Settings{}, fmt.Errorf("config: %s must be a positive integer, got %q", EnvMaxProcs, v.GetString(EnvMaxProcs))
	}

	source, err := ParseSyncSource(v.GetString(EnvSyncSource))
	if err != nil {
		return Settings{}, err
	}
	s.SyncSource = source

	return s, nil
}

// AuthPrincipal returns the -U argument value ("DOMAIN\user" or "user"),
// or "" when no administrative account is configured.
func (s Settings) AuthPrincipal() string {
	if s.AuthUser == "" {
		return ""
	}
	if s.AuthDomain == "" {
		return s.AuthUser
	}
	return s.AuthDomain + `\` + s.AuthUser
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
