// Package config handles persistent user configuration for dirctl.
//
// Configuration is stored as JSON at ~/.config/dirctl/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Environment
// variables, including those loaded from .env files, take precedence over
// the file; see Resolve.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var pathOverride string

// SetPath points Load and Save at p instead of the user config dir.
func SetPath(p string) { pathOverride = p }

// ResetPath undoes SetPath.
func ResetPath() { pathOverride = "" }

// Config holds the values persisted by "dirctl config set". Every field is
// the raw string the user entered; Resolve parses and validates them.
type Config struct {
	ToolPath         string `json:"tool_path,omitempty"`
	Realm            string `json:"realm,omitempty"`
	Workgroup        string `json:"workgroup,omitempty"`
	AuthUser         string `json:"auth_user,omitempty"`
	AuthDomain       string `json:"auth_domain,omitempty"`
	TimeoutSeconds   string `json:"timeout_seconds,omitempty"`
	ScriptsDir       string `json:"scripts_dir,omitempty"`
	LDAPURI          string `json:"ldap_uri,omitempty"`
	BindDN           string `json:"bind_dn,omitempty"`
	BaseDN           string `json:"base_dn,omitempty"`
	UsersOU          string `json:"users_ou,omitempty"`
	Domain           string `json:"domain,omitempty"`
	SyncSource       string `json:"sync_source,omitempty"`
	MaxProcs         string `json:"max_procs,omitempty"`
	DisabledGroupsOU string `json:"disabled_groups_ou,omitempty"`
	EditorPath       string `json:"editor_path,omitempty"`
}

// Path is dirctl/config.json under os.UserConfigDir, unless SetPath is in
// effect.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: no user config dir: %w", err)
	}
	return filepath.Join(base, "dirctl", "config.json"), nil
}

// Load reads the file at Path. A missing file yields an empty Config.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(p)
}

// LoadFrom reads the config file at path. A missing file yields an empty
// Config.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s is not valid JSON: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to Path.
func (c *Config) Save() error {
	p, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(p)
}

// SaveTo atomically replaces the file at path with c, mode 0600.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, werr := tmp.Write(append(data, '\n'))
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("config: writing %s: %w", path, werr)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
