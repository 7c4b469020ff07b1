// Package auth stores directory credentials in the OS keychain so they never
// need to live in config files or shell history.
package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/util"
)

const ServiceName = "dirctl"

var ErrSecretNotFound = errors.New("secret not found")

// Secret names a stored credential.
type Secret string

const (
	// SecretBind is the bind password exported to scripts as BIND_PW.
	SecretBind Secret = "bind"
	// SecretSamba is the administrative password passed to the tool via PASSWD.
	SecretSamba Secret = "samba"
)

// Secrets lists every known credential.
var Secrets = []Secret{SecretBind, SecretSamba}

// ParseSecret normalizes and validates a secret name.
func ParseSecret(name string) (Secret, error) {
	s := Secret(util.NormalizeKey(name))
	for _, known := range Secrets {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown secret %q (expected bind or samba)", name)
}

type Store interface {
	SetSecret(name Secret, value string) error
	GetSecret(name Secret) (string, error)
	DeleteSecret(name Secret) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// Apply fills passwords missing from s with values from store. Environment
// values already present in s win. Keychain errors other than a missing
// entry are returned.
func Apply(s *config.Settings, store Store) error {
	fill := func(dst *string, name Secret) error {
		if *dst != "" {
			return nil
		}
		v, err := store.GetSecret(name)
		if errors.Is(err, ErrSecretNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("auth: reading %s secret: %w", name, err)
		}
		*dst = v
		return nil
	}
	if err := fill(&s.BindPassword, SecretBind); err != nil {
		return err
	}
	return fill(&s.AuthPassword, SecretSamba)
}
