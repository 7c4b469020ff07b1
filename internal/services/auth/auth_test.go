package auth

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"nathanbeddoewebdev/dirctl/internal/config"
)

func TestParseSecret(t *testing.T) {
	for _, in := range []string{"bind", " BIND ", "Samba"} {
		if _, err := ParseSecret(in); err != nil {
			t.Errorf("ParseSecret(%q) error: %v", in, err)
		}
	}
	if _, err := ParseSecret("hetzner"); err == nil {
		t.Error("expected error for unknown secret")
	}
}

func TestApply(t *testing.T) {
	store := NewMockStore()
	_ = store.SetSecret(SecretBind, "from-keychain")
	_ = store.SetSecret(SecretSamba, "admin-pw")

	s := config.Settings{AuthPassword: "from-env"}
	if err := Apply(&s, store); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if s.BindPassword != "from-keychain" {
		t.Errorf("BindPassword = %q, want keychain value", s.BindPassword)
	}
	if s.AuthPassword != "from-env" {
		t.Errorf("AuthPassword = %q, env value should win", s.AuthPassword)
	}
}

func TestApply_MissingSecretsAreFine(t *testing.T) {
	var s config.Settings
	if err := Apply(&s, NewMockStore()); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if s.BindPassword != "" || s.AuthPassword != "" {
		t.Errorf("expected empty passwords, got %+v", s)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()
	if _, err := store.GetSecret(SecretBind); !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("GetSecret err = %v, want ErrSecretNotFound", err)
	}
	if err := store.SetSecret(SecretBind, "pw"); err != nil {
		t.Fatalf("SetSecret error: %v", err)
	}
	if got, _ := store.GetSecret(SecretBind); got != "pw" {
		t.Errorf("GetSecret = %q, want pw", got)
	}
	if err := store.DeleteSecret(SecretBind); err != nil {
		t.Fatalf("DeleteSecret error: %v", err)
	}
	if err := store.DeleteSecret(SecretBind); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("second DeleteSecret err = %v, want ErrSecretNotFound", err)
	}
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("")

	if _, err := store.GetSecret(SecretSamba); !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("GetSecret err = %v, want ErrSecretNotFound", err)
	}
	if err := store.SetSecret(SecretSamba, "pw"); err != nil {
		t.Fatalf("SetSecret error: %v", err)
	}
	got, err := store.GetSecret(SecretSamba)
	if err != nil || got != "pw" {
		t.Fatalf("GetSecret = %q, %v; want pw", got, err)
	}
	if err := store.DeleteSecret(SecretSamba); err != nil {
		t.Fatalf("DeleteSecret error: %v", err)
	}
	if err := store.DeleteSecret(SecretSamba); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("DeleteSecret err = %v, want ErrSecretNotFound", err)
	}
}
