package config

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

// withMockKeyring sets up a mock keyring for the duration of a test
func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
}

// withFailingKeyring sets up a keyring that always fails to open
func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envAddr, "")
	t.Setenv(envRegion, "")
	t.Setenv(envLocale, "")
}

func TestLoad_DefaultsWhenNothingStored(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if p.Addr != DefaultAddr {
		t.Fatalf("Addr = %q, want default %q", p.Addr, DefaultAddr)
	}
	if p.Region != "" || p.Locale != "" {
		t.Fatalf("expected empty region/locale, got %+v", p)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	want := &Profile{Addr: "localhost:7700", Region: "SE", Locale: "sv"}
	if err := Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoad_EnvOverridesStoredProfile(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	if err := Save(&Profile{Addr: "localhost:7700", Region: "SE"}); err != nil {
		t.Fatal(err)
	}

	t.Setenv(envAddr, "localhost:9999")
	t.Setenv(envRegion, "US")
	t.Setenv(envLocale, "en")

	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if p.Addr != "localhost:9999" || p.Region != "US" || p.Locale != "en" {
		t.Fatalf("env overrides not applied: %+v", p)
	}
}

func TestLoad_KeyringFailureStillServesEnv(t *testing.T) {
	clearEnv(t)
	withFailingKeyring(t, errors.New("no keyring available"))
	t.Setenv(envAddr, "localhost:4242")

	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if p.Addr != "localhost:4242" {
		t.Fatalf("Addr = %q, want env value", p.Addr)
	}
}

func TestLoad_CorruptProfileErrors(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{
		{Key: profileKey, Data: []byte("not json")},
	}))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for corrupt stored profile")
	}
}

func TestDelete_MissingProfileIsNoOp(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	if err := Delete(); err != nil {
		t.Fatal(err)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		backend  string
		dbusAddr string
		want     bool
	}{
		{"explicit file backend", "darwin", keyringBackendFile, "", true},
		{"system backend never forces", "linux", keyringBackendSystem, "", false},
		{"headless linux forces file", "linux", keyringBackendAuto, "", true},
		{"linux with dbus keeps auto", "linux", keyringBackendAuto, "unix:path=/run/user/1000/bus", false},
		{"darwin auto keeps auto", "darwin", keyringBackendAuto, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbusAddr); got != tt.want {
				t.Errorf("shouldForceFileBackend(%q, %q, %q) = %v, want %v",
					tt.goos, tt.backend, tt.dbusAddr, got, tt.want)
			}
		})
	}
}
