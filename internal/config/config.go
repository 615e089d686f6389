// Package config stores the CLI's connection profile in the OS keyring,
// with an encrypted-file fallback for headless machines.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "mercury-cli"
	profileKey  = "profile"

	envAddr   = "MERCURY_ADDR"
	envRegion = "MERCURY_REGION"
	envLocale = "MERCURY_LOCALE"

	envKeyringBackend  = "MERCURY_KEYRING_BACKEND"
	envKeyringPassword = "MERCURY_KEYRING_PASSWORD"
	envCredentialsDir  = "MERCURY_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// DefaultAddr is where the desktop app publishes its snapshot.
const DefaultAddr = "localhost:6390"

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Profile holds the connection details for one desktop app instance.
type Profile struct {
	Addr   string `json:"addr"`             // app snapshot redis address
	Region string `json:"region,omitempty"` // default phone region, ISO 3166-1
	Locale string `json:"locale,omitempty"` // BCP 47 tag for title collation
}

// ErrNotConfigured is returned when no profile has been saved yet.
var ErrNotConfigured = errors.New("mercury not configured - run 'mercury config set' first")

// Load returns the stored profile with env overrides applied. A missing
// profile is not an error: env-only or all-default operation is fine for a
// read-only companion tool.
func Load() (*Profile, error) {
	p := &Profile{Addr: DefaultAddr}

	ring, err := openKeyring(keyringConfig())
	if err == nil {
		if item, getErr := ring.Get(profileKey); getErr == nil {
			if jsonErr := json.Unmarshal(item.Data, p); jsonErr != nil {
				return nil, fmt.Errorf("corrupt stored profile: %w", jsonErr)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(envAddr)); v != "" {
		p.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(envRegion)); v != "" {
		p.Region = v
	}
	if v := strings.TrimSpace(os.Getenv(envLocale)); v != "" {
		p.Locale = v
	}
	if p.Addr == "" {
		p.Addr = DefaultAddr
	}
	return p, nil
}

// Save persists the profile to the keyring.
func Save(p *Profile) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: profileKey, Data: data}); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// Delete removes the stored profile. Deleting a missing profile is a no-op.
func Delete() error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	if err := ring.Remove(profileKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}

// keyringConfig returns the keyring configuration
func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Always configure file backend details in auto mode so keyring.Open can
	// fall through to encrypted file storage when native backends are missing.
	configureFileBackend(&cfg)

	// Headless Linux should bypass other backends and use encrypted file storage.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend)))
	switch backend {
	case "", keyringBackendAuto:
		return keyringBackendAuto
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config", serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}
