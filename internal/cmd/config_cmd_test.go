package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/mercurychat/mercury-cli/internal/config"
)

// withProfileSeams replaces the config seams with an in-memory profile.
func withProfileSeams(t *testing.T, initial *config.Profile) *config.Profile {
	t.Helper()
	current := initial
	origLoad := loadProfile
	origSave := saveProfile
	origDelete := deleteProfile
	loadProfile = func() (*config.Profile, error) {
		copied := *current
		return &copied, nil
	}
	saveProfile = func(p *config.Profile) error {
		copied := *p
		current = &copied
		return nil
	}
	deleteProfile = func() error {
		current = &config.Profile{Addr: config.DefaultAddr}
		return nil
	}
	t.Cleanup(func() {
		loadProfile = origLoad
		saveProfile = origSave
		deleteProfile = origDelete
	})
	return current
}

func TestConfigSetUpdatesOnlyChangedFields(t *testing.T) {
	withProfileSeams(t, &config.Profile{Addr: "localhost:6390", Region: "SE", Locale: "sv"})

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"config", "set", "--region", "US"}); err != nil {
			t.Fatalf("config set failed: %v", err)
		}
	})
	if !strings.Contains(output, "Profile saved.") {
		t.Fatalf("unexpected output: %q", output)
	}

	show := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"config", "show"}); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
	})
	if !strings.Contains(show, "region: US") {
		t.Fatalf("region not updated: %q", show)
	}
	if !strings.Contains(show, "locale: sv") {
		t.Fatalf("untouched locale should survive: %q", show)
	}
	if !strings.Contains(show, "addr:   localhost:6390") {
		t.Fatalf("untouched addr should survive: %q", show)
	}
}

func TestConfigClear(t *testing.T) {
	withProfileSeams(t, &config.Profile{Addr: "localhost:7000", Region: "SE"})

	captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"config", "clear"}); err != nil {
			t.Fatalf("config clear failed: %v", err)
		}
	})

	show := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"config", "show"}); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
	})
	if !strings.Contains(show, config.DefaultAddr) {
		t.Fatalf("cleared profile should fall back to defaults: %q", show)
	}
	if !strings.Contains(show, "region: (unset)") {
		t.Fatalf("cleared profile should have no region: %q", show)
	}
}
