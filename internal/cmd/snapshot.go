package cmd

import (
	"context"

	"github.com/mercurychat/mercury-cli/internal/cache"
	"github.com/mercurychat/mercury-cli/internal/config"
	"github.com/mercurychat/mercury-cli/internal/store"
)

// snapshotSource is what commands need from the store; an interface so
// tests can substitute canned snapshots.
type snapshotSource interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Close() error
}

// Test seams, replaced by command tests.
var (
	loadProfile  = config.Load
	openSnapshot = func(addr, cacheDir string) snapshotSource {
		return store.New(addr, cacheDir)
	}
)

// loadSnapshot resolves the profile and fetches the app snapshot.
func loadSnapshot(ctx context.Context) (*store.Snapshot, *config.Profile, error) {
	profile, err := loadProfile()
	if err != nil {
		return nil, nil, err
	}
	cacheDir, err := cache.DefaultDir()
	if err != nil {
		cacheDir = "" // no mirror, live-only
	}
	src := openSnapshot(profile.Addr, cacheDir)
	defer func() { _ = src.Close() }()

	snap, err := src.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap, profile, nil
}
