package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/mercurychat/mercury-cli/internal/config"
	"github.com/mercurychat/mercury-cli/internal/store"
)

// fakeSource serves a canned snapshot (or error) instead of hitting redis.
type fakeSource struct {
	snap *store.Snapshot
	err  error
}

func (f *fakeSource) Load(ctx context.Context) (*store.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeSource) Close() error { return nil }

// withSnapshot stubs the profile and snapshot seams for one test.
func withSnapshot(t *testing.T, snap *store.Snapshot, err error) {
	t.Helper()
	origProfile := loadProfile
	origOpen := openSnapshot
	loadProfile = func() (*config.Profile, error) {
		return &config.Profile{Addr: "localhost:0", Region: "US"}, nil
	}
	openSnapshot = func(addr, cacheDir string) snapshotSource {
		return &fakeSource{snap: snap, err: err}
	}
	t.Cleanup(func() {
		loadProfile = origProfile
		openSnapshot = origOpen
	})
}

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
