// Package store reads the Mercury desktop app's published snapshot.
//
// The app keeps the conversation list and the current calling state in a
// local redis instance; this package fetches both, mirroring them to a file
// cache so the CLI keeps working (with stale data) when the app is closed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mercurychat/mercury-cli/internal/cache"
	"github.com/mercurychat/mercury-cli/internal/callstate"
	"github.com/mercurychat/mercury-cli/internal/model"
)

// Redis keys the desktop app writes.
const (
	keyConversations = "mercury:conversations"
	keyCallState     = "mercury:callstate"
)

const snapshotCacheKind = "snapshot"

// Snapshot is everything the picker needs from the app.
type Snapshot struct {
	Conversations []model.Conversation `json:"conversations"`
	Calls         callstate.State      `json:"calls"`
}

// Store fetches snapshots from the app's redis instance.
type Store struct {
	rdb   *redis.Client
	addr  string
	cache *cache.Store // nil disables the file mirror
}

// New connects to the app's redis instance. cacheDir may be empty to skip
// the file mirror (tests do this).
func New(addr, cacheDir string) *Store {
	s := &Store{
		rdb:  redis.NewClient(&redis.Options{Addr: addr}),
		addr: addr,
	}
	if cacheDir != "" {
		s.cache = cache.NewStore(cacheDir, snapshotCacheKind, addr)
	}
	return s
}

// Close releases the redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Load fetches the conversation list and calling state concurrently.
// When redis is unreachable it falls back to the last cached snapshot; a
// missing key is not an error, just an empty section.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Conversations: []model.Conversation{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.rdb.Get(gctx, keyConversations).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch conversations: %w", err)
		}
		return json.Unmarshal(raw, &snap.Conversations)
	})
	g.Go(func() error {
		raw, err := s.rdb.Get(gctx, keyCallState).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch call state: %w", err)
		}
		return json.Unmarshal(raw, &snap.Calls)
	})

	if err := g.Wait(); err != nil {
		if cached, ok := s.loadCached(); ok {
			slog.Debug("app unreachable, serving cached snapshot", "addr", s.addr, "error", err)
			return cached, nil
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(snap)
	}
	return snap, nil
}

func (s *Store) loadCached() (*Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}
	var snap Snapshot
	if !s.cache.Get(&snap) {
		return nil, false
	}
	if snap.Conversations == nil {
		snap.Conversations = []model.Conversation{}
	}
	return &snap, true
}

// ClearCache drops the file mirror for this store's source.
func (s *Store) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}
