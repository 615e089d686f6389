// Package cache provides a file-based cache for desktop-app snapshots.
//
// Cache files are JSON, scoped per snapshot kind and source address, so
// profiles pointed at different app instances never share a file. Default
// TTL is 15 minutes. Disable with MERCURY_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 15 * time.Minute

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	Data     json.RawMessage `json:"data"`
}

// Store reads and writes a single cache key (kind+source).
type Store struct {
	path string
	ttl  time.Duration
}

// NewStore creates a Store with the default TTL.
// dir is the cache directory (typically from DefaultDir).
// kind is the snapshot kind (e.g. "snapshot").
// source is the app's redis address the snapshot came from.
func NewStore(dir, kind, source string) *Store {
	return NewStoreWithTTL(dir, kind, source, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, kind, source string, ttl time.Duration) *Store {
	kind = sanitizeKind(kind)
	hash := sha1.Sum([]byte(source))
	suffix := hex.EncodeToString(hash[:6])
	filename := fmt.Sprintf("%s_%s.json", kind, suffix)
	return &Store{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Get loads cached data into dst. Returns false on miss (no file, expired, disabled).
func (s *Store) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Data, dst) == nil
}

// Put writes data to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(data any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Data:     raw,
	})
	if err != nil {
		return
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes all cache files from the directory.
// For safety, it only removes files matching this project's cache filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isCacheFilename(name) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
}

// DefaultDir returns the platform-appropriate cache directory.
// Returns "$XDG_CACHE_HOME/mercury-cli" or equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "mercury-cli"), nil
}

func disabled() bool {
	return os.Getenv("MERCURY_NO_CACHE") != ""
}

func sanitizeKind(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return "cache"
	}
	kind = strings.ReplaceAll(kind, "/", "-")
	kind = strings.ReplaceAll(kind, "\\", "-")
	return kind
}

func isCacheFilename(name string) bool {
	// Expected: "<kind>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) != 2 {
		return false
	}
	if parts[0] == "" {
		return false
	}
	if len(parts[1]) != 12 || !isHex(parts[1]) {
		return false
	}
	return true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
