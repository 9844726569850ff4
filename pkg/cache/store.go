// Package cache memoizes values on disk between runs. Each entry is stored
// as two files: {hash}.cache (data) and {hash}.meta (JSON metadata). Writes
// are atomic via temp-file-then-rename.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// hashKey names the files for key: 8 bytes of its SHA-256 in hex.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// entryMeta is the JSON structure persisted alongside each cache entry.
type entryMeta struct {
	Key     string `json:"key"`
	Created int64  `json:"created"` // UnixNano
	TTLNS   int64  `json:"ttl_ns"`  // 0 = no TTL
}

// Store is a disk-backed key-value cache with TTL-based expiry. It keeps
// no in-memory index, so several processes may share one directory.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a Store in dir with the given default TTL. The
// directory is created with 0755 permissions if it does not exist.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: empty directory")
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Get retrieves the raw bytes for key. Returns (nil, false) if the key is
// missing or expired. Expired entries are removed.
func (s *Store) Get(key string) ([]byte, bool) {
	h := hashKey(key)

	meta, err := s.readMeta(h)
	if err != nil || meta.Key != key {
		return nil, false
	}
	if s.isExpired(meta) {
		s.remove(h)
		return nil, false
	}

	data, err := os.ReadFile(s.dataPath(h))
	if err != nil {
		return nil, false
	}
	return data, true
}

// GetString is a convenience method that returns the cached value as a string.
func (s *Store) GetString(key string) (string, bool) {
	data, ok := s.Get(key)
	if !ok {
		return "", false
	}
	return string(data), true
}

// Put stores value under key with the store's default TTL.
func (s *Store) Put(key string, value []byte) error {
	return s.PutWithTTL(key, value, s.ttl)
}

// PutString stores a string value with the default TTL.
func (s *Store) PutString(key, value string) error {
	return s.Put(key, []byte(value))
}

// PutWithTTL stores value under key with a custom TTL. A TTL of 0 means the
// entry never expires.
func (s *Store) PutWithTTL(key string, value []byte, ttl time.Duration) error {
	h := hashKey(key)

	metaBytes, err := json.Marshal(entryMeta{
		Key:     key,
		Created: s.now().UnixNano(),
		TTLNS:   int64(ttl),
	})
	if err != nil {
		return fmt.Errorf("cache: marshal meta for %q: %w", key, err)
	}

	if err := atomicWrite(s.dataPath(h), value, s.dir); err != nil {
		return fmt.Errorf("cache: write data for %q: %w", key, err)
	}
	if err := atomicWrite(s.metaPath(h), metaBytes, s.dir); err != nil {
		// Best effort: remove the data file we just wrote
		_ = os.Remove(s.dataPath(h))
		return fmt.Errorf("cache: write meta for %q: %w", key, err)
	}
	return nil
}

// Delete removes a specific entry from the cache.
func (s *Store) Delete(key string) {
	s.remove(hashKey(key))
}

// Clear removes all entries from the cache.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: clear read dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".cache") || strings.HasSuffix(name, ".meta") || strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.dir, name))
		}
	}
	return nil
}

// --- internal helpers ---

func (s *Store) dataPath(hash string) string {
	return filepath.Join(s.dir, hash+".cache")
}

func (s *Store) metaPath(hash string) string {
	return filepath.Join(s.dir, hash+".meta")
}

func (s *Store) readMeta(hash string) (entryMeta, error) {
	var m entryMeta
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, err
	}
	return m, nil
}

func (s *Store) isExpired(m entryMeta) bool {
	if m.TTLNS <= 0 {
		return false
	}
	created := time.Unix(0, m.Created)
	return s.now().Sub(created) > time.Duration(m.TTLNS)
}

func (s *Store) remove(hash string) {
	_ = os.Remove(s.dataPath(hash))
	_ = os.Remove(s.metaPath(hash))
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	success = true
	return nil
}
