package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const entryExt = ".json"

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// Stats summarizes the store contents.
type Stats struct {
	Entries int
	Bytes   int64
}

// FileStore persists entries as one JSON file per key. It is safe for
// concurrent use within a process.
type FileStore struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time

	mu sync.RWMutex
}

// Disabled returns a store whose operations all fail with ErrDisabled.
func Disabled() *FileStore {
	return &FileStore{now: time.Now}
}

// NewFileStore opens (creating if needed) a store rooted at dir.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir, ttl: ttl, enabled: true, now: time.Now}, nil
}

// Enabled reports whether the store caches anything.
func (s *FileStore) Enabled() bool { return s.enabled }

// Dir returns the cache directory.
func (s *FileStore) Dir() string { return s.dir }

// TTL returns the lifetime given to new entries.
func (s *FileStore) TTL() time.Duration { return s.ttl }

// Get returns the live entry for key. Stale entries are removed and reported
// as ErrExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	path := s.path(key)
	entry, err := readEntry(path)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if entry.ExpiredAt(s.now()) {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return entry, nil
}

// Put stores data under key, replacing any previous entry.
func (s *FileStore) Put(key, source string, data []byte) error {
	if err := s.check(key); err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("caching %s: payload is not valid JSON", source)
	}

	now := s.now()
	raw, err := json.Marshal(Entry{
		Key:       key,
		Source:    source,
		Data:      data,
		StoredAt:  now,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

// Delete removes key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if err := s.check(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *FileStore) Clear() error {
	_, err := s.sweep(func(string) bool { return true })
	return err
}

// Prune removes expired and unreadable entries and returns how many went.
func (s *FileStore) Prune() (int, error) {
	now := s.now()
	return s.sweep(func(path string) bool {
		entry, err := readEntry(path)
		return err != nil || entry.ExpiredAt(now)
	})
}

// Stats counts entries and their size on disk, expired ones included.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	err := s.walk(func(path string, info os.FileInfo) {
		st.Entries++
		st.Bytes += info.Size()
	})
	return st, err
}

func (s *FileStore) sweep(remove func(path string) bool) (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	var firstErr error
	err := s.walk(func(path string, _ os.FileInfo) {
		if !remove(path) {
			return
		}
		if rmErr := os.Remove(path); rmErr != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("removing %s: %w", filepath.Base(path), rmErr)
			}
			return
		}
		removed++
	})
	if err != nil {
		return removed, err
	}
	return removed, firstErr
}

func (s *FileStore) walk(fn func(path string, info os.FileInfo)) error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != entryExt {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		fn(filepath.Join(s.dir, de.Name()), info)
	}
	return nil
}

func (s *FileStore) check(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, safe+entryExt)
}

func readEntry(path string) (*Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	var e Entry
	if err = json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	return &e, nil
}
