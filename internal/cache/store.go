package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// markerName is the file an engine-created cache dir carries so a later
// process can tell it apart from a caller-supplied directory.
const markerName = ".refile-cache"

// Store is the on-disk rendition cache. The owned flag records whether the
// engine created the directory; only an owned directory may be destroyed.
type Store struct {
	dir   string
	owned bool
	index *gocache.Cache // key -> rendition path
}

// NewStore opens a cache over dir, creating it if needed. Pass owned=true
// only when the directory belongs to the engine (e.g. a fresh temp dir); a
// caller-supplied directory must never be flagged as owned. An owned dir is
// stamped with a marker file so ownership survives the process.
func NewStore(dir string, owned bool, memoryTTL time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if owned {
		marker := filepath.Join(dir, markerName)
		if err := os.WriteFile(marker, []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), 0o644); err != nil {
			return nil, fmt.Errorf("stamp cache dir: %w", err)
		}
	}
	if memoryTTL <= 0 {
		memoryTTL = 30 * time.Minute
	}
	return &Store{
		dir:   dir,
		owned: owned,
		index: gocache.New(memoryTTL, 10*time.Minute),
	}, nil
}

// OwnedDir reports whether dir carries the ownership marker of an
// engine-created cache directory.
func OwnedDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, markerName))
	return err == nil && !info.IsDir()
}

// NewTempStore creates an engine-owned cache under the system temp dir.
func NewTempStore(memoryTTL time.Duration) (*Store, error) {
	dir, err := os.MkdirTemp("", "refile-cache-")
	if err != nil {
		return nil, fmt.Errorf("create temp cache dir: %w", err)
	}
	return NewStore(dir, true, memoryTTL)
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// Owned reports whether this process created the directory.
func (s *Store) Owned() bool { return s.owned }

// Path returns the rendition path a key maps to, whether or not it exists.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".txt")
}

// Aux returns a sibling path for auxiliary artifacts, e.g. Aux(key, "_ocr.txt")
// for pre-seeded OCR output.
func (s *Store) Aux(key, suffix string) string {
	return filepath.Join(s.dir, key+suffix)
}

// Lookup returns the cached rendition path for key, if one exists on disk.
func (s *Store) Lookup(key string) (string, bool) {
	if v, ok := s.index.Get(key); ok {
		path := v.(string)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		s.index.Delete(key)
	}

	path := s.Path(key)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	s.index.SetDefault(key, path)
	return path, true
}

// Put writes a rendition for key and returns its path.
func (s *Store) Put(key string, data []byte) (string, error) {
	path := s.Path(key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write rendition: %w", err)
	}
	s.index.SetDefault(key, path)
	return path, nil
}

// Remember records a rendition that a producer wrote to path itself (for
// tools that only write into a directory of their choosing).
func (s *Store) Remember(key, path string) {
	s.index.SetDefault(key, path)
}

// Clear deletes the cache directory and everything in it. Caller-supplied
// directories are refused: ownership is an explicit flag, never inferred
// from the directory's name.
func (s *Store) Clear() error {
	if !s.owned {
		return fmt.Errorf("cache dir %s was supplied by the caller, refusing to remove it", s.dir)
	}
	s.index.Flush()
	return os.RemoveAll(s.dir)
}
