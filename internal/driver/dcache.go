package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"spin/internal/diag"
	"spin/internal/source"
)

// Current schema version - increment when CachedFile format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит диагностики проверенных манифестов по CacheKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedFile is the msgpack payload of one cache entry.
type CachedFile struct {
	Schema uint16
	Path   string
	// Spans reference file 0; Get rebinds them to the caller's FileID.
	Diagnostics []diag.Diagnostic
	Dropped     int
	Fatal       bool
	Blocks      int
}

// DefaultCacheDir returns $XDG_CACHE_HOME/app or ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDiskCache creates dir if needed and returns a cache rooted there.
// An empty dir selects DefaultCacheDir("spn").
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir("spn"); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	// Для удобства чистки — подкаталог "checks".
	return filepath.Join(c.dir, "checks", key.String()+".mp")
}

// Put serializes and writes a payload. A nil cache ignores the call.
func (c *DiskCache) Put(key Digest, payload *CachedFile) error {
	if c == nil || payload == nil {
		return nil
	}
	stored := *payload
	stored.Schema = diskCacheSchemaVersion
	stored.Diagnostics = rebind(payload.Diagnostics, 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key into out and rebinds its spans to file.
// Entries with a foreign schema count as misses.
func (c *DiskCache) Get(key Digest, file source.FileID, out *CachedFile) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload CachedFile
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	payload.Diagnostics = rebind(payload.Diagnostics, file)
	*out = payload
	return true, nil
}

// DropAll removes every entry, keeping the cache usable.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, чтобы параллельный Get не увидел полупустой
	checks := filepath.Join(c.dir, "checks")
	old := checks + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(checks, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// rebind returns a copy of ds with every span moved to file.
func rebind(ds []diag.Diagnostic, file source.FileID) []diag.Diagnostic {
	if len(ds) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, len(ds))
	for i, d := range ds {
		d.Primary.File = file
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = file
				notes[j] = n
			}
			d.Notes = notes
		}
		if len(d.Fixes) > 0 {
			fixes := make([]diag.Fix, len(d.Fixes))
			for j, fx := range d.Fixes {
				edits := make([]diag.FixEdit, len(fx.Edits))
				for k, e := range fx.Edits {
					e.Span.File = file
					edits[k] = e
				}
				fx.Edits = edits
				fixes[j] = fx
			}
			d.Fixes = fixes
		}
		out[i] = d
	}
	return out
}
