package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache is the durable layer: one JSON file per report under dir, each
// carrying its own expiry so stale captures age out between runs.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache builds the disk layer rooted at dir. The directory is
// created lazily on the first write.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

type diskEntry struct {
	Report    []byte    `json:"report"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get reads the entry for key. Unreadable or corrupt files count as
// misses; expired files are removed on the way out.
func (d *DiskCache) Get(key string) ([]byte, bool) {
	path := d.entryPath(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if !entry.ExpiresAt.After(time.Now()) {
		_ = os.Remove(path)
		return nil, false
	}
	return entry.Report, true
}

// Set writes the entry for key. A zero ttl uses the cache default.
func (d *DiskCache) Set(key string, report []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = d.ttl
	}

	raw, err := json.Marshal(diskEntry{
		Report:    report,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(d.entryPath(key), raw, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key. A missing entry is not an error.
func (d *DiskCache) Delete(key string) error {
	err := os.Remove(d.entryPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes the whole cache directory.
func (d *DiskCache) Clear() error {
	return os.RemoveAll(d.dir)
}

func (d *DiskCache) entryPath(key string) string {
	return filepath.Join(d.dir, key+".json")
}
