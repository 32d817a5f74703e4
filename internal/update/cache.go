package update

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/hatchkit/hatch/internal/defs"
)

// DefaultTTL bounds how often the network check runs.
const DefaultTTL = 24 * time.Hour

// Entry is one cached check result.
type Entry struct {
	CheckedAt  time.Time `json:"checked_at"`
	CurrentVer string    `json:"current_version"`
	Latest     *Release  `json:"latest,omitempty"`
}

// Cache persists check results between runs.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a Cache. An empty path uses the XDG cache location
// and a non-positive ttl uses DefaultTTL.
func NewCache(path string, ttl time.Duration) *Cache {
	if path == "" {
		if p, err := xdg.CacheFile(filepath.Join("hatch", defs.UpdateCacheJSON)); err == nil {
			path = p
		} else {
			path = filepath.Join(os.TempDir(), defs.UpdateCacheJSON)
		}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{path: path, ttl: ttl}
}

// Get returns the cached entry when it is fresh and was written by the
// same binary version. A missing, stale, corrupt, or foreign-version
// cache returns nil.
func (c *Cache) Get(currentVersion string) *Entry {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil
	}
	if e.CurrentVer != currentVersion {
		return nil
	}
	if time.Since(e.CheckedAt) > c.ttl {
		return nil
	}
	return &e
}

// Set writes the entry, creating the cache directory when needed.
func (c *Cache) Set(e *Entry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
