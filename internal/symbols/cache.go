package symbols

import (
	"fmt"
	"os"
	"time"

	"github.com/maypok86/otter"
)

// DefaultCacheCapacity bounds the number of headers kept in a Cache.
const DefaultCacheCapacity = 4096

type cacheEntry struct {
	size    int64
	modTime time.Time
	symbols *Universe
}

// Cache keeps per-header extraction results between regenerations in watch mode.
// An entry is only reused while the file's size and modification time are unchanged,
// so a cached run produces the same universe as an uncached one.
type Cache struct {
	entries otter.Cache[string, cacheEntry]
}

// NewCache creates a cache holding at most capacity headers.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	entries, err := otter.MustBuilder[string, cacheEntry](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}

	return &Cache{entries: entries}, nil
}

func (c *Cache) lookup(path string, info os.FileInfo) (*Universe, bool) {
	entry, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}
	if entry.size != info.Size() || !entry.modTime.Equal(info.ModTime()) {
		c.entries.Delete(path)
		return nil, false
	}
	return entry.symbols, true
}

func (c *Cache) store(path string, info os.FileInfo, u *Universe) {
	c.entries.Set(path, cacheEntry{
		size:    info.Size(),
		modTime: info.ModTime(),
		symbols: u,
	})
}

// Hits returns how many lookups were served from the cache.
func (c *Cache) Hits() int64 {
	return c.entries.Stats().Hits()
}

// Len returns the number of cached headers.
func (c *Cache) Len() int {
	return c.entries.Size()
}

// Close releases the cache.
func (c *Cache) Close() {
	c.entries.Close()
}
