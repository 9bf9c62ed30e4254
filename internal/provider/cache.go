package provider

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a search response stays fresh.
const DefaultCacheTTL = 168 * time.Hour

func init() {
	// Cached items are stored as interface values and must be known to gob
	// before a previous run's file can be decoded.
	gob.Register([]Candidate{})
}

// Cache keeps search responses between runs. A nil *Cache is valid and caches nothing.
type Cache struct {
	items *cache.Cache
	file  string
}

// NewCache creates a cache persisted at file. An empty file keeps the cache in
// memory only. A missing or unreadable file starts an empty cache.
func NewCache(file string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &Cache{
		items: cache.New(ttl, 10*time.Minute),
		file:  file,
	}
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			_ = c.items.LoadFile(file)
		}
	}
	return c
}

// CacheKey identifies a search on one catalog.
func CacheKey(provider string, q Query) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", provider, q.Kind, strings.ToLower(q.Title), q.Year, q.Language)
}

// Get returns the cached candidates for key.
func (c *Cache) Get(key string) ([]Candidate, bool) {
	if c == nil {
		return nil, false
	}
	v, found := c.items.Get(key)
	if !found {
		return nil, false
	}
	candidates, ok := v.([]Candidate)
	return candidates, ok
}

// Set stores candidates under key with the default expiration.
func (c *Cache) Set(key string, candidates []Candidate) {
	if c == nil {
		return
	}
	c.items.Set(key, candidates, cache.DefaultExpiration)
}

// Len returns the number of cached searches, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.items.ItemCount()
}

// Save persists the cache to disk
func (c *Cache) Save() error {
	if c == nil || c.file == "" {
		return nil
	}
	c.items.DeleteExpired()
	if err := os.MkdirAll(filepath.Dir(c.file), 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := c.items.SaveFile(c.file); err != nil {
		return fmt.Errorf("save lookup cache: %w", err)
	}
	return nil
}
