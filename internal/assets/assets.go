// Package assets handles asset loading and caching.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"
)

//go:embed data
var embedded embed.FS

// ErrNotFound is returned when a named asset does not exist in the source.
var ErrNotFound = errors.New("asset not found")

// Embedded returns the assets compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err) // the directory is part of the binary
	}
	return sub
}

// Manager loads named files from a file system and caches their contents.
type Manager struct {
	fsys  fs.FS
	cache *Cache
	log   *zap.Logger
}

// NewManager creates an asset manager reading from fsys.
func NewManager(fsys fs.FS, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		fsys:  fsys,
		cache: NewCache(),
		log:   log,
	}
}

// Open creates a manager for dir, or for the embedded assets when dir is empty.
func Open(dir string, log *zap.Logger) (*Manager, error) {
	if dir == "" {
		return NewManager(Embedded(), log), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening asset dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening asset dir: %s is not a directory", dir)
	}
	return NewManager(os.DirFS(dir), log), nil
}

// Load returns the contents of the named file.
func (m *Manager) Load(name string) ([]byte, error) {
	// Check cache first
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	m.cache.Set(name, data)
	m.log.Debug("asset loaded", zap.String("name", name), zap.Int("bytes", len(data)))
	return data, nil
}

// Close drops all cached data.
func (m *Manager) Close() {
	hits, misses := m.cache.Stats()
	m.log.Debug("asset cache released", zap.Int("hits", hits), zap.Int("misses", misses))
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
