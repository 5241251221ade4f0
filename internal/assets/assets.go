// Package assets resolves model paths against a stack of GRF archives.
package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/midgard-robj/pkg/encoding"
	"github.com/Faultbox/midgard-robj/pkg/grf"
)

// ErrNotFound is returned when no archive holds a path.
var ErrNotFound = errors.New("file not found in any archive")

// Archive is a single readable file container.
type Archive interface {
	Contains(path string) bool
	Read(path string) ([]byte, error)
	Close() error
}

// Manager handles file loading from a stack of archives.
type Manager struct {
	archives []Archive
	cache    *Cache
	mu       sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// Open creates a manager holding the GRF archives at paths, in order.
func Open(paths []string) (*Manager, error) {
	m := NewManager()
	for _, path := range paths {
		if err := m.AddArchive(path); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

// AddArchive opens a GRF archive and adds it to the manager.
// Archives are searched in reverse order (last added = highest priority).
func (m *Manager) AddArchive(path string) error {
	archive, err := grf.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	m.Add(archive)
	return nil
}

// Add adds an already opened archive on top of the stack.
func (m *Manager) Add(archive Archive) {
	m.mu.Lock()
	m.archives = append(m.archives, archive)
	m.mu.Unlock()
}

// Len returns the number of archives.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.archives)
}

// Contains reports whether any archive holds path.
func (m *Manager) Contains(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, archive := range m.archives {
		if archive.Contains(path) {
			return true
		}
	}
	return false
}

// Read loads a file from the highest-priority archive holding it.
func (m *Manager) Read(path string) ([]byte, error) {
	key := encoding.NormalizeGRFPath(path)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.archives) - 1; i >= 0; i-- {
		if !m.archives[i].Contains(path) {
			continue
		}
		data, err := m.archives[i].Read(path)
		if err != nil {
			return nil, err
		}
		m.cache.Set(key, data)
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Close closes all archives.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, archive := range m.archives {
		if err := archive.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.archives = nil
	m.cache.Clear()
	return errors.Join(errs...)
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

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
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
