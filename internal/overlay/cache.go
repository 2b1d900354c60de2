package overlay

import (
	"sync"

	"github.com/lawnchairsociety/hexforge/internal/city"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/tables"
)

// Cache holds loaded city documents and memoised global table lookups.
// Cities load lazily on first use and again after Invalidate.
type Cache struct {
	load   func() (*city.Directory, error)
	tables *tables.CachingStore

	mu     sync.Mutex
	cities *city.Directory
}

// NewCache creates a cache over a cities directory and a global table
// store. Either may be empty.
func NewCache(citiesDir string, store tables.Store) *Cache {
	return newCache(func() (*city.Directory, error) {
		if citiesDir == "" {
			return city.NewDirectory(), nil
		}
		return city.LoadDir(citiesDir)
	}, store)
}

// NewStaticCache creates a cache over already loaded cities.
func NewStaticCache(store tables.Store, cities ...*city.City) *Cache {
	return newCache(func() (*city.Directory, error) {
		for _, c := range cities {
			if c != nil {
				c.Prepare()
			}
		}
		return city.NewDirectory(cities...), nil
	}, store)
}

func newCache(load func() (*city.Directory, error), store tables.Store) *Cache {
	c := &Cache{load: load}
	if store != nil {
		c.tables = tables.NewCachingStore(store)
	}
	return c
}

// Cities returns the loaded city directory, loading it if needed. Files
// that fail to parse are logged and skipped.
func (c *Cache) Cities() *city.Directory {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cities != nil {
		return c.cities
	}
	dir, err := c.load()
	if err != nil {
		logger.Warning("Some city documents could not be loaded", "error", err)
	}
	if dir == nil {
		dir = city.NewDirectory()
	}
	logger.Info("Loaded city documents", "count", dir.Len())
	c.cities = dir
	return dir
}

// City returns the cached city called name.
func (c *Cache) City(name string) (*city.City, bool) {
	return c.Cities().Get(name)
}

// Tables returns the caching global store, or nil when there is none.
func (c *Cache) Tables() tables.Store {
	if c.tables == nil {
		return nil
	}
	return c.tables
}

// Invalidate drops loaded cities and cached tables. The next call reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cities = nil
	c.mu.Unlock()

	if c.tables != nil {
		c.tables.Invalidate()
	}
	logger.Info("Generation cache invalidated")
}
