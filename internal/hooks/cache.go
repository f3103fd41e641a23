package hooks

import (
	"errors"
	"io"
	"path/filepath"
	"sync"

	derrors "git.home.luguber.info/inful/docversions/internal/errors"
)

// Cache memoizes loaded modules by canonical path. A module's top-level code
// runs on its first Load only; later loads of the same path return the same
// Module. Failed loads are not memoized. There is no eviction.
type Cache struct {
	mu      sync.Mutex
	loader  Loader
	modules map[string]Module
	order   []string
}

// NewCache creates an empty cache. A nil loader defaults to LuaLoader.
func NewCache(loader Loader) *Cache {
	if loader == nil {
		loader = LuaLoader{}
	}
	return &Cache{
		loader:  loader,
		modules: make(map[string]Module),
	}
}

// Key returns the canonical cache key for path.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Load returns the module for path, loading it on first use.
func (c *Cache) Load(path string) (Module, error) {
	key, err := Key(path)
	if err != nil {
		return nil, derrors.ModuleLoadError(path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.modules[key]; ok {
		return m, nil
	}

	m, err := c.loader.Load(key)
	if err != nil {
		if errors.Is(err, derrors.ErrModuleLoad) {
			return nil, err
		}
		return nil, derrors.ModuleLoadError(key, err)
	}
	if m == nil {
		return nil, derrors.ModuleLoadError(key, errors.New("loader returned no module"))
	}

	c.modules[key] = m
	c.order = append(c.order, key)
	return m, nil
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.modules)
}

// Paths returns the cached module paths in load order.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Close releases every cached module that holds resources and empties the cache.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, key := range c.order {
		if closer, ok := c.modules[key].(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	c.modules = make(map[string]Module)
	c.order = nil
	return errors.Join(errs...)
}
