// Package theme maps theme names to the directory of version-selector
// assets each theme ships.
package theme

import (
	"io/fs"
	"os"
	"sort"
	"sync"

	derrors "git.home.luguber.info/inful/docversions/internal/errors"
)

// Theme is a theme with bundled version-selector assets.
type Theme interface {
	Name() string
	// Assets returns the asset root holding css/ and js/ directories.
	Assets() fs.FS
}

// AssetRoot is the located asset directory of a theme.
type AssetRoot struct {
	Theme string
	FS    fs.FS
	// Dir is a human-readable location (on-disk path or embed marker).
	Dir string
}

// Registry resolves theme names to asset roots.
type Registry struct {
	mu    sync.RWMutex
	roots map[string]AssetRoot
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{roots: make(map[string]AssetRoot)}
}

// Register sets the asset root for name, replacing any previous entry.
func (r *Registry) Register(name string, root fs.FS, dir string) {
	if name == "" || root == nil {
		return
	}
	r.mu.Lock()
	r.roots[name] = AssetRoot{Theme: name, FS: root, Dir: dir}
	r.mu.Unlock()
}

// RegisterDir registers an on-disk asset root.
func (r *Registry) RegisterDir(name, dir string) {
	r.Register(name, os.DirFS(dir), dir)
}

// Lookup returns the asset root for name. Unknown names fail with an
// error matching errors.ErrUnsupportedTheme.
func (r *Registry) Lookup(name string) (AssetRoot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.roots[name]
	if !ok {
		return AssetRoot{}, derrors.UnsupportedTheme(name)
	}
	return root, nil
}

// Names lists the registered theme names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.roots))
	for n := range r.roots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for n, root := range r.roots {
		c.roots[n] = root
	}
	return c
}

var defaultRegistry = NewRegistry()

// Default returns the registry built-in themes register into.
func Default() *Registry { return defaultRegistry }

// RegisterTheme registers a built-in theme with the default registry (idempotent).
func RegisterTheme(t Theme) {
	if t == nil {
		return
	}
	if _, err := defaultRegistry.Lookup(t.Name()); err == nil {
		return
	}
	defaultRegistry.Register(t.Name(), t.Assets(), "builtin:"+t.Name())
}
