// Package hooks loads hook modules from disk and dispatches build-lifecycle
// events to the handlers they export.
//
// A hook module is loaded at most once per path for the lifetime of a Cache.
// Handlers are collected into a Registry that is rebuilt on every
// configuration phase; only names from the closed Event vocabulary are
// accepted, so a misspelled hook fails the build instead of being dropped.
package hooks

import (
	"context"
	"sort"
)

// Args are the keyword arguments passed to a handler.
type Args map[string]any

// Handler is a single hook callable.
type Handler func(ctx context.Context, args Args) error

// Export is a named callable exposed by a module.
type Export struct {
	Name    string
	Handler Handler
}

// Module is a loaded hook module.
type Module interface {
	// Path is the canonical absolute path the module was loaded from.
	Path() string

	// Exports lists the module's callables sorted by name.
	Exports() []Export
}

// Loader constructs a Module from a file path, running its top-level code.
type Loader interface {
	Load(path string) (Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (Module, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (Module, error) { return f(path) }

// StaticModule is a Module backed by Go handlers.
type StaticModule struct {
	path    string
	exports []Export
}

// NewStaticModule builds a module from Go handlers keyed by export name.
func NewStaticModule(path string, handlers map[string]Handler) *StaticModule {
	exports := make([]Export, 0, len(handlers))
	for name, h := range handlers {
		exports = append(exports, Export{Name: name, Handler: h})
	}
	sortExports(exports)
	return &StaticModule{path: path, exports: exports}
}

func (m *StaticModule) Path() string { return m.path }

func (m *StaticModule) Exports() []Export {
	out := make([]Export, len(m.exports))
	copy(out, m.exports)
	return out
}

func sortExports(exports []Export) {
	sort.Slice(exports, func(i, j int) bool { return exports[i].Name < exports[j].Name })
}
