package plugin

import (
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docversions/internal/hooks"
	"git.home.luguber.info/inful/docversions/internal/metrics"
)

// Session owns state that outlives a single build, namely the hook module
// cache. A watch loop keeps one Session across rebuilds so hook modules are
// never executed twice; tests create a fresh Session each.
type Session struct {
	ID    string
	cache *hooks.Cache
}

// NewSession creates a session whose modules are built by loader (nil for Lua).
func NewSession(loader hooks.Loader) *Session {
	return &Session{
		ID:    uuid.NewString(),
		cache: hooks.NewCache(loader),
	}
}

// Modules loads every path in order through the session cache, stopping at
// the first failure.
func (s *Session) Modules(paths []string, recorder metrics.Recorder) ([]hooks.Module, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	modules := make([]hooks.Module, 0, len(paths))
	for _, p := range paths {
		before := s.cache.Len()
		m, err := s.cache.Load(p)
		if err != nil {
			recorder.IncHookModuleLoad(metrics.ResultFailed)
			return nil, err
		}
		if s.cache.Len() > before {
			recorder.IncHookModuleLoad(metrics.ResultSuccess)
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// Loaded returns the paths of modules loaded so far.
func (s *Session) Loaded() []string {
	return s.cache.Paths()
}

// Close releases every loaded module.
func (s *Session) Close() error {
	return s.cache.Close()
}
