package hooks

import (
	"context"
	"log/slog"
	"sync"

	derrors "git.home.luguber.info/inful/docversions/internal/errors"
	"git.home.luguber.info/inful/docversions/internal/logfields"
)

type registration struct {
	module  string
	export  string
	handler Handler
}

// Registry maps events to their handlers in registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Event][]registration
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Event][]registration),
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger used for dispatch tracing.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// BuildRegistry collects hook exports from modules, in module order and then
// export-name order. An export carrying the hook prefix for an event outside
// the vocabulary fails the whole build of the registry.
func BuildRegistry(modules []Module) (*Registry, error) {
	r := NewRegistry()
	for _, m := range modules {
		if err := r.Add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers every hook exported by m. Nothing is registered if any
// export is unsupported.
func (r *Registry) Add(m Module) error {
	type entry struct {
		ev  Event
		reg registration
	}
	var pending []entry
	for _, exp := range m.Exports() {
		ev, ok := ParseHookName(exp.Name)
		if !ok {
			continue
		}
		if !ev.IsValid() {
			return derrors.UnsupportedHookError(exp.Name, m.Path())
		}
		pending = append(pending, entry{ev, registration{module: m.Path(), export: exp.Name, handler: exp.Handler}})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pending {
		r.handlers[p.ev] = append(r.handlers[p.ev], p.reg)
	}
	return nil
}

// Run invokes the handlers for event in order. Having no handlers is not an
// error. The first failing handler stops dispatch; its error is returned
// wrapped with the event and module.
func (r *Registry) Run(ctx context.Context, event Event, args Args) error {
	r.mu.RLock()
	regs := append([]registration(nil), r.handlers[event]...)
	r.mu.RUnlock()

	for _, reg := range regs {
		r.logger.Debug("Running hook", logfields.Event(string(event)), logfields.HookPath(reg.module))
		if err := reg.handler(ctx, args); err != nil {
			return derrors.HookFailed(string(event), reg.module, err)
		}
	}
	return nil
}

// Handlers returns the number of handlers registered for event.
func (r *Registry) Handlers(event Event) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[event])
}

// Events lists the events that have at least one handler, in vocabulary order.
func (r *Registry) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for _, ev := range Events() {
		if len(r.handlers[ev]) > 0 {
			out = append(out, ev)
		}
	}
	return out
}
