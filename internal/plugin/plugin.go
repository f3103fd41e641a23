// Package plugin implements the versioned-docs build plugin.
//
// The host calls OnConfig once per build during its configuration phase
// (site URL scoping, hook loading) and OnFiles once per build during file
// collection (version-selector asset injection). RunHook dispatches
// lifecycle events to the loaded hook modules at any point afterwards.
package plugin

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/docversions/internal/config"
	derrors "git.home.luguber.info/inful/docversions/internal/errors"
	"git.home.luguber.info/inful/docversions/internal/files"
	"git.home.luguber.info/inful/docversions/internal/hooks"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/theme"
)

// Phase names used in logs and metrics.
const (
	PhaseConfig = "config"
	PhaseFiles  = "files"
)

// Plugin holds the versioning plugin's per-build state.
type Plugin struct {
	cfg      *config.Config
	session  *Session
	themes   *theme.Registry
	logger   *slog.Logger
	recorder metrics.Recorder
	getenv   func(string) string

	// hooks is swapped by OnConfig and read by RunHook.
	hooks atomic.Pointer[hooks.Registry]
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithSession shares a long-lived session (and its hook cache) with the plugin.
func WithSession(s *Session) Option {
	return func(p *Plugin) { p.session = s }
}

// WithThemes sets the theme registry used to locate selector assets.
func WithThemes(r *theme.Registry) Option {
	return func(p *Plugin) { p.themes = r }
}

// WithLogger sets the plugin logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) { p.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Plugin) { p.recorder = r }
}

// WithEnv replaces os.Getenv for reading the version token.
func WithEnv(getenv func(string) string) Option {
	return func(p *Plugin) { p.getenv = getenv }
}

// New creates a plugin for cfg. Without options it uses a private session,
// the default theme registry, slog.Default and the process environment.
func New(cfg *config.Config, opts ...Option) *Plugin {
	p := &Plugin{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		getenv:   envLookup,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.session == nil {
		p.session = NewSession(hooks.LuaLoader{Logger: p.logger})
	}
	if p.themes == nil {
		p.themes = theme.Default()
	}
	p.hooks.Store(hooks.NewRegistry().WithLogger(p.logger))
	return p
}

// Session returns the session the plugin loads hook modules through.
func (p *Plugin) Session() *Session { return p.session }

// Hooks returns the event registry built by the last OnConfig.
func (p *Plugin) Hooks() *hooks.Registry { return p.hooks.Load() }

// OnConfig runs the configuration phase: it scopes the site URL to the
// version being built, then replaces the event registry with one built from
// the configured hook modules. Any hook failure aborts the phase.
func (p *Plugin) OnConfig(ctx context.Context, b *config.Build) error {
	start := time.Now()
	logger := p.logger.With(logfields.BuildID(b.ID), logfields.Phase(PhaseConfig))

	err := p.onConfig(ctx, b, logger)

	p.recorder.ObservePhaseDuration(PhaseConfig, time.Since(start))
	p.recorder.IncPhaseResult(PhaseConfig, metrics.Result(err))
	if err != nil {
		logger.Error("Configuration phase failed", logfields.Error(err))
	}
	return err
}

func (p *Plugin) onConfig(ctx context.Context, b *config.Build, logger *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if token := p.getenv(config.VersionEnvVar); token != "" && b.SiteURL != "" {
		effective := token
		if cv := p.cfg.Versions.CanonicalVersion; cv != nil {
			effective = *cv
		}
		scoped, err := VersionedSiteURL(b.SiteURL, effective)
		if err != nil {
			return derrors.ValidationFailed("site_url", err.Error())
		}
		logger.Info("Scoped site URL to version",
			logfields.Version(effective),
			logfields.SiteURL(scoped))
		b.SiteURL = scoped
	}

	p.hooks.Store(hooks.NewRegistry().WithLogger(p.logger))

	modules, err := p.session.Modules(p.cfg.HookPaths(), p.recorder)
	if err != nil {
		return err
	}
	reg, err := hooks.BuildRegistry(modules)
	if err != nil {
		return err
	}
	p.hooks.Store(reg.WithLogger(p.logger))

	for _, ev := range reg.Events() {
		logger.Debug("Registered hooks", logfields.Event(ev.String()), logfields.Handlers(reg.Handlers(ev)))
	}
	return nil
}

// RunHook dispatches event to the registered handlers in order. It is a
// no-op when nothing is registered; the first handler error is returned.
func (p *Plugin) RunHook(ctx context.Context, event hooks.Event, args hooks.Args) error {
	start := time.Now()
	err := p.hooks.Load().Run(ctx, event, args)
	p.recorder.ObserveHookRun(event.String(), time.Since(start), metrics.Result(err))
	return err
}

// OnFiles runs the file-collection phase, appending the active theme's
// version-selector assets to m. The manifest is returned unchanged when the
// selector is disabled or the theme ships no assets, and left untouched when
// an asset collides with a user-declared extra asset.
func (p *Plugin) OnFiles(ctx context.Context, m *files.Manifest, b *config.Build) (*files.Manifest, error) {
	start := time.Now()
	logger := p.logger.With(logfields.BuildID(b.ID), logfields.Phase(PhaseFiles))

	injected, err := p.onFiles(ctx, m, b, logger)

	p.recorder.ObservePhaseDuration(PhaseFiles, time.Since(start))
	switch {
	case err != nil:
		p.recorder.IncPhaseResult(PhaseFiles, metrics.ResultFailed)
		logger.Error("File collection phase failed", logfields.Error(err))
		return nil, err
	case injected == nil:
		p.recorder.IncPhaseResult(PhaseFiles, metrics.ResultSkipped)
	default:
		p.recorder.IncPhaseResult(PhaseFiles, metrics.ResultSuccess)
		for kind, n := range injected {
			p.recorder.AddInjectedAssets(string(kind), n)
		}
	}
	return m, nil
}

// onFiles returns the number of injected assets per kind, or nil when the
// phase was skipped.
func (p *Plugin) onFiles(ctx context.Context, m *files.Manifest, b *config.Build, logger *slog.Logger) (map[config.AssetKind]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.cfg.Versions.SelectorEnabled() {
		logger.Debug("Version selector disabled")
		return nil, nil
	}

	root, err := p.themes.Lookup(b.Theme)
	if errors.Is(err, derrors.ErrUnsupportedTheme) {
		logger.Debug("Theme ships no version selector", logfields.Theme(b.Theme))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	plan, err := planAssets(root, p.cfg.Versions, b)
	if err != nil {
		return nil, err
	}

	injected := make(map[config.AssetKind]int)
	for _, a := range plan {
		if err := b.Extras.Reserve(a.kind, a.file.RelDest); err != nil {
			return nil, err
		}
		m.Append(a.file)
		injected[a.kind]++
		logger.Debug("Injected theme asset",
			logfields.Theme(b.Theme),
			logfields.AssetKind(string(a.kind)),
			logfields.Asset(a.file.RelDest))
	}
	return injected, nil
}
