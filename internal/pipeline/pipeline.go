// Package pipeline is the command-line host for the versioning plugin. It
// stands in for the site generator: it loads configuration, runs the plugin's
// configuration and file-collection phases, and reports what a build would
// produce without rendering anything.
package pipeline

import (
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docversions/internal/config"
	derrors "git.home.luguber.info/inful/docversions/internal/errors"
	"git.home.luguber.info/inful/docversions/internal/files"
	"git.home.luguber.info/inful/docversions/internal/hooks"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/plugin"
	"git.home.luguber.info/inful/docversions/internal/theme"

	// Built-in themes register their selector assets on import.
	_ "git.home.luguber.info/inful/docversions/internal/theme/themes/docsy"
	_ "git.home.luguber.info/inful/docversions/internal/theme/themes/hextra"
	_ "git.home.luguber.info/inful/docversions/internal/theme/themes/relearn"
)

// Pipeline runs plugin phases against loaded configurations. A Pipeline owns
// one plugin session, so repeated runs share the hook module cache.
type Pipeline struct {
	session  *plugin.Session
	logger   *slog.Logger
	recorder metrics.Recorder
	getenv   func(string) string
}

// Option configures pipeline behavior.
type Option func(*Pipeline)

// WithSession reuses an existing plugin session.
func WithSession(s *plugin.Session) Option {
	return func(p *Pipeline) { p.session = s }
}

// WithLogger sets the logger handed to the plugin.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithRecorder sets the metrics recorder handed to the plugin.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithEnv replaces os.Getenv for the version token.
func WithEnv(getenv func(string) string) Option {
	return func(p *Pipeline) { p.getenv = getenv }
}

// NewPipeline creates a pipeline with a fresh session unless one is supplied.
func NewPipeline(options ...Option) *Pipeline {
	p := &Pipeline{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		getenv:   os.Getenv,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.session == nil {
		p.session = plugin.NewSession(hooks.LuaLoader{Logger: p.logger})
	}
	return p
}

// Session returns the plugin session shared by every run.
func (p *Pipeline) Session() *plugin.Session { return p.session }

// Close releases the loaded hook modules.
func (p *Pipeline) Close() error { return p.session.Close() }

// Result is the outcome of a pipeline run.
type Result struct {
	Config   *config.Config
	Build    *config.Build
	Plugin   *plugin.Plugin
	Manifest *files.Manifest
}

// Configure creates the build state and runs only the configuration phase.
// The returned result has no manifest.
func (p *Pipeline) Configure(ctx context.Context, cfg *config.Config) (*Result, error) {
	b, err := cfg.NewBuild()
	if err != nil {
		return nil, err
	}

	plug := plugin.New(cfg,
		plugin.WithSession(p.session),
		plugin.WithThemes(Themes(cfg)),
		plugin.WithLogger(p.logger),
		plugin.WithRecorder(p.recorder),
		plugin.WithEnv(p.getenv),
	)
	if err := plug.OnConfig(ctx, b); err != nil {
		return nil, err
	}
	return &Result{Config: cfg, Build: b, Plugin: plug}, nil
}

// Run executes the configuration phase, collects the docs directory and runs
// the file-collection phase.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	res, err := p.Configure(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m, err := files.Collect(res.Build.DocsDir, res.Build.SiteDir)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryFileSystem, derrors.SeverityFatal, "failed to collect docs").
			WithContext("path", res.Build.DocsDir)
	}
	p.logger.Debug("Collected documentation files",
		logfields.BuildID(res.Build.ID),
		logfields.Path(res.Build.DocsDir),
		slog.Int("files", m.Len()))

	m, err = res.Plugin.OnFiles(ctx, m, res.Build)
	if err != nil {
		return nil, err
	}
	res.Manifest = m
	return res, nil
}

// Themes returns the built-in theme registry extended with the configuration's
// theme_dirs. Entries from theme_dirs replace built-ins of the same name.
func Themes(cfg *config.Config) *theme.Registry {
	r := theme.Default().Clone()
	for name, dir := range cfg.ThemeDirs {
		r.RegisterDir(name, cfg.ResolvePath(dir))
	}
	return r
}
