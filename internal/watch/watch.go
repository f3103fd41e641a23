// Package watch reruns the build pipeline when its inputs change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docversions/internal/config"
	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/pipeline"
)

// DefaultDebounce is the quiet period before a burst of changes triggers a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc receives the outcome of every build, including the initial one.
type BuildFunc func(res *pipeline.Result, err error)

// Watcher monitors the configuration file, the configured hook files and the
// docs directory, and reruns the pipeline after changes settle. Every rebuild
// goes through the same pipeline, so hook modules are loaded once per Watcher.
type Watcher struct {
	configPath string
	pipeline   *pipeline.Pipeline
	watcher    *fsnotify.Watcher
	debounce   time.Duration
	logger     *slog.Logger
	onBuild    BuildFunc

	// Current watch targets, refreshed after every configuration load.
	hookFiles map[string]struct{}
	docsDir   string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before rebuilding.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// OnBuild registers a callback invoked after each build.
func OnBuild(fn BuildFunc) Option {
	return func(w *Watcher) { w.onBuild = fn }
}

// New creates a watcher for the configuration at configPath.
func New(configPath string, p *pipeline.Pipeline, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		configPath: absPath,
		pipeline:   p,
		watcher:    fsw,
		debounce:   DefaultDebounce,
		logger:     slog.Default(),
		hookFiles:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Watch the directory containing the config file; editors often replace
	// the file rather than writing it in place.
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory %s: %w", filepath.Dir(absPath), err)
	}
	return w, nil
}

// Run builds once, then rebuilds after every relevant change until ctx is
// done. Build failures are reported and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	w.logger.Info("Starting watcher", logfields.Path(w.configPath))
	w.rebuild(ctx)

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, trigger)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-rebuildReq:
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()

	cfg, err := config.Load(w.configPath)
	var res *pipeline.Result
	if err == nil {
		w.refreshTargets(cfg)
		res, err = w.pipeline.Run(ctx, cfg)
	}

	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		w.logger.Warn("Build failed", logfields.Error(err), logfields.DurationMS(elapsed))
	} else {
		w.logger.Info("Build complete",
			logfields.BuildID(res.Build.ID),
			logfields.SiteURL(res.Build.SiteURL),
			slog.Int("files", res.Manifest.Len()),
			logfields.DurationMS(elapsed))
	}
	if w.onBuild != nil {
		w.onBuild(res, err)
	}
}

// refreshTargets registers the hook file directories and the docs tree.
// Targets from earlier configurations stay registered with fsnotify but no
// longer pass the relevance filter.
func (w *Watcher) refreshTargets(cfg *config.Config) {
	w.hookFiles = make(map[string]struct{})
	for _, h := range cfg.HookPaths() {
		abs, err := filepath.Abs(h)
		if err != nil {
			continue
		}
		w.hookFiles[abs] = struct{}{}
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(filepath.Dir(abs)), logfields.Error(err))
		}
	}

	docs, err := filepath.Abs(cfg.ResolvePath(cfg.DocsDir))
	if err != nil {
		return
	}
	w.docsDir = docs
	if _, err := os.Stat(docs); err == nil {
		w.addDirsRecursive(docs)
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, trigger func()) {
	name := filepath.Clean(ev.Name)
	if !w.relevant(name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(name); err == nil && fi.IsDir() {
			w.addDirsRecursive(name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(name), slog.String("op", ev.Op.String()))
	trigger()
}

// relevant reports whether a change to name should cause a rebuild.
func (w *Watcher) relevant(name string) bool {
	if name == w.configPath {
		return true
	}
	if _, ok := w.hookFiles[name]; ok {
		return true
	}
	if shouldIgnore(name) || w.docsDir == "" {
		return false
	}
	return name == w.docsDir || strings.HasPrefix(name, w.docsDir+string(filepath.Separator))
}

func (w *Watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnore filters editor and hidden files out of the docs tree.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}

// newDebouncer returns a channel that receives once per burst of trigger
// calls, after d has passed without another call.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}
