package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/config"
	derrors "git.home.luguber.info/inful/docversions/internal/errors"
	"git.home.luguber.info/inful/docversions/internal/files"
	"git.home.luguber.info/inful/docversions/internal/hooks"
	"git.home.luguber.info/inful/docversions/internal/metrics"
	"git.home.luguber.info/inful/docversions/internal/theme"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func ptr[T any](v T) *T { return &v }

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SiteURL: "https://example.com/docs/",
		Theme:   "testtheme",
		Dir:     t.TempDir(),
		Versions: config.VersionsConfig{
			AliasType:     config.AliasSymlink,
			CSSDir:        "css",
			JavaScriptDir: "js",
		},
	}
}

func newBuild(t *testing.T, cfg *config.Config) *config.Build {
	t.Helper()
	cfg.SiteDir = "site"
	cfg.DocsDir = "docs"
	b, err := cfg.NewBuild()
	require.NoError(t, err)
	return b
}

func testThemes() *theme.Registry {
	r := theme.NewRegistry()
	r.Register("testtheme", fstest.MapFS{
		"css/version-select.css": {Data: []byte(".v{}")},
		"js/version-select.js":   {Data: []byte("//")},
		"js/vendor/ignored.js":   {Data: []byte("//")},
		"fonts/unrelated.woff2":  {Data: []byte{0}},
	}, "test")
	r.Register("cssonly", fstest.MapFS{
		"css/version-select.css": {Data: []byte(".v{}")},
	}, "test")
	return r
}

type recordingRecorder struct {
	metrics.NoopRecorder
	phases   map[string]metrics.ResultLabel
	loads    []metrics.ResultLabel
	hookRuns []string
	injected map[string]int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{phases: map[string]metrics.ResultLabel{}, injected: map[string]int{}}
}

func (r *recordingRecorder) IncPhaseResult(phase string, result metrics.ResultLabel) {
	r.phases[phase] = result
}
func (r *recordingRecorder) IncHookModuleLoad(result metrics.ResultLabel) {
	r.loads = append(r.loads, result)
}
func (r *recordingRecorder) ObserveHookRun(event string, _ time.Duration, result metrics.ResultLabel) {
	r.hookRuns = append(r.hookRuns, event+":"+string(result))
}
func (r *recordingRecorder) AddInjectedAssets(kind string, n int) { r.injected[kind] += n }

func writeHook(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
	return p
}

func TestOnConfigSiteURL(t *testing.T) {
	tests := []struct {
		name      string
		siteURL   string
		version   string
		canonical *string
		want      string
	}{
		{"no version leaves url", "https://example.com/docs/", "", nil, "https://example.com/docs/"},
		{"version appended", "https://example.com/docs/", "2.0", nil, "https://example.com/docs/2.0"},
		{"base without trailing slash replaces last segment", "https://example.com/docs", "2.0", nil, "https://example.com/2.0"},
		{"canonical version wins", "https://example.com/docs/", "2.0", ptr("latest"), "https://example.com/docs/latest"},
		{"canonical ignored without version", "https://example.com/docs/", "", ptr("latest"), "https://example.com/docs/"},
		{"empty site url untouched", "", "2.0", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t)
			cfg.SiteURL = tt.siteURL
			cfg.Versions.CanonicalVersion = tt.canonical
			b := newBuild(t, cfg)

			p := New(cfg, WithThemes(testThemes()), WithEnv(env(map[string]string{config.VersionEnvVar: tt.version})))
			require.NoError(t, p.OnConfig(t.Context(), b))
			assert.Equal(t, tt.want, b.SiteURL)
		})
	}
}

func TestVersionedSiteURL(t *testing.T) {
	got, err := VersionedSiteURL("https://example.com/", "v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v1.2.3", got)

	_, err = VersionedSiteURL("http://[::1", "1.0")
	assert.Error(t, err)
}

func TestVersionedSiteURLEscapesVersion(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"my version", "https://example.com/docs/my%20version"},
		{"1.0?x", "https://example.com/docs/1.0%3Fx"},
		{"release/2.0", "https://example.com/docs/release/2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := VersionedSiteURL("https://example.com/docs/", tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOnConfigLoadsHookModuleOncePerSession(t *testing.T) {
	calls := map[string]int{}
	ran := 0
	loader := hooks.LoaderFunc(func(path string) (hooks.Module, error) {
		calls[path]++
		return hooks.NewStaticModule(path, map[string]hooks.Handler{
			"on_pre_commit": func(context.Context, hooks.Args) error { ran++; return nil },
		}), nil
	})

	cfg := newConfig(t)
	hookPath := writeHook(t, cfg.Dir, "hooks.lua", "")
	cfg.Versions.Hooks = []string{"hooks.lua", hookPath}

	rec := newRecordingRecorder()
	session := NewSession(loader)
	for i := 0; i < 2; i++ {
		p := New(cfg, WithSession(session), WithThemes(testThemes()), WithRecorder(rec), WithEnv(env(nil)))
		require.NoError(t, p.OnConfig(t.Context(), newBuild(t, cfg)))
		assert.Equal(t, 2, p.Hooks().Handlers(hooks.EventPreCommit))
		require.NoError(t, p.RunHook(t.Context(), hooks.EventPreCommit, nil))
	}

	assert.Equal(t, map[string]int{hookPath: 1}, calls)
	assert.Equal(t, []string{hookPath}, session.Loaded())
	assert.Equal(t, []metrics.ResultLabel{metrics.ResultSuccess}, rec.loads)
	assert.Equal(t, 4, ran)
}

func TestOnConfigRebuildsRegistry(t *testing.T) {
	cfg := newConfig(t)
	writeHook(t, cfg.Dir, "hooks.lua", `function on_pre_commit(args) end`)
	cfg.Versions.Hooks = []string{"hooks.lua"}

	p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
	t.Cleanup(func() { _ = p.Session().Close() })
	b := newBuild(t, cfg)
	require.NoError(t, p.OnConfig(t.Context(), b))
	require.NoError(t, p.OnConfig(t.Context(), b))
	assert.Equal(t, 1, p.Hooks().Handlers(hooks.EventPreCommit))
}

func TestOnConfigRejectsUnsupportedHook(t *testing.T) {
	cfg := newConfig(t)
	writeHook(t, cfg.Dir, "deploy.lua", `function on_pre_commit(args) end
function on_post_deploy(args) end`)
	cfg.Versions.Hooks = []string{"deploy.lua"}

	rec := newRecordingRecorder()
	p := New(cfg, WithThemes(testThemes()), WithRecorder(rec), WithEnv(env(nil)))
	t.Cleanup(func() { _ = p.Session().Close() })

	err := p.OnConfig(t.Context(), newBuild(t, cfg))
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrUnsupportedHook))
	assert.Contains(t, err.Error(), "hook not supported: on_post_deploy in ")
	assert.Equal(t, 0, p.Hooks().Handlers(hooks.EventPreCommit))
	assert.Equal(t, metrics.ResultFailed, rec.phases[PhaseConfig])
}

func TestOnConfigModuleLoadFailure(t *testing.T) {
	cfg := newConfig(t)
	writeHook(t, cfg.Dir, "broken.lua", `this is not lua`)
	cfg.Versions.Hooks = []string{"broken.lua"}

	p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
	err := p.OnConfig(t.Context(), newBuild(t, cfg))
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrModuleLoad))
	assert.Empty(t, p.Session().Loaded())
}

func TestRunHook(t *testing.T) {
	cfg := newConfig(t)
	marker := filepath.Join(cfg.Dir, "marker")
	writeHook(t, cfg.Dir, "hooks.lua", fmt.Sprintf(`
function on_pre_commit(args)
  local f = io.open(%q, "w")
  f:write(args.version)
  f:close()
end`, marker))
	cfg.Versions.Hooks = []string{"hooks.lua"}

	rec := newRecordingRecorder()
	p := New(cfg, WithThemes(testThemes()), WithRecorder(rec), WithEnv(env(nil)))
	t.Cleanup(func() { _ = p.Session().Close() })
	require.NoError(t, p.OnConfig(t.Context(), newBuild(t, cfg)))

	require.NoError(t, p.RunHook(t.Context(), hooks.EventPreCommit, hooks.Args{"version": "2.0"}))
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "2.0", string(data))
	assert.Equal(t, []string{"pre_commit:success"}, rec.hookRuns)
}

func TestRunHookDuringReconfigure(t *testing.T) {
	var ran atomic.Int32
	session := NewSession(hooks.LoaderFunc(func(path string) (hooks.Module, error) {
		return hooks.NewStaticModule(path, map[string]hooks.Handler{
			"on_pre_commit": func(context.Context, hooks.Args) error { ran.Add(1); return nil },
		}), nil
	}))

	cfg := newConfig(t)
	writeHook(t, cfg.Dir, "hooks.lua", "")
	cfg.Versions.Hooks = []string{"hooks.lua"}
	b := newBuild(t, cfg)

	p := New(cfg, WithSession(session), WithThemes(testThemes()), WithEnv(env(nil)))
	require.NoError(t, p.OnConfig(t.Context(), b))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			assert.NoError(t, p.OnConfig(t.Context(), b))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			assert.NoError(t, p.RunHook(t.Context(), hooks.EventPreCommit, nil))
		}
	}()
	wg.Wait()

	assert.Equal(t, 1, p.Hooks().Handlers(hooks.EventPreCommit))
	assert.LessOrEqual(t, ran.Load(), int32(50))
}

func TestRunHookWithoutHandlersIsNoop(t *testing.T) {
	p := New(newConfig(t), WithThemes(testThemes()), WithEnv(env(nil)))
	assert.NoError(t, p.RunHook(t.Context(), hooks.EventPreCommit, hooks.Args{"a": 1}))
}

func TestRunHookPropagatesFailure(t *testing.T) {
	cfg := newConfig(t)
	writeHook(t, cfg.Dir, "fail.lua", `return { on_pre_commit = function(args) error("tests failed") end }`)
	cfg.Versions.Hooks = []string{"fail.lua"}

	p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
	t.Cleanup(func() { _ = p.Session().Close() })
	require.NoError(t, p.OnConfig(t.Context(), newBuild(t, cfg)))

	err := p.RunHook(t.Context(), hooks.EventPreCommit, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrHookFailed))
	assert.Contains(t, err.Error(), "tests failed")
}

func TestOnFilesInjectsThemeAssets(t *testing.T) {
	cfg := newConfig(t)
	cfg.ExtraCSS = []string{"css/custom.css"}
	b := newBuild(t, cfg)
	page := &files.File{Name: "index.md", RelDest: "index.html"}
	m := files.NewManifest(page)

	rec := newRecordingRecorder()
	p := New(cfg, WithThemes(testThemes()), WithRecorder(rec), WithEnv(env(nil)))
	out, err := p.OnFiles(t.Context(), m, b)
	require.NoError(t, err)
	assert.Same(t, m, out)

	require.Equal(t, 3, out.Len())
	css, ok := out.Lookup("css/version-select.css")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(b.SiteDir, "css", "version-select.css"), css.AbsDestPath())
	rc, err := css.Open()
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, ok = out.Lookup("js/version-select.js")
	assert.True(t, ok)
	_, ok = out.Lookup("js/vendor/ignored.js")
	assert.False(t, ok)

	assert.Equal(t, []string{"css/custom.css", "css/version-select.css"}, b.Extras.Paths(config.AssetCSS))
	assert.Equal(t, []string{"js/version-select.js"}, b.Extras.Paths(config.AssetJavaScript))
	assert.Equal(t, map[string]int{"css": 1, "javascript": 1}, rec.injected)
	assert.Equal(t, metrics.ResultSuccess, rec.phases[PhaseFiles])
}

func TestOnFilesCustomDestinationDirs(t *testing.T) {
	cfg := newConfig(t)
	cfg.Versions.CSSDir = "assets/styles/"
	cfg.Versions.JavaScriptDir = `assets\scripts`
	b := newBuild(t, cfg)

	p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
	m, err := p.OnFiles(t.Context(), files.NewManifest(), b)
	require.NoError(t, err)

	_, ok := m.Lookup("assets/styles/version-select.css")
	assert.True(t, ok)
	_, ok = m.Lookup("assets/scripts/version-select.js")
	assert.True(t, ok)
}

func TestOnFilesSkippedLeavesBuildUntouched(t *testing.T) {
	tests := []struct {
		name  string
		setup func(cfg *config.Config)
	}{
		{"selector disabled", func(cfg *config.Config) { cfg.Versions.VersionSelector = ptr(false) }},
		{"unsupported theme", func(cfg *config.Config) { cfg.Theme = "material" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t)
			cfg.ExtraCSS = []string{"css/custom.css", "css/version-select.css"}
			cfg.ExtraJavaScript = []string{"js/version-select.js"}
			tt.setup(cfg)
			b := newBuild(t, cfg)
			rec := newRecordingRecorder()

			page := &files.File{Name: "index.md", SrcDir: "docs", RelDest: "index.md"}
			m := files.NewManifest(page)
			filesBefore := m.Files()
			cssBefore := b.Extras.Paths(config.AssetCSS)
			jsBefore := b.Extras.Paths(config.AssetJavaScript)

			p := New(cfg, WithThemes(testThemes()), WithRecorder(rec), WithEnv(env(nil)))
			out, err := p.OnFiles(t.Context(), m, b)
			require.NoError(t, err)

			assert.Same(t, m, out)
			assert.Equal(t, filesBefore, out.Files())
			assert.Equal(t, cssBefore, b.Extras.Paths(config.AssetCSS))
			assert.Equal(t, jsBefore, b.Extras.Paths(config.AssetJavaScript))
			assert.Equal(t, metrics.ResultSkipped, rec.phases[PhaseFiles])
			assert.Empty(t, rec.injected)
		})
	}
}

func TestOnFilesSkipped(t *testing.T) {

	t.Run("theme without kind dir", func(t *testing.T) {
		cfg := newConfig(t)
		cfg.Theme = "cssonly"
		b := newBuild(t, cfg)

		p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
		m, err := p.OnFiles(t.Context(), files.NewManifest(), b)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, 0, b.Extras.Len(config.AssetJavaScript))
	})
}

func TestOnFilesDuplicateAsset(t *testing.T) {
	tests := []struct {
		name     string
		css      []string
		js       []string
		wantPath string
		option   string
	}{
		{"css exact", []string{"css/version-select.css"}, nil, "css/version-select.css", "extra_css"},
		{"css unnormalized", []string{`css\version-select.css`}, nil, "css/version-select.css", "extra_css"},
		{"javascript", nil, []string{"./js/version-select.js"}, "js/version-select.js", "extra_javascript"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t)
			cfg.ExtraCSS = tt.css
			cfg.ExtraJavaScript = tt.js
			b := newBuild(t, cfg)
			m := files.NewManifest()
			cssBefore := b.Extras.Paths(config.AssetCSS)

			p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
			out, err := p.OnFiles(t.Context(), m, b)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, derrors.ErrDuplicateAsset))
			assert.Contains(t, err.Error(), fmt.Sprintf("%q is already included in %q", tt.wantPath, tt.option))

			assert.Equal(t, 0, m.Len())
			assert.Equal(t, cssBefore, b.Extras.Paths(config.AssetCSS))
		})
	}
}

func TestOnFilesCaseSensitive(t *testing.T) {
	cfg := newConfig(t)
	cfg.ExtraCSS = []string{"CSS/Version-Select.css"}
	b := newBuild(t, cfg)

	p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
	m, err := p.OnFiles(t.Context(), files.NewManifest(), b)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}

func TestOnFilesCanceledContext(t *testing.T) {
	cfg := newConfig(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	p := New(cfg, WithThemes(testThemes()), WithEnv(env(nil)))
	_, err := p.OnFiles(ctx, files.NewManifest(), newBuild(t, cfg))
	assert.ErrorIs(t, err, context.Canceled)
}
