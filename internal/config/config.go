package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docversions/internal/errors"
)

// Config represents a documentation project's build configuration.
type Config struct {
	SiteName        string            `yaml:"site_name"`
	SiteURL         string            `yaml:"site_url,omitempty"`
	SiteDir         string            `yaml:"site_dir,omitempty"`
	DocsDir         string            `yaml:"docs_dir,omitempty"`
	Theme           string            `yaml:"theme,omitempty"`
	ThemeDirs       map[string]string `yaml:"theme_dirs,omitempty"` // theme name -> asset root
	ExtraCSS        []string          `yaml:"extra_css,omitempty"`
	ExtraJavaScript []string          `yaml:"extra_javascript,omitempty"`
	Versions        VersionsConfig    `yaml:"versions"`

	// Dir is the directory relative paths are resolved against (the config file's directory).
	Dir string `yaml:"-"`
}

// VersionsConfig holds the versioned-docs options.
type VersionsConfig struct {
	AliasType        AliasType `yaml:"alias_type,omitempty"`        // consumed by deploy tooling
	RedirectTemplate *string   `yaml:"redirect_template,omitempty"` // consumed by deploy tooling
	DeployPrefix     string    `yaml:"deploy_prefix,omitempty"`     // consumed by deploy tooling
	VersionSelector  *bool     `yaml:"version_selector,omitempty"`
	CanonicalVersion *string   `yaml:"canonical_version,omitempty"`
	CSSDir           string    `yaml:"css_dir,omitempty"`
	JavaScriptDir    string    `yaml:"javascript_dir,omitempty"`
	Hooks            []string  `yaml:"hooks,omitempty"`
}

// AliasType selects how deploy tooling materializes version aliases.
type AliasType string

const (
	AliasSymlink  AliasType = "symlink"
	AliasRedirect AliasType = "redirect"
	AliasCopy     AliasType = "copy"
)

// IsValid returns true if the alias type is recognized.
func (a AliasType) IsValid() bool {
	switch a {
	case AliasSymlink, AliasRedirect, AliasCopy:
		return true
	default:
		return false
	}
}

// SelectorEnabled reports whether version-selector assets should be injected.
func (v VersionsConfig) SelectorEnabled() bool {
	return v.VersionSelector == nil || *v.VersionSelector
}

// DirFor returns the configured destination directory for an asset kind.
func (v VersionsConfig) DirFor(kind AssetKind) string {
	switch kind {
	case AssetCSS:
		return v.CSSDir
	case AssetJavaScript:
		return v.JavaScriptDir
	default:
		return ""
	}
}

// Load reads, defaults, and validates the configuration file at configPath.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	dir := filepath.Dir(absPath)

	if err := loadEnvFile(dir); err != nil {
		slog.Debug("No .env file loaded", "dir", dir, "error", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigNotFound(configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, dir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration data, expanding ${VAR} references first,
// then applies defaults and validates. Relative paths resolve against dir.
func Parse(data []byte, dir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to unmarshal config")
	}
	cfg.Dir = dir

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePath resolves p against the configuration directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	selector := true
	exampleConfig := Config{
		SiteName:        "My Documentation Site",
		SiteURL:         "https://example.com/docs/",
		SiteDir:         "site",
		DocsDir:         "docs",
		Theme:           "hextra",
		ExtraCSS:        []string{"css/custom.css"},
		ExtraJavaScript: []string{},
		Versions: VersionsConfig{
			AliasType:       AliasSymlink,
			VersionSelector: &selector,
			CSSDir:          "css",
			JavaScriptDir:   "js",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
