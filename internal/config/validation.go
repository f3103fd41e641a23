package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docversions/internal/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateVersions(); err != nil {
		return err
	}
	if err := cv.validateHooks(); err != nil {
		return err
	}
	if err := cv.validateThemeDirs(); err != nil {
		return err
	}
	return nil
}

func (cv *configurationValidator) validateVersions() error {
	vc := cv.config.Versions
	if !vc.AliasType.IsValid() {
		return derrors.ValidationFailed("versions.alias_type",
			fmt.Sprintf("expected one of symlink, redirect, copy; got %q", vc.AliasType))
	}
	if vc.RedirectTemplate != nil {
		if err := cv.requireFile(*vc.RedirectTemplate); err != nil {
			return derrors.ValidationFailed("versions.redirect_template", err.Error())
		}
	}
	for _, kind := range AssetKinds() {
		field := "versions." + kind.DirOption()
		if err := validateAssetDir(vc.DirFor(kind)); err != nil {
			return derrors.ValidationFailed(field, err.Error())
		}
	}
	return nil
}

func (cv *configurationValidator) validateHooks() error {
	for i, h := range cv.config.Versions.Hooks {
		if strings.TrimSpace(h) == "" {
			return derrors.ValidationFailed(fmt.Sprintf("versions.hooks[%d]", i), "path cannot be empty")
		}
		if err := cv.requireFile(h); err != nil {
			return derrors.ValidationFailed(fmt.Sprintf("versions.hooks[%d]", i), err.Error())
		}
	}
	return nil
}

func (cv *configurationValidator) validateThemeDirs() error {
	for name, dir := range cv.config.ThemeDirs {
		if name == "" {
			return derrors.ValidationFailed("theme_dirs", "theme name cannot be empty")
		}
		info, err := os.Stat(cv.config.ResolvePath(dir))
		if err != nil {
			return derrors.ValidationFailed("theme_dirs."+name, fmt.Sprintf("directory does not exist: %s", dir))
		}
		if !info.IsDir() {
			return derrors.ValidationFailed("theme_dirs."+name, fmt.Sprintf("not a directory: %s", dir))
		}
	}
	return nil
}

// requireFile checks that p, resolved against the config directory, is an existing regular file.
func (cv *configurationValidator) requireFile(p string) error {
	info, err := os.Stat(cv.config.ResolvePath(p))
	if err != nil {
		return fmt.Errorf("the path '%s' does not exist", p)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("the path '%s' is not a file", p)
	}
	return nil
}

// validateAssetDir requires a relative directory that stays inside the site.
func validateAssetDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory name cannot be empty")
	}
	if filepath.IsAbs(dir) || path.IsAbs(NormalizeAssetPath(dir)) {
		return fmt.Errorf("directory must be relative to the site: %s", dir)
	}
	clean := NormalizeAssetPath(dir)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("directory escapes the site: %s", dir)
	}
	return nil
}

// HookPaths returns the configured hook files resolved against the config directory.
func (c *Config) HookPaths() []string {
	out := make([]string, 0, len(c.Versions.Hooks))
	for _, h := range c.Versions.Hooks {
		out = append(out, c.ResolvePath(h))
	}
	return out
}
