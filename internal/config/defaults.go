package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles top-level site defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.SiteName == "" {
		cfg.SiteName = "Documentation Site"
	}
	if cfg.SiteDir == "" {
		cfg.SiteDir = "site"
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = "docs"
	}
	// Default theme to Hextra if not specified
	if cfg.Theme == "" {
		cfg.Theme = "hextra"
	}
	return nil
}

// VersionsDefaultApplier handles versioned-docs option defaults.
type VersionsDefaultApplier struct{}

func (v *VersionsDefaultApplier) Domain() string { return "versions" }

func (v *VersionsDefaultApplier) ApplyDefaults(cfg *Config) error {
	vc := &cfg.Versions
	if vc.AliasType == "" {
		vc.AliasType = AliasSymlink
	}
	if vc.VersionSelector == nil {
		enabled := true
		vc.VersionSelector = &enabled
	}
	if vc.CSSDir == "" {
		vc.CSSDir = "css"
	}
	if vc.JavaScriptDir == "" {
		vc.JavaScriptDir = "js"
	}
	return nil
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		&SiteDefaultApplier{},
		&VersionsDefaultApplier{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
