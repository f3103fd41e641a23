package config

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Build is the mutable per-build state handed to the versioning plugin.
type Build struct {
	ID       string
	SiteName string
	SiteURL  string
	Theme    string
	SiteDir  string
	DocsDir  string
	Extras   *ExtraAssets
}

// NewBuild creates fresh build state from the configuration, reserving the
// user-declared extra assets. A path declared twice for the same kind is an error.
func (c *Config) NewBuild() (*Build, error) {
	b := &Build{
		ID:       uuid.NewString(),
		SiteName: c.SiteName,
		SiteURL:  c.SiteURL,
		Theme:    c.Theme,
		SiteDir:  absOrSelf(c.ResolvePath(c.SiteDir)),
		DocsDir:  absOrSelf(c.ResolvePath(c.DocsDir)),
		Extras:   NewExtraAssets(),
	}
	for _, p := range c.ExtraCSS {
		if err := b.Extras.Reserve(AssetCSS, p); err != nil {
			return nil, err
		}
	}
	for _, p := range c.ExtraJavaScript {
		if err := b.Extras.Reserve(AssetJavaScript, p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func absOrSelf(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
