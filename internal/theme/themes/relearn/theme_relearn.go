// Package relearn bundles the version selector for the Relearn theme.
package relearn

import (
	"embed"
	"io/fs"

	"git.home.luguber.info/inful/docversions/internal/theme"
)

//go:embed assets
var assets embed.FS

type Theme struct{}

func (Theme) Name() string { return "relearn" }

func (Theme) Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err) // embedded directory always exists
	}
	return sub
}

func init() { theme.RegisterTheme(Theme{}) }
