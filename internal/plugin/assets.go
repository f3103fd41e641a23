package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/docversions/internal/config"
	derrors "git.home.luguber.info/inful/docversions/internal/errors"
	"git.home.luguber.info/inful/docversions/internal/files"
	"git.home.luguber.info/inful/docversions/internal/theme"
)

var envLookup = os.Getenv

// sourceDirs maps each asset kind to its directory inside a theme's asset root.
var sourceDirs = map[config.AssetKind]string{
	config.AssetCSS:        "css",
	config.AssetJavaScript: "js",
}

// SourceDir returns the directory inside a theme asset root holding assets of kind.
func SourceDir(kind config.AssetKind) string { return sourceDirs[kind] }

type plannedAsset struct {
	kind config.AssetKind
	file *files.File
}

// planAssets lists the theme's selector assets with their destinations,
// failing on the first one already claimed in b.Extras. Nothing is reserved.
func planAssets(root theme.AssetRoot, v config.VersionsConfig, b *config.Build) ([]plannedAsset, error) {
	var plan []plannedAsset
	for _, kind := range config.AssetKinds() {
		src := SourceDir(kind)
		entries, err := fs.ReadDir(root.FS, src)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, derrors.AssetReadError(path.Join(root.Dir, src), err)
		}

		dest := v.DirFor(kind)
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			f := &files.File{
				Name:    e.Name(),
				Source:  root.FS,
				SrcDir:  src,
				DestDir: filepath.Join(b.SiteDir, filepath.FromSlash(dest)),
				RelDest: path.Join(config.NormalizeAssetPath(dest), e.Name()),
			}
			if b.Extras.Contains(kind, f.RelDest) {
				return nil, derrors.DuplicateAssetError(config.NormalizeAssetPath(f.RelDest), kind.Option())
			}
			plan = append(plan, plannedAsset{kind: kind, file: f})
		}
	}
	return plan, nil
}
