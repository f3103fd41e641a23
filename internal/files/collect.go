package files

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Collect builds a manifest from every regular file under docsDir, mirrored
// into siteDir. Hidden files and directories are skipped. A missing docsDir
// yields an empty manifest.
func Collect(docsDir, siteDir string) (*Manifest, error) {
	m := NewManifest()
	if _, err := os.Stat(docsDir); errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}

	root := os.DirFS(docsDir)
	err := fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		dir := path.Dir(p)
		m.Append(&File{
			Name:    d.Name(),
			Source:  root,
			SrcDir:  dir,
			DestDir: filepath.Join(siteDir, filepath.FromSlash(dir)),
			RelDest: p,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
