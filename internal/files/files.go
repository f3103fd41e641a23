// Package files models the build's output file manifest.
package files

import (
	"io/fs"
	"path"
	"path/filepath"
)

// File describes one file to be written to the site.
type File struct {
	// Name is the file's path relative to SrcDir inside Source.
	Name string
	// Source is the filesystem the file is read from.
	Source fs.FS
	// SrcDir is the directory inside Source holding the file.
	SrcDir string
	// DestDir is the absolute output directory.
	DestDir string
	// RelDest is the site-relative destination path, slash separated.
	RelDest string
}

// SrcPath is the file's path inside Source.
func (f *File) SrcPath() string {
	return path.Join(f.SrcDir, f.Name)
}

// AbsDestPath is the file's absolute output path.
func (f *File) AbsDestPath() string {
	return filepath.Join(f.DestDir, filepath.FromSlash(f.Name))
}

// Open opens the source file for reading.
func (f *File) Open() (fs.File, error) {
	return f.Source.Open(f.SrcPath())
}

// Manifest is the ordered set of files a build will write.
type Manifest struct {
	files []*File
}

// NewManifest creates a manifest holding files.
func NewManifest(files ...*File) *Manifest {
	return &Manifest{files: append([]*File(nil), files...)}
}

// Append adds f to the end of the manifest.
func (m *Manifest) Append(f *File) {
	m.files = append(m.files, f)
}

// Files returns the manifest entries in order.
func (m *Manifest) Files() []*File {
	return append([]*File(nil), m.files...)
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.files)
}

// Lookup returns the first entry with the given site-relative destination.
func (m *Manifest) Lookup(relDest string) (*File, bool) {
	for _, f := range m.files {
		if f.RelDest == relDest {
			return f, true
		}
	}
	return nil, false
}
