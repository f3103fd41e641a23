package config

import (
	"path"
	"strings"

	derrors "git.home.luguber.info/inful/docversions/internal/errors"
)

// AssetKind identifies a class of static asset tracked in extra_* options.
type AssetKind string

const (
	AssetCSS        AssetKind = "css"
	AssetJavaScript AssetKind = "javascript"
)

// AssetKinds returns the asset kinds in processing order.
func AssetKinds() []AssetKind {
	return []AssetKind{AssetCSS, AssetJavaScript}
}

// Option is the configuration option holding user-declared assets of this kind.
func (k AssetKind) Option() string { return "extra_" + string(k) }

// DirOption is the option naming the destination directory for this kind.
func (k AssetKind) DirOption() string { return string(k) + "_dir" }

// NormalizeAssetPath converts p to a clean slash-separated relative path.
// Comparison is case-sensitive on every platform.
func NormalizeAssetPath(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// ExtraAssets is the ledger of asset paths claimed per kind. Both user
// declarations and injected theme assets go through Reserve, so a
// destination can only be claimed once.
type ExtraAssets struct {
	paths map[AssetKind][]string
	taken map[AssetKind]map[string]struct{}
}

// NewExtraAssets creates an empty ledger.
func NewExtraAssets() *ExtraAssets {
	return &ExtraAssets{
		paths: make(map[AssetKind][]string),
		taken: make(map[AssetKind]map[string]struct{}),
	}
}

// Reserve claims p for kind, failing if its normalized form is already taken.
// The path is recorded as given.
func (e *ExtraAssets) Reserve(kind AssetKind, p string) error {
	norm := NormalizeAssetPath(p)
	if e.Contains(kind, norm) {
		return derrors.DuplicateAssetError(norm, kind.Option())
	}
	if e.taken[kind] == nil {
		e.taken[kind] = make(map[string]struct{})
	}
	e.taken[kind][norm] = struct{}{}
	e.paths[kind] = append(e.paths[kind], p)
	return nil
}

// Contains reports whether p is already claimed for kind.
func (e *ExtraAssets) Contains(kind AssetKind, p string) bool {
	_, ok := e.taken[kind][NormalizeAssetPath(p)]
	return ok
}

// Paths returns the claimed paths for kind in reservation order.
func (e *ExtraAssets) Paths(kind AssetKind) []string {
	out := make([]string, len(e.paths[kind]))
	copy(out, e.paths[kind])
	return out
}

// Len returns the number of claimed paths for kind.
func (e *ExtraAssets) Len(kind AssetKind) int {
	return len(e.paths[kind])
}
