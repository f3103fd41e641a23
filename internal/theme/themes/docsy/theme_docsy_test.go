package docsy

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/theme"
)

func TestAssetsShipSelector(t *testing.T) {
	assets := Theme{}.Assets()
	for _, p := range []string{"css/version-select.css", "js/version-select.js"} {
		data, err := fs.ReadFile(assets, p)
		require.NoError(t, err, p)
		assert.NotEmpty(t, data, p)
	}
}

func TestRegisteredWithDefaultRegistry(t *testing.T) {
	root, err := theme.Default().Lookup("docsy")
	require.NoError(t, err)
	entries, err := fs.ReadDir(root.FS, "js")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
