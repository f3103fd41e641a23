package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeHook writes a Lua hook module into dir and returns its path.
func writeHook(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
	return p
}

func countingLoader(calls map[string]int, handlers map[string]Handler) LoaderFunc {
	return func(path string) (Module, error) {
		calls[path]++
		return NewStaticModule(path, handlers), nil
	}
}
