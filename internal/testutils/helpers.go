package testutils

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SetupDataDir creates a temporary data directory holding files (relative path -> content).
// It returns the absolute path to the temp dir.
// It fails the test immediately on error.
func SetupDataDir(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	fsys := afero.NewBasePathFs(afero.NewOsFs(), absPath)
	for name, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644), "Failed to write %s", name)
	}
	return absPath
}
