package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	require.False(t, isWorkspaceRoot(dir))

	err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module other-backend\n\ngo 1.22.2\n"), 0600)
	require.NoError(t, err)
	require.False(t, isWorkspaceRoot(dir))

	err = os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module timetable-backend\n\ngo 1.22.2\n"), 0600)
	require.NoError(t, err)
	require.True(t, isWorkspaceRoot(dir))
}

func TestResolvePath(t *testing.T) {
	path, err := ResolvePath("/tmp/dumps")
	require.NoError(t, err)
	require.Equal(t, "/tmp/dumps", path)

	root, err := GetWorkspaceRoot()
	require.NoError(t, err)
	path, err = ResolvePath("<dev_state>/http_dumps")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "http_dumps"), path)
}
