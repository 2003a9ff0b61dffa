package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"workbox/internal/result"
)

// mkdirs creates nested directories under the workspace root.
func mkdirs(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(r)), 0o755))
	}
}

func newTestNavigator(t *testing.T) (*Navigator, string) {
	t.Helper()
	guard, err := NewGuard(t.TempDir())
	require.NoError(t, err)
	return NewNavigator(guard), guard.Root()
}

func TestNavigatorStartsAtRoot(t *testing.T) {
	nav, root := newTestNavigator(t)
	require.Equal(t, RootPath, nav.CurrentDir())
	require.Equal(t, root, nav.RealCurrentDir())
}

func TestChangeDirectoryToRootSentinels(t *testing.T) {
	nav, root := newTestNavigator(t)
	mkdirs(t, root, "a")
	require.True(t, nav.ChangeDirectory("a").IsOk())

	for _, target := range []string{"/", "", "."} {
		res := nav.ChangeDirectory(target)
		require.True(t, res.IsOk(), "ChangeDirectory(%q)", target)
		require.Equal(t, "Successfully changed directory to root (/)", res.Value())
		require.Equal(t, RootPath, nav.CurrentDir())
	}
}

func TestChangeDirectoryIntoNestedPath(t *testing.T) {
	nav, root := newTestNavigator(t)
	mkdirs(t, root, "a/b")

	res := nav.ChangeDirectory("a/b")
	require.True(t, res.IsOk(), "ChangeDirectory: %s", res)
	require.Equal(t, "Successfully changed directory to a/b", res.Value())
	require.Equal(t, "a/b", nav.CurrentDir())
	require.Equal(t, filepath.Join(root, "a", "b"), nav.RealCurrentDir())
}

func TestChangeDirectoryIsIdempotent(t *testing.T) {
	nav, root := newTestNavigator(t)
	mkdirs(t, root, "a")

	require.True(t, nav.ChangeDirectory("a").IsOk())
	require.True(t, nav.ChangeDirectory("a").IsOk())
	require.Equal(t, "a", nav.CurrentDir())
}

func TestChangeDirectoryRejectsUnqualifiedRelativePath(t *testing.T) {
	nav, root := newTestNavigator(t)
	mkdirs(t, root, "a/b/c")

	require.True(t, nav.ChangeDirectory("a/b").IsOk())

	// "c" exists below a/b but not below the root; the failure names the
	// fully qualified path to try instead.
	res := nav.ChangeDirectory("c")
	require.True(t, res.IsErr())
	require.Equal(t, result.UnqualifiedPath, res.Err().Kind)
	require.Contains(t, res.Err().Message, "a/b/c")
	require.Equal(t, "a/b", nav.CurrentDir(), "a failed change must not move the navigator")

	require.True(t, nav.ChangeDirectory("a/b/c").IsOk())
	require.Equal(t, "a/b/c", nav.CurrentDir())
}

func TestChangeDirectoryToMissingTarget(t *testing.T) {
	nav, _ := newTestNavigator(t)

	res := nav.ChangeDirectory("missing")
	require.True(t, res.IsErr())
	require.Equal(t, result.NotADirectory, res.Err().Kind)
	require.Equal(t, RootPath, nav.CurrentDir())
}

func TestChangeDirectoryToFileTarget(t *testing.T) {
	nav, root := newTestNavigator(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644))

	res := nav.ChangeDirectory("file.txt")
	require.True(t, res.IsErr())
	require.Equal(t, result.NotADirectory, res.Err().Kind)
}

func TestChangeDirectoryCannotEscapeWorkspace(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "ws")
	outside := filepath.Join(parent, "outside")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.Mkdir(outside, 0o755))

	guard, err := NewGuard(root)
	require.NoError(t, err)
	nav := NewNavigator(guard)

	res := nav.ChangeDirectory("../outside")
	require.True(t, res.IsErr())
	require.Equal(t, result.OutsideWorkspace, res.Err().Kind)
	require.Equal(t, "Error: cannot navigate outside workspace", res.Err().Message)
	require.Equal(t, RootPath, nav.CurrentDir())
	require.Equal(t, guard.Root(), nav.RealCurrentDir())
}

func TestChangeDirectoryTraversalFoldingBackInside(t *testing.T) {
	nav, root := newTestNavigator(t)
	mkdirs(t, root, "a", "b")

	res := nav.ChangeDirectory("a/../b")
	require.True(t, res.IsOk(), "ChangeDirectory: %s", res)
	require.Equal(t, "b", nav.CurrentDir())
}

func TestChangeDirectoryRejectsNulByte(t *testing.T) {
	nav, _ := newTestNavigator(t)

	res := nav.ChangeDirectory("a\x00b")
	require.True(t, res.IsErr())
	require.Equal(t, result.InvalidCharacter, res.Err().Kind)
	require.Equal(t, RootPath, nav.CurrentDir())
}

func TestRealCurrentDirMatchesResolve(t *testing.T) {
	nav, root := newTestNavigator(t)
	mkdirs(t, root, "a/b")
	require.True(t, nav.ChangeDirectory("a/b").IsOk())

	resolved := nav.Guard().Resolve(nav.CurrentDir())
	require.True(t, resolved.IsOk())
	require.Equal(t, resolved.Value(), nav.RealCurrentDir())
}
