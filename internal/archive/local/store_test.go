package local

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutWritesFileAndReturnsURI(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)

	uri, err := store.Put(context.Background(), "KCAJAMES3/5min/2021-07-01.html", "text/html", []byte("<html></html>"))
	require.NoError(t, err)

	path := filepath.Join(root, "KCAJAMES3", "5min", "2021-07-01.html")
	require.Equal(t, "file://"+path, uri)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestPutOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "a/b.html", "text/html", []byte("first"))
	require.NoError(t, err)
	uri, err := store.Put(context.Background(), "a/b.html", "text/html", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(uri[len("file://"):])
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestPutRejectsTraversal(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.html", "text/html", []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "escapes archive root")
}

func TestPutRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "  ", "text/html", nil)
	require.Error(t, err)
}

func TestNewCreatesMissingRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nested", "raw")
	_, err := New(root)
	require.NoError(t, err)
	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestNewRejectsFileRoot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "afile")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err := New(path)
	require.Error(t, err)
}
