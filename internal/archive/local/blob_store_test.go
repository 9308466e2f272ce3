package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobStorePutObject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := New(Config{BaseDir: dir})
	require.NoError(t, err)

	uri, err := store.PutObject(context.Background(), "abc/content.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.Join(dir, "abc", "content.txt"), uri)

	data, err := os.ReadFile(filepath.Join(dir, "abc", "content.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestBlobStoreRejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	store, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "../outside.txt", "", []byte("x"))
	require.Error(t, err)

	_, err = store.PutObject(context.Background(), "", "", []byte("x"))
	require.Error(t, err)
}

func TestNewRequiresBaseDir(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}
