package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)

	ctx := context.Background()

	// 1. Put a blob
	blobName := "runs/seg-001.mseg"
	data := []byte("hello world, this is a test blob for meanshift")

	require.NoError(t, store.Put(ctx, blobName, data))

	// Verify file exists on disk
	_, err := os.Stat(filepath.Join(tmpDir, "runs", "seg-001.mseg"))
	require.NoError(t, err)

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6) // "world"
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// 3. List
	require.NoError(t, store.Put(ctx, "seg-002.mseg", []byte("x")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, "seg-002.mseg"}, names)

	names, err = store.List(ctx, "runs/")
	require.NoError(t, err)
	require.Equal(t, []string{blobName}, names)

	// 4. Delete
	require.NoError(t, store.Delete(ctx, blobName))
	require.NoError(t, store.Delete(ctx, blobName))

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"seg-002.mseg"}, names)

	_, err = store.Open(ctx, blobName)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBlobStore_Overwrite(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", []byte("first")))
	require.NoError(t, store.Put(ctx, "a", []byte("second!")))

	got, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, "second!", string(got))
}

func TestLocalBlobStore_ReadAt_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "boundary.bin", []byte("0123456789")))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	// Read past end
	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 8)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "89", string(buf[:n]))

	// Offset past EOF
	n, err = blob.ReadAt(ctx, buf, 20)
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, n)

	_, err = blob.ReadAt(ctx, buf, -1)
	require.Error(t, err)
}

func TestLocalBlobStore_InvalidName(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", "/abs"} {
		assert.ErrorIs(t, store.Put(ctx, name, []byte("x")), ErrInvalidName, name)
	}
}

func TestLocalBlobStore_EmptyAndMissingRoot(t *testing.T) {
	ctx := context.Background()

	names, err := NewLocalStore(filepath.Join(t.TempDir(), "missing")).List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "empty", nil))

	got, err := ReadAll(ctx, store, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocalBlobStore_Canceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "a", []byte("x")), context.Canceled)
	_, err := store.Open(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
