package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/meanshift/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	store, err := New(Config{Endpoint: "localhost:9000", Bucket: "b", Prefix: "runs/"})
	require.NoError(t, err)

	assert.Equal(t, "runs/a.mseg", store.key("a.mseg"))
	assert.Equal(t, "runs", store.key(""))
	assert.Equal(t, "a.mseg", store.name("runs/a.mseg"))
	assert.Equal(t, "", store.name("runs/"))

	assert.ErrorIs(t, store.Put(context.Background(), "", nil), blobstore.ErrInvalidName)
}

func TestNew_EmptyEndpoint(t *testing.T) {
	_, err := New(Config{Endpoint: ""})
	assert.Error(t, err)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-meanshift"

	store, err := New(Config{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    bucket,
		Prefix:    fmt.Sprintf("test-%d/", time.Now().UnixNano()),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(buf[:n]))

	n, err = blob.ReadAt(ctx, buf, 15)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "ld", string(buf[:n]))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"test.txt"}, names)

	require.NoError(t, store.Delete(ctx, "test.txt"))

	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
