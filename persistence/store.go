package persistence

import (
	"context"
	"fmt"

	"github.com/hupe1980/meanshift/blobstore"
)

// SaveToStore encodes the snapshot and writes it to store under name.
func SaveToStore(ctx context.Context, store blobstore.BlobStore, name string, s *Snapshot, c CompressionType) error {
	data, err := Marshal(s, c)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("persistence: put %s: %w", name, err)
	}
	return nil
}

// LoadFromStore reads and decodes the snapshot stored under name.
func LoadFromStore(ctx context.Context, store blobstore.BlobStore, name string) (*Snapshot, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
