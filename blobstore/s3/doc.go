// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("segmentations/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = persistence.SaveToStore(ctx, store, "run-1.mseg", eng.Snapshot(), persistence.CompressionZSTD)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large snapshots
//   - CRC32C checksums on upload
//   - Automatic pagination for listing
package s3
