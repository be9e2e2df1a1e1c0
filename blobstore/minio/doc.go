// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object store. The official MinIO Go client
// also works against Ceph, SeaweedFS, Garage and other compatible services.
//
// # Basic Usage
//
//	store, err := minioblob.New(minioblob.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "segmentations",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// An existing client can be wrapped with NewStore:
//
//	client, _ := minio.New("s3.example.com:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: true,
//	})
//	store := minioblob.NewStore(client, "my-bucket", "runs/")
package minio
