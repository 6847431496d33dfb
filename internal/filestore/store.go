// Package filestore defines the interface for object storage backends.
//
// Providers (AWS S3, MinIO, in-memory) implement the Store interface.
// Callers depend only on this package, never on a specific provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig(accessKey, secretKey)
//	store, err := s3.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	bucket, err := store.StatBucket(ctx, "reports")
package filestore

import "context"

// Store is the interface all object storage providers implement.
// Every method returns *errs.Error on failure.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// StatBucket looks up bucket.
	// A missing bucket is reported as errs.ErrKindBucketNotFound.
	StatBucket(ctx context.Context, bucket string) (*BucketInfo, error)

	// GetObject reads the whole object at key inside bucket.
	// A missing key is errs.ErrKindNotFound; a missing bucket is
	// errs.ErrKindBucketNotFound.
	GetObject(ctx context.Context, bucket, key string) ([]byte, *ObjectInfo, error)

	// PutObject stores body at key inside bucket, replacing any existing
	// object unconditionally.
	PutObject(ctx context.Context, bucket, key string, body []byte, opts PutOptions) (*ObjectInfo, error)
}
