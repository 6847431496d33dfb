// Package minio provides a MinIO implementation of filestore.Store.
//
// Buckets are always addressed path-style, which is what MinIO and most
// S3-compatible gateways expect.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("minioadmin", "minioadmin")
//	cfg.Provider, cfg.Endpoint, cfg.UseSSL = filestore.ProviderMinIO, "localhost:9000", false
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package minio

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	region string
}

// New builds a MinIO client from cfg. It does not touch the network.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: miniogo.BucketLookupPath,
		// A single attempt per request; callers own retry policy.
		MaxRetries: 1,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	return &Driver{client: client, region: cfg.Region}, nil
}

// splitEndpoint strips an optional scheme from endpoint. An explicit scheme
// wins over useSSL.
func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimRight(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimRight(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimRight(endpoint, "/"), useSSL
	}
}

// --- filestore.Store implementation ---

// Ping verifies the MinIO server is reachable by listing buckets.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ListBuckets(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op; the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// StatBucket reports the bucket if it exists.
func (d *Driver) StatBucket(ctx context.Context, bucket string) (*filestore.BucketInfo, error) {
	exists, err := d.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapError(err, "failed to stat bucket")
	}
	if !exists {
		return nil, errs.Newf(errs.ErrKindBucketNotFound, "bucket %q does not exist", bucket)
	}
	return &filestore.BucketInfo{Name: bucket, Region: d.region}, nil
}

// GetObject downloads the whole object at key inside bucket.
func (d *Driver) GetObject(ctx context.Context, bucket, key string) ([]byte, *filestore.ObjectInfo, error) {
	obj, err := d.client.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, nil, mapError(err, "failed to get object")
	}
	defer obj.Close()

	// Reading first makes the GET itself carry the error code; Stat then
	// reuses the headers of that response.
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, mapError(err, "failed to read object")
	}

	stat, err := obj.Stat()
	if err != nil {
		return nil, nil, mapError(err, "failed to stat object")
	}

	return body, &filestore.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         int64(len(body)),
		ContentType:  stat.ContentType,
		ETag:         strings.Trim(stat.ETag, `"`),
		LastModified: stat.LastModified,
	}, nil
}

// PutObject uploads body in a single request.
func (d *Driver) PutObject(ctx context.Context, bucket, key string, body []byte, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	contentType := opts.ContentTypeOrDefault()
	info, err := d.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, mapError(err, "failed to put object")
	}

	return &filestore.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         int64(len(body)),
		ContentType:  contentType,
		ETag:         strings.Trim(info.ETag, `"`),
		LastModified: info.LastModified,
	}, nil
}
