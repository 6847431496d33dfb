// Package s3 provides an AWS S3 implementation of filestore.Store built on
// aws-sdk-go-v2. Buckets are addressed path-style and SDK retries are
// disabled: each request is attempted once.
package s3

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
)

const defaultRegion = "us-east-1"

// Driver is an AWS S3 implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *s3.Client
	region string
}

// New builds an S3 client from cfg. It does not touch the network.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" && cfg.Endpoint != filestore.DefaultEndpoint {
			o.BaseEndpoint = aws.String(cfg.EndpointURL())
		}
		o.UsePathStyle = true
		o.Retryer = aws.NopRetryer{}
	})

	return &Driver{client: client, region: region}, nil
}

// NewFromClient wraps an already configured SDK client.
func NewFromClient(client *s3.Client, region string) *Driver {
	return &Driver{client: client, region: region}
}

// --- filestore.Store implementation ---

// Ping verifies the endpoint is reachable and the credentials are accepted.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op; the SDK client owns no long-lived resources.
func (d *Driver) Close() error {
	return nil
}

// StatBucket issues HeadBucket. A 404 means the bucket does not exist.
func (d *Driver) StatBucket(ctx context.Context, bucket string) (*filestore.BucketInfo, error) {
	out, err := d.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		mapped := mapError(err, "failed to stat bucket")
		if mapped.Kind == errs.ErrKindNotFound {
			mapped.Kind = errs.ErrKindBucketNotFound
		}
		return nil, mapped
	}

	region := d.region
	if out.BucketRegion != nil && *out.BucketRegion != "" {
		region = *out.BucketRegion
	}
	return &filestore.BucketInfo{Name: bucket, Region: region}, nil
}

// GetObject downloads the whole object at key inside bucket.
func (d *Driver) GetObject(ctx context.Context, bucket, key string) ([]byte, *filestore.ObjectInfo, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, mapError(err, "failed to get object")
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, nil, mapError(err, "failed to read object body")
	}

	info := &filestore.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        int64(buf.Len()),
		ContentType: aws.ToString(out.ContentType),
		ETag:        unquote(aws.ToString(out.ETag)),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return buf.Bytes(), info, nil
}

// PutObject uploads body in a single request.
func (d *Driver) PutObject(ctx context.Context, bucket, key string, body []byte, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	contentType := opts.ContentTypeOrDefault()
	out, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, mapError(err, "failed to put object")
	}

	return &filestore.ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        int64(len(body)),
		ContentType: contentType,
		ETag:        unquote(aws.ToString(out.ETag)),
	}, nil
}

func unquote(etag string) string {
	return strings.Trim(etag, `"`)
}
