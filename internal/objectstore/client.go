// Package objectstore uploads, appends to, and retrieves files in an
// S3-compatible bucket.
//
// Every public operation opens its own connection through the configured
// Dialer and closes it before returning. Nothing is cached between calls:
// bucket and object existence is checked against the store each time.
//
// Upload is a read-modify-write. Two concurrent Uploads to the same bucket
// and key both read the old body and the last PUT wins; no ETag or version
// is consulted. Callers that need exclusive appends must serialize them.
package objectstore

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
	"github.com/koustreak/blobappend/internal/filestore/minio"
	"github.com/koustreak/blobappend/internal/filestore/s3"
	"github.com/koustreak/blobappend/internal/logger"
)

// Dialer opens a connection to the store for a single operation.
type Dialer func(ctx context.Context, cfg *filestore.Config) (filestore.Store, error)

// DialProvider builds the driver named by cfg.Provider. Both drivers address
// buckets path-style.
func DialProvider(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	var (
		store filestore.Store
		err   error
	)
	switch cfg.Provider {
	case filestore.ProviderS3, "":
		store, err = s3.New(ctx, cfg)
	case filestore.ProviderMinIO:
		store, err = minio.New(ctx, cfg)
	default:
		return nil, errs.Newf(errs.ErrKindInvalidInput, "provider %q cannot be dialed", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// File is an object as returned by Upload and RetrieveFile.
type File struct {
	Bucket       string
	Key          string
	Body         []byte
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	URL          string
}

// Bucket is a bucket as returned by RetrieveBucket.
type Bucket struct {
	Name   string
	Region string
	URL    string
}

// Client performs uploads and lookups against one configured store.
// It is safe for concurrent use.
type Client struct {
	cfg  filestore.Config
	dial Dialer
}

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces DialProvider, e.g. to point the client at an
// in-memory store.
func WithDialer(d Dialer) Option {
	return func(c *Client) {
		c.dial = d
	}
}

// New returns a Client for cfg. cfg is copied; later changes to it have no
// effect on the client.
func New(cfg *filestore.Config, opts ...Option) *Client {
	c := &Client{cfg: *cfg, dial: DialProvider}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect validates the credentials and opens a connection. The caller owns
// the returned Store and must Close it. No dial is attempted when a key is
// missing.
func (c *Client) Connect(ctx context.Context) (filestore.Store, error) {
	if err := c.cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	cfg := c.cfg
	store, err := c.dial(ctx, &cfg)
	if err != nil {
		if errs.KindOf(err) == errs.ErrKindUnknown {
			return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to connect", err)
		}
		return nil, err
	}
	return store, nil
}

// Ping opens a connection and checks that the store answers with the
// configured credentials. It reads no bucket or object.
func (c *Client) Ping(ctx context.Context) error {
	store, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("store reachable")
	return nil
}

// Upload writes contents to key in bucket and returns the stored file.
//
// By default contents are appended to whatever the object already holds;
// pass Overwrite() to replace it instead. A missing object is treated as
// empty. A missing bucket fails with errs.ErrKindBucketNotFound before
// anything is written: buckets are never created implicitly.
func (c *Client) Upload(ctx context.Context, contents []byte, bucket, key string, opts ...UploadOption) (*File, error) {
	o := defaultUploadOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bucket, err := c.target(bucket, key)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With().
		Str("bucket", bucket).
		Str("key", key).
		Bool("append", o.appendToFile).
		Logger()

	store, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if _, err := store.StatBucket(ctx, bucket); err != nil {
		return nil, err
	}

	existing, info, err := store.GetObject(ctx, bucket, key)
	switch {
	case err == nil:
	case errs.IsNotFound(err):
		log.Debug("object does not exist yet, starting from an empty body")
		existing, info = nil, nil
	default:
		return nil, err
	}

	contentType := o.contentType
	if contentType == "" && o.appendToFile && info != nil {
		contentType = info.ContentType
	}

	body := mergeBody(existing, contents, o.appendToFile)
	stored, err := store.PutObject(ctx, bucket, key, body, filestore.PutOptions{ContentType: contentType})
	if err != nil {
		return nil, err
	}

	log.DebugWith("object persisted", map[string]any{
		"previous_bytes": len(existing),
		"bytes":          len(body),
	})
	return c.file(stored, body), nil
}

// mergeBody returns existing followed by contents when appending, or a copy
// of contents alone. The result never aliases either argument.
func mergeBody(existing, contents []byte, appendToFile bool) []byte {
	if !appendToFile {
		existing = nil
	}
	body := make([]byte, 0, len(existing)+len(contents))
	body = append(body, existing...)
	return append(body, contents...)
}

// RetrieveFile fetches key from bucket. found is false, with a nil error,
// when either the bucket or the key does not exist. Any other failure is
// returned as an error, never reported as not found.
func (c *Client) RetrieveFile(ctx context.Context, bucket, key string) (file *File, found bool, err error) {
	bucket, err = c.target(bucket, key)
	if err != nil {
		return nil, false, err
	}

	store, err := c.Connect(ctx)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()

	if _, err := store.StatBucket(ctx, bucket); err != nil {
		if errs.IsBucketNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	body, info, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		if errs.IsNotFound(err) || errs.IsBucketNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c.file(info, body), true, nil
}

// RetrieveBucket looks bucket up. found is false, with a nil error, when it
// does not exist.
func (c *Client) RetrieveBucket(ctx context.Context, bucket string) (*Bucket, bool, error) {
	if bucket == "" {
		bucket = c.cfg.DefaultBucket
	}
	if bucket == "" {
		return nil, false, errs.New(errs.ErrKindInvalidInput, "bucket name is required")
	}

	store, err := c.Connect(ctx)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()

	info, err := store.StatBucket(ctx, bucket)
	if err != nil {
		if errs.IsBucketNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &Bucket{
		Name:   info.Name,
		Region: info.Region,
		URL:    c.cfg.BaseURL() + "/" + url.PathEscape(info.Name),
	}, true, nil
}

// ObjectURL returns the path-style URL of key in bucket.
func (c *Client) ObjectURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.cfg.BaseURL() + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}

// target applies the default bucket and checks that both names are usable.
func (c *Client) target(bucket, key string) (string, error) {
	if bucket == "" {
		bucket = c.cfg.DefaultBucket
	}
	if bucket == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "bucket name is required")
	}
	if key == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "object key is required")
	}
	return bucket, nil
}

func (c *Client) file(info *filestore.ObjectInfo, body []byte) *File {
	return &File{
		Bucket:       info.Bucket,
		Key:          info.Key,
		Body:         body,
		Size:         int64(len(body)),
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
		URL:          c.ObjectURL(info.Bucket, info.Key),
	}
}
