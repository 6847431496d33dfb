// Package memory provides an in-process implementation of filestore.Store.
//
// It keeps buckets and objects in maps guarded by a mutex and computes ETags
// as the hex MD5 of the body, like S3 does for single-part uploads. Buckets
// must be created explicitly with CreateBucket.
package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
)

type object struct {
	body         []byte
	contentType  string
	etag         string
	lastModified time.Time
}

// Store is an in-memory filestore.Store. The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]map[string]*object
	region  string
	puts    int
	now     func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		buckets: make(map[string]map[string]*object),
		region:  "local",
		now:     time.Now,
	}
}

// CreateBucket adds an empty bucket. Creating an existing bucket is a no-op.
func (s *Store) CreateBucket(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[name]; !ok {
		s.buckets[name] = make(map[string]*object)
	}
}

// Puts reports how many PutObject calls have succeeded.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Ping succeeds unless ctx is already done.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "ping failed", err)
	}
	return nil
}

// Close is a no-op so one Store can back many connections.
func (s *Store) Close() error {
	return nil
}

// StatBucket reports the bucket if CreateBucket has made it.
func (s *Store) StatBucket(ctx context.Context, bucket string) (*filestore.BucketInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "failed to stat bucket", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.buckets[bucket]; !ok {
		return nil, errs.Newf(errs.ErrKindBucketNotFound, "bucket %q does not exist", bucket)
	}
	return &filestore.BucketInfo{Name: bucket, Region: s.region}, nil
}

// GetObject returns a copy of the stored body.
func (s *Store) GetObject(ctx context.Context, bucket, key string) ([]byte, *filestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, errs.Wrap(errs.ErrKindTimeout, "failed to get object", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return nil, nil, errs.Newf(errs.ErrKindBucketNotFound, "bucket %q does not exist", bucket)
	}
	obj, ok := objects[key]
	if !ok {
		return nil, nil, errs.Newf(errs.ErrKindNotFound, "object %q not found in bucket %q", key, bucket)
	}

	body := make([]byte, len(obj.body))
	copy(body, obj.body)
	return body, obj.info(bucket, key), nil
}

// PutObject replaces the object at key with a copy of body.
func (s *Store) PutObject(ctx context.Context, bucket, key string, body []byte, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "failed to put object", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return nil, errs.Newf(errs.ErrKindBucketNotFound, "bucket %q does not exist", bucket)
	}

	stored := make([]byte, len(body))
	copy(stored, body)
	sum := md5.Sum(stored)

	obj := &object{
		body:         stored,
		contentType:  opts.ContentTypeOrDefault(),
		etag:         hex.EncodeToString(sum[:]),
		lastModified: s.now().UTC(),
	}
	objects[key] = obj
	s.puts++
	return obj.info(bucket, key), nil
}

func (o *object) info(bucket, key string) *filestore.ObjectInfo {
	return &filestore.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         int64(len(o.body)),
		ContentType:  o.contentType,
		ETag:         o.etag,
		LastModified: o.lastModified,
	}
}
