package filestore

import "time"

// DefaultContentType is stored when the caller does not name one.
const DefaultContentType = "application/octet-stream"

// BucketInfo describes a storage bucket.
type BucketInfo struct {
	// Name is the bucket name.
	Name string

	// Region is where the bucket lives, when the backend reports it.
	Region string
}

// ObjectInfo describes a single object stored in a bucket.
type ObjectInfo struct {
	// Bucket is the containing bucket.
	Bucket string

	// Key is the full object path within the bucket (e.g. "logs/app.txt").
	Key string

	// Size is the byte size of the object.
	Size int64

	// ContentType is the MIME type.
	ContentType string

	// ETag is the object's entity tag as returned by the backend, unquoted.
	ETag string

	// LastModified is when the object was last written.
	// May be zero if the backend does not report it on write.
	LastModified time.Time
}

// PutOptions controls how PutObject stores an object.
type PutOptions struct {
	// ContentType defaults to DefaultContentType.
	ContentType string
}

// ContentTypeOrDefault returns the content type PutObject should send.
func (o PutOptions) ContentTypeOrDefault() string {
	if o.ContentType == "" {
		return DefaultContentType
	}
	return o.ContentType
}
