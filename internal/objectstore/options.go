package objectstore

type uploadOptions struct {
	appendToFile bool
	contentType  string
}

func defaultUploadOptions() uploadOptions {
	return uploadOptions{appendToFile: true}
}

// UploadOption adjusts a single Upload call.
type UploadOption func(*uploadOptions)

// WithAppend selects append (true, the default) or overwrite (false).
func WithAppend(appendToFile bool) UploadOption {
	return func(o *uploadOptions) {
		o.appendToFile = appendToFile
	}
}

// Overwrite is WithAppend(false).
func Overwrite() UploadOption {
	return WithAppend(false)
}

// WithContentType sets the stored content type. When unset, an append keeps
// the existing object's type and anything else is stored as
// application/octet-stream.
func WithContentType(contentType string) UploadOption {
	return func(o *uploadOptions) {
		o.contentType = contentType
	}
}
