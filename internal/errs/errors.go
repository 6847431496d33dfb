// Package errs provides the unified error type used across blobappend.
//
// Every storage backend (MinIO, AWS S3, in-memory) wraps its native errors
// into *errs.Error before returning them. Callers use the Is* predicates to
// branch on the failure class without importing SDK packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "failed to stat bucket", sdkErr)
//
//	// In a caller — check error kind:
//	if errs.IsBucketNotFound(err) {
//	    log.Fatalf("create bucket %q before uploading to it", bucket)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing SDK-specific codes.
type ErrKind int

const (
	ErrKindUnknown            ErrKind = iota
	ErrKindMissingCredentials         // access key or secret key not configured
	ErrKindBucketNotFound             // target bucket does not exist
	ErrKindNotFound                   // no such object
	ErrKindConnectionFailed           // cannot reach the store
	ErrKindTimeout                    // context deadline / cancellation
	ErrKindOperationFailed            // store rejected or failed the request
	ErrKindInvalidInput               // bad arguments from the caller
	ErrKindPermissionDenied           // access denied / bad signature
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindMissingCredentials:
		return "missing_credentials"
	case ErrKindBucketNotFound:
		return "bucket_not_found"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindOperationFailed:
		return "operation_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by blobappend packages.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original SDK error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsMissingCredentials reports whether err was raised because the access key
// or secret key is blank. It is never worth retrying.
func IsMissingCredentials(err error) bool {
	return KindOf(err) == ErrKindMissingCredentials
}

// IsBucketNotFound reports whether the target bucket does not exist.
func IsBucketNotFound(err error) bool {
	return KindOf(err) == ErrKindBucketNotFound
}

// IsNotFound reports whether err represents a missing object.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsOperationFailed reports whether the store accepted the connection but
// failed the request itself.
func IsOperationFailed(err error) bool {
	return KindOf(err) == ErrKindOperationFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
