package minio

import (
	"context"
	"errors"
	"net/http"

	"github.com/koustreak/blobappend/internal/errs"
	minioErr "github.com/minio/minio-go/v7"
)

// mapError translates a MinIO SDK error into a *errs.Error.
// S3 error codes are checked before HTTP status so that a 404 can be told
// apart as a missing bucket or a missing key.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var resp minioErr.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket":
			return errs.Wrap(errs.ErrKindBucketNotFound, msg, err)
		case "NoSuchKey", "NoSuchUpload":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case "RequestTimeout", "SlowDown":
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusUnauthorized:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case resp.StatusCode == http.StatusBadRequest:
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case resp.StatusCode != 0:
			return errs.Wrap(errs.ErrKindOperationFailed, msg, err)
		}
	}

	// No S3 response at all: the request never reached the server.
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
