package s3

import (
	"context"
	"errors"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/koustreak/blobappend/internal/errs"
)

// mapError translates an aws-sdk-go-v2 error into a *errs.Error.
// Typed S3 errors are checked first, then the API error code for
// S3-compatible services that do not return the exact SDK types, then the
// raw HTTP status.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return errs.Wrap(errs.ErrKindBucketNotFound, msg, err)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return errs.Wrap(errs.ErrKindBucketNotFound, msg, err)
		case "NoSuchKey", "NotFound", "404":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "403":
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case "InvalidBucketName", "KeyTooLongError", "InvalidArgument":
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case "RequestTimeout", "SlowDown":
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch status := respErr.HTTPStatusCode(); {
		case status == http.StatusNotFound:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case status == http.StatusForbidden, status == http.StatusUnauthorized:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case status == http.StatusBadRequest:
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		default:
			return errs.Wrap(errs.ErrKindOperationFailed, msg, err)
		}
	}

	if apiErr != nil {
		return errs.Wrap(errs.ErrKindOperationFailed, msg, err)
	}

	// No response from the server at all.
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
