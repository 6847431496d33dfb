package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDriver creates a Driver backed by a test HTTP server that receives
// real S3 XML-protocol requests.
func testDriver(t *testing.T, handler http.Handler) *Driver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Retryer:      aws.NopRetryer{},
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient:   &http.Client{Transport: &http.Transport{}},
	})
	return NewFromClient(client, "us-east-1")
}

func xmlError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
}

func TestNew(t *testing.T) {
	d, err := New(context.Background(), &filestore.Config{
		Provider:  filestore.ProviderS3,
		Endpoint:  "localhost:9000",
		AccessKey: "AKIA",
		SecretKey: "s3cr3t",
	})
	require.NoError(t, err)
	assert.Equal(t, defaultRegion, d.region)
}

func TestNew_MissingCredentials(t *testing.T) {
	d, err := New(context.Background(), &filestore.Config{Provider: filestore.ProviderS3, AccessKey: "AKIA"})
	require.Error(t, err)
	assert.Nil(t, d)
	assert.True(t, errs.IsMissingCredentials(err))
}

func TestStatBucket(t *testing.T) {
	d := testDriver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bucket1", "/bucket1/":
			w.Header().Set("x-amz-bucket-region", "eu-west-1")
			w.WriteHeader(http.StatusOK)
		case "/locked", "/locked/":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	info, err := d.StatBucket(context.Background(), "bucket1")
	require.NoError(t, err)
	assert.Equal(t, "bucket1", info.Name)
	assert.Equal(t, "eu-west-1", info.Region)

	_, err = d.StatBucket(context.Background(), "missing")
	assert.True(t, errs.IsBucketNotFound(err), "got %v", err)

	_, err = d.StatBucket(context.Background(), "locked")
	assert.True(t, errs.IsPermissionDenied(err), "got %v", err)
}

func TestGetObject(t *testing.T) {
	d := testDriver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bucket1/greeting.txt":
			w.Header().Set("Content-Type", "text/plain")
			w.Header().Set("ETag", `"5d41402abc4b2a76b9719d911017c592"`)
			w.Header().Set("Content-Length", "5")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("hello"))
		case "/gone/greeting.txt":
			xmlError(w, http.StatusNotFound, "NoSuchBucket")
		default:
			xmlError(w, http.StatusNotFound, "NoSuchKey")
		}
	}))

	body, info, err := d.GetObject(context.Background(), "bucket1", "greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), body)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", info.ETag)
	assert.Equal(t, "text/plain", info.ContentType)
	assert.Equal(t, int64(5), info.Size)

	_, _, err = d.GetObject(context.Background(), "bucket1", "absent.txt")
	assert.True(t, errs.IsNotFound(err), "got %v", err)

	_, _, err = d.GetObject(context.Background(), "gone", "greeting.txt")
	assert.True(t, errs.IsBucketNotFound(err), "got %v", err)
}

func TestPutObject(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotBody     []byte
		contentType string
	)
	d := testDriver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		mu.Lock()
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		contentType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	}))

	info, err := d.PutObject(context.Background(), "bucket1", "logs/app.txt", []byte("hello world"), filestore.PutOptions{ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "etag-1", info.ETag)
	assert.Equal(t, int64(11), info.Size)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/bucket1/logs/app.txt", gotPath, "bucket must be addressed path-style")
	assert.Equal(t, []byte("hello world"), gotBody)
	assert.Equal(t, "text/plain", contentType)
}

func TestPutObject_ServerError(t *testing.T) {
	var calls atomic.Int32
	d := testDriver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		xmlError(w, http.StatusInternalServerError, "InternalError")
	}))

	_, err := d.PutObject(context.Background(), "bucket1", "k", []byte("x"), filestore.PutOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsOperationFailed(err), "got %v", err)
	assert.Equal(t, int32(1), calls.Load(), "requests must not be retried")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), errs.ErrKindTimeout},
		{"typed no such bucket", &types.NoSuchBucket{}, errs.ErrKindBucketNotFound},
		{"typed no such key", &types.NoSuchKey{}, errs.ErrKindNotFound},
		{"typed not found", &types.NotFound{}, errs.ErrKindNotFound},
		{"code no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, errs.ErrKindBucketNotFound},
		{"code access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, errs.ErrKindPermissionDenied},
		{"code invalid name", &smithy.GenericAPIError{Code: "InvalidBucketName"}, errs.ErrKindInvalidInput},
		{"code slow down", &smithy.GenericAPIError{Code: "SlowDown"}, errs.ErrKindTimeout},
		{"code unknown", &smithy.GenericAPIError{Code: "InternalError"}, errs.ErrKindOperationFailed},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, mapError(nil, "op"))
}
