package filestore

import (
	"strings"

	"github.com/koustreak/blobappend/internal/errs"
)

// Provider identifies the object storage backend.
type Provider string

const (
	ProviderS3     Provider = "s3"
	ProviderMinIO  Provider = "minio"
	ProviderMemory Provider = "memory"
)

// DefaultEndpoint is the AWS S3 global endpoint.
const DefaultEndpoint = "s3.amazonaws.com"

// Config holds all settings needed to connect to an object storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderS3).
	Provider Provider

	// Endpoint is the host[:port] of the storage server, without scheme.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID.
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is the signing region. Defaults to us-east-1 for AWS.
	Region string

	// DefaultBucket is used when a caller passes an empty bucket name.
	DefaultBucket string

	// BucketURL optionally overrides the base URL used to build object URLs.
	// Buckets are always addressed path-style beneath it.
	BucketURL string
}

// DefaultConfig returns an AWS S3 config for the given credentials.
func DefaultConfig(accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderS3,
		Endpoint:  DefaultEndpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    true,
		Region:    "us-east-1",
	}
}

// ValidateCredentials fails with ErrKindMissingCredentials unless both keys
// are set. The in-memory provider needs no credentials.
func (c *Config) ValidateCredentials() error {
	if c.Provider == ProviderMemory {
		return nil
	}
	if strings.TrimSpace(c.AccessKey) == "" || strings.TrimSpace(c.SecretKey) == "" {
		return errs.New(errs.ErrKindMissingCredentials,
			"access key id and secret access key must both be set")
	}
	return nil
}

// EndpointURL returns the endpoint with a scheme, derived from UseSSL when
// Endpoint carries none.
func (c *Config) EndpointURL() string {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if c.UseSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// BaseURL is the root under which objects are addressed path-style:
// BucketURL when set, EndpointURL otherwise.
func (c *Config) BaseURL() string {
	if c.BucketURL != "" {
		return strings.TrimRight(c.BucketURL, "/")
	}
	return c.EndpointURL()
}
