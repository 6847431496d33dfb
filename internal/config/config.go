// Package config loads process configuration once at startup.
//
// Values come from built-in defaults, then an optional YAML file, then the
// environment; later sources win. Credentials are not checked here: a blank
// key surfaces as errs.ErrKindMissingCredentials on the first connection.
package config

import (
	"os"
	"strings"

	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
	"github.com/koustreak/blobappend/internal/logger"
	"go.yaml.in/yaml/v3"
)

// Config covers everything blobappend reads at startup.
type Config struct {
	Provider        string `yaml:"provider"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	UseSSL          bool   `yaml:"use_ssl"`
	BucketURL       string `yaml:"bucket_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in defaults: AWS S3 over TLS, JSON logs at info.
func Default() *Config {
	return &Config{
		Provider:  string(filestore.ProviderS3),
		Region:    "us-east-1",
		Endpoint:  filestore.DefaultEndpoint,
		UseSSL:    true,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads configuration from the environment only and validates it.
func Load() (*Config, error) {
	cfg, err := LoadFile("")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path as YAML (when non-empty), then applies the environment.
// The result is not validated, so callers can apply their own overrides
// first and call Validate once.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config file", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Provider, "BLOBAPPEND_PROVIDER")
	setString(&c.Bucket, "BLOBAPPEND_S3_BUCKET", "S3_BUCKET")
	setString(&c.AccessKeyID, "BLOBAPPEND_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	setString(&c.SecretAccessKey, "BLOBAPPEND_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
	setString(&c.Region, "BLOBAPPEND_S3_REGION", "AWS_REGION")
	setString(&c.Endpoint, "BLOBAPPEND_S3_ENDPOINT", "S3_ENDPOINT")
	setBool(&c.UseSSL, "BLOBAPPEND_S3_USE_SSL")
	setString(&c.BucketURL, "BLOBAPPEND_S3_BUCKET_URL", "S3_BUCKET_URL")
	setString(&c.LogLevel, "BLOBAPPEND_LOG_LEVEL")
	setString(&c.LogFormat, "BLOBAPPEND_LOG_FORMAT")
}

// Validate checks the fields that can be judged without a connection.
func (c *Config) Validate() error {
	switch filestore.Provider(c.Provider) {
	case filestore.ProviderS3, filestore.ProviderMinIO, filestore.ProviderMemory:
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown provider %q", c.Provider)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown log format %q", c.LogFormat)
	}
	return nil
}

// Store converts c into the storage layer's config.
func (c *Config) Store() *filestore.Config {
	return &filestore.Config{
		Provider:      filestore.Provider(c.Provider),
		Endpoint:      c.Endpoint,
		AccessKey:     c.AccessKeyID,
		SecretKey:     c.SecretAccessKey,
		UseSSL:        c.UseSSL,
		Region:        c.Region,
		DefaultBucket: c.Bucket,
		BucketURL:     c.BucketURL,
	}
}

// Logger converts c into the logger's config, writing to stderr.
func (c *Config) Logger() *logger.Config {
	return &logger.Config{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: os.Stderr,
	}
}

// lookupEnvAny returns the first non-empty environment variable value from keys.
func lookupEnvAny(keys ...string) (string, bool) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v, true
		}
	}
	return "", false
}

func setString(dst *string, keys ...string) {
	if v, ok := lookupEnvAny(keys...); ok {
		*dst = v
	}
}

// setBool accepts true/1/yes and false/0/no; anything else leaves dst alone.
func setBool(dst *bool, keys ...string) {
	v, ok := lookupEnvAny(keys...)
	if !ok {
		return
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	}
}
