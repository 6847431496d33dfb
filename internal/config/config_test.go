package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/blobappend/internal/errs"
	"github.com/koustreak/blobappend/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"BLOBAPPEND_PROVIDER",
	"BLOBAPPEND_S3_BUCKET", "S3_BUCKET",
	"BLOBAPPEND_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID",
	"BLOBAPPEND_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY",
	"BLOBAPPEND_S3_REGION", "AWS_REGION",
	"BLOBAPPEND_S3_ENDPOINT", "S3_ENDPOINT",
	"BLOBAPPEND_S3_USE_SSL",
	"BLOBAPPEND_S3_BUCKET_URL", "S3_BUCKET_URL",
	"BLOBAPPEND_LOG_LEVEL", "BLOBAPPEND_LOG_FORMAT",
}

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "s3", cfg.Provider)
	assert.True(t, cfg.UseSSL)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET", "bucket1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "s3cr3t")
	t.Setenv("BLOBAPPEND_S3_ENDPOINT", "localhost:9000")
	t.Setenv("BLOBAPPEND_S3_USE_SSL", "no")
	t.Setenv("BLOBAPPEND_PROVIDER", "minio")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bucket1", cfg.Bucket)
	assert.Equal(t, "AKIA", cfg.AccessKeyID)
	assert.Equal(t, "s3cr3t", cfg.SecretAccessKey)
	assert.Equal(t, "localhost:9000", cfg.Endpoint)
	assert.False(t, cfg.UseSSL)

	store := cfg.Store()
	assert.Equal(t, filestore.ProviderMinIO, store.Provider)
	assert.Equal(t, "bucket1", store.DefaultBucket)
	assert.NoError(t, store.ValidateCredentials())
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET", "generic")
	t.Setenv("BLOBAPPEND_S3_BUCKET", "specific")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "specific", cfg.Bucket)
}

func TestLoad_MissingCredentialsIsNotALoadError(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, errs.IsMissingCredentials(cfg.Store().ValidateCredentials()))
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blobappend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: minio
bucket: from-file
endpoint: minio.internal:9000
use_ssl: false
log_level: debug
`), 0o600))
	t.Setenv("BLOBAPPEND_S3_BUCKET", "from-env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "minio", cfg.Provider)
	assert.Equal(t, "from-env", cfg.Bucket, "environment overrides the file")
	assert.Equal(t, "minio.internal:9000", cfg.Endpoint)
	assert.False(t, cfg.UseSSL)
	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "us-east-1", cfg.Region, "keys absent from the file keep their defaults")
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errs.IsInvalidInput(err))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("provider: [unclosed"), 0o600))
	_, err = LoadFile(bad)
	assert.True(t, errs.IsInvalidInput(err))

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("provider: gcs\n"), 0o600))
	cfg, err := LoadFile(unknown)
	require.NoError(t, err, "LoadFile leaves validation to the caller")
	assert.True(t, errs.IsInvalidInput(cfg.Validate()))
}

func TestLoad_ValidatesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOBAPPEND_PROVIDER", "gcs")

	_, err := Load()
	assert.True(t, errs.IsInvalidInput(err))

	cfg, err := LoadFile("")
	require.NoError(t, err)
	cfg.Provider = string(filestore.ProviderMemory)
	assert.NoError(t, cfg.Validate(), "an override can repair a bad environment value")
}
