package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for testing.T.Chdir (Go 1.24+): change into dir and
// restore the original working directory when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	// Run from an empty directory so no stray r2ops.yaml or .env leaks in.
	chdir(t, t.TempDir())

	t.Run("defaults", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		require.NotNil(t, s)

		assert.Equal(t, "auto", s.Region)
		assert.Equal(t, "localhost", s.Server.Host)
		assert.Equal(t, 8080, s.Server.Port)
		assert.Empty(t, s.BucketName)
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("R2OPS_BUCKET_NAME", "env-bucket")
		t.Setenv("R2OPS_ACCESS_KEY_ID", "env-key")
		t.Setenv("R2OPS_SECRET_ACCESS_KEY", "env-secret")
		t.Setenv("R2OPS_ENDPOINT", "https://acct.r2.cloudflarestorage.com")
		t.Setenv("R2OPS_REGION", "eeur")

		s, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "env-bucket", s.BucketName)
		assert.Equal(t, "env-key", s.AccessKeyID)
		assert.Equal(t, "env-secret", s.SecretAccessKey)
		assert.Equal(t, "https://acct.r2.cloudflarestorage.com", s.Endpoint)
		assert.Equal(t, "eeur", s.Region)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "r2ops.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
bucket_name: file-bucket
endpoint: https://file.r2.cloudflarestorage.com
server:
  host: 0.0.0.0
  port: 9090
`), 0o644))

		s, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "file-bucket", s.BucketName)
		assert.Equal(t, "https://file.r2.cloudflarestorage.com", s.Endpoint)
		assert.Equal(t, "0.0.0.0", s.Server.Host)
		assert.Equal(t, 9090, s.Server.Port)
		assert.Equal(t, "auto", s.Region, "defaults still apply")
	})

	t.Run("env wins over config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "r2ops.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bucket_name: file-bucket\n"), 0o644))

		t.Setenv("R2OPS_BUCKET_NAME", "env-bucket")

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-bucket", s.BucketName)
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("dotenv file is honored", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("R2OPS_BUCKET_NAME=dotenv-bucket\n"), 0o644))

		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "dotenv-bucket", s.BucketName)

		// godotenv mutates the process env; clean up for later tests.
		os.Unsetenv("R2OPS_BUCKET_NAME")
	})
}
