package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DatabasePath)
	assert.Empty(t, cfg.AuthToken)
	assert.Zero(t, cfg.RateLimit.MaxCalls)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database_path: /tmp/ledger.db
auth_token: tok-123
rate_limit:
  max_calls: 100
  window_ms: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ledger.db", cfg.DatabasePath)
	assert.Equal(t, "tok-123", cfg.AuthToken)
	assert.Equal(t, 100, cfg.RateLimit.MaxCalls)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.Window())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolvePath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/config.yaml")
	assert.Equal(t, "/custom/config.yaml", ResolvePath())
}

func TestResolvePath_Default(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultPath(), ResolvePath())
}
