package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.StateDir = t.TempDir()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8082", cfg.AccountURL)
	assert.Equal(t, BackendSQLite, cfg.SessionBackend)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SMM_POST_URL", "https://posts.example.com")
	t.Setenv("SMM_SESSION_BACKEND", "file")
	t.Setenv("SMM_HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("SMM_LOGIN_TIMEOUT_SECONDS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "https://posts.example.com", cfg.PostURL)
	assert.Equal(t, BackendFile, cfg.SessionBackend)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2*time.Minute, cfg.LoginTimeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.AccountURL = "/api" }},
		{"bad scheme", func(c *Config) { c.PostURL = "ftp://x" }},
		{"bad callback addr", func(c *Config) { c.CallbackAddr = "nope" }},
		{"unknown backend", func(c *Config) { c.SessionBackend = "redis" }},
		{"empty state dir", func(c *Config) { c.StateDir = "" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCallbackURL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:3000", cfg.CallbackURL())
	cfg.CallbackAddr = "0.0.0.0:4000"
	assert.Equal(t, "http://0.0.0.0:4000", cfg.CallbackURL())
}

func TestLoadEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMM_IDENTITY_URL=http://auth.local:9000\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.dev"), []byte("SMM_IDENTITY_URL=http://auth.dev:9000\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("SMM_IDENTITY_URL", "")

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{".env", ".env.dev"}, loaded)
	assert.Equal(t, "http://auth.dev:9000", FromEnv().IdentityURL)
}

func TestLoadEnvWithoutFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadEnvReportsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SMM-POST-URL=http://posts.local\n"), 0o600))
	t.Chdir(dir)

	_, err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestEnvSecondsRejectsNonPositive(t *testing.T) {
	t.Setenv("SMM_HTTP_TIMEOUT_SECONDS", "-3")
	assert.Equal(t, Default().HTTPTimeout, FromEnv().HTTPTimeout)
	t.Setenv("SMM_HTTP_TIMEOUT_SECONDS", " 7 ")
	assert.Equal(t, 7*time.Second, FromEnv().HTTPTimeout)
}

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	assert.Equal(t, "debug", LogLevel().String())
	t.Setenv("LOG_LEVEL", "warning")
	assert.Equal(t, "warning", LogLevel().String())
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, "info", LogLevel().String())
	t.Setenv("LOG_LEVEL", "loud")
	assert.Equal(t, "info", LogLevel().String())
}
