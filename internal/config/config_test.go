package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "fa", cfg.DefaultLocale)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.AdminEnabled())
	assert.Equal(t, []byte(DevJWTSecret), cfg.Secret())
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AHP_ADDR", "127.0.0.1:9000")
	t.Setenv("AHP_DB_PATH", "/tmp/ahp.db")
	t.Setenv("AHP_DEFAULT_LOCALE", "en")
	t.Setenv("AHP_ADMIN_EMAIL", "admin@example.com")
	t.Setenv("AHP_ADMIN_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("AHP_JWT_SECRET", "s3cret")
	t.Setenv("AHP_TOKEN_TTL", "2h")
	t.Setenv("AHP_LOG_FORMAT", "text")
	t.Setenv("AHP_SNAPSHOT_PATH", "/tmp/ahp.json")
	t.Setenv("AHP_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "/tmp/ahp.db", cfg.DBPath)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.True(t, cfg.AdminEnabled())
	assert.Equal(t, []byte("s3cret"), cfg.Secret())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "/tmp/ahp.json", cfg.SnapshotPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("admin half configured", func(t *testing.T) {
		t.Setenv("AHP_ADMIN_EMAIL", "admin@example.com")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("AHP_TOKEN_TTL", "soon")
		_, err := Load()
		require.ErrorContains(t, err, "parse env:")
	})
	t.Run("bad log format", func(t *testing.T) {
		t.Setenv("AHP_LOG_FORMAT", "xml")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "text"}
	log := cfg.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown") && strings.Contains(out, "k=v"))

	buf.Reset()
	cfg = &Config{LogLevel: "nonsense", LogFormat: "json"}
	cfg.NewLogger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
