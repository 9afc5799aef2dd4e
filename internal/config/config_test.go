package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "UPLOAD_DIR", "PUBLIC_BASE_URL", "CORS_ORIGINS", "RASTERIZER",
		"STORAGE_BACKEND", "MAX_UPLOAD_MB", "RATE_LIMIT_PER_MIN", "SHUTDOWN_TIMEOUT", "DEFAULT_LOCK_PASSWORD", "S3_SECURE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Empty(t, cfg.PublicBaseURL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "fitz", cfg.Rasterizer)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "secure123", cfg.DefaultLockPassword)
	assert.True(t, cfg.S3.Secure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PUBLIC_BASE_URL", "http://files.local:9000/")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("S3_SECURE", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://files.local:9000", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.S3.Secure)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}
