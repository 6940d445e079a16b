package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VALIDATION_MODE", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ALLOWED_IMAGE_TYPES", "")

	cfg := Load()
	assert.Equal(t, "strict", cfg.ValidationMode)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/gif"}, cfg.ImageTypes())
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("VALIDATION_MODE", "lenient")
	t.Setenv("DB_MAX_CONN_LIFETIME", "30m")
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "lenient", cfg.ValidationMode)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLife)
	assert.True(t, cfg.NotifyEnabled)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "high")
	t.Setenv("NOTIFY_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.NotifyEnabled)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.PostgresDSN())
}
