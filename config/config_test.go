package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CONTENT_BACKEND", "")
	t.Setenv("UPLOAD_PUBLIC_URL", "")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendFile, cfg.ContentBackend)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "http://localhost:8080/uploads", cfg.UploadPublicURL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9002")
	t.Setenv("CONTENT_BACKEND", "Mongo")
	t.Setenv("CACHE_TTL", "90")
	t.Setenv("ADMIN_SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WATCH_FIXTURES", "true")

	cfg := LoadConfig()

	assert.Equal(t, 9002, cfg.Port)
	assert.Equal(t, BackendMongo, cfg.ContentBackend)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.AdminSessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.WatchFixtures)
}

func validConfig() *Config {
	return &Config{
		Port:           8080,
		ContentBackend: BackendFile,
		UploadBackend:  UploadLocal,
		AdminPassword:  "pw",
		JWTKey:         "test-key",
		CacheTTL:       time.Minute,
	}
}

func TestValidateAllowsDefaultJWTKeyInDebug(t *testing.T) {
	cfg := validConfig()
	cfg.Debug = true
	cfg.JWTKey = DefaultJWTKey
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.ContentBackend = "sqlite" }, "CONTENT_BACKEND"},
		{"password", func(c *Config) { c.AdminPassword = "" }, "ADMIN_PASSWORD"},
		{"s3 bucket", func(c *Config) { c.UploadBackend = UploadS3 }, "S3_BUCKET"},
		{"upload backend", func(c *Config) { c.UploadBackend = "ftp" }, "UPLOAD_BACKEND"},
		{"ttl", func(c *Config) { c.CacheTTL = 0 }, "CACHE_TTL"},
		{"default jwt key", func(c *Config) { c.JWTKey = DefaultJWTKey }, "JWT_KEY"},
		{"empty jwt key", func(c *Config) { c.JWTKey = "" }, "JWT_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
