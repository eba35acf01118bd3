package initializers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpire)
	assert.Equal(t, "file://db/migrations", cfg.MigrationsPath)
	assert.False(t, cfg.UseS3())
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP().Host)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		ok   bool
	}{
		{"missing secret", map[string]string{}, false},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "redis"}, false},
		{"postgres without dsn", map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "postgres"}, false},
		{"postgres", map[string]string{"JWT_SECRET": "s", "STORE_DRIVER": "postgres", "DIRECT_URL": "postgres://localhost/db"}, true},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "JWT_EXPIRE": "soon"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			os.Unsetenv("JWT_SECRET")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfigS3AndCORS(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SUPABASE_BUCKET", "portfolio")
	t.Setenv("SUPABASE_S3_ENDPOINT", "https://proj.supabase.co/storage/v1/s3")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.UseS3())
	assert.Equal(t, "portfolio", cfg.S3().Bucket)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("PORTFOLIO_TEST_VALUE=loaded\n"), 0o600))
	t.Setenv("PORTFOLIO_TEST_VALUE", "")
	os.Unsetenv("PORTFOLIO_TEST_VALUE")

	require.NoError(t, LoadEnv(file, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("PORTFOLIO_TEST_VALUE"))
}
