package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.RateLimits.AnalyzeBurst)
	assert.InDelta(t, 0.5, cfg.RateLimits.AnalyzeRPS, 1e-9)
	assert.Zero(t, cfg.DB.MaxOpenConns)
}

func TestFromViperReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://localhost/recruit")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_PING_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_READ_RPS", "12.5")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 8, cfg.WorkerConcurrency)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 2*time.Second, cfg.DB.PingTimeout)
	assert.InDelta(t, 12.5, cfg.RateLimits.ReadRPS, 1e-9)
}

func TestFromViperValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "production without database", env: map[string]string{"ENV": "production"}},
		{name: "unknown store", env: map[string]string{"OBJECT_STORE": "gcs"}},
		{name: "s3 without bucket", env: map[string]string{"OBJECT_STORE": "s3"}},
		{name: "zero concurrency", env: map[string]string{"WORKER_CONCURRENCY": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("S3_PREFIX=from-file\nPORT=7000\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("PORT", "9191")
	t.Setenv("S3_PREFIX", "")
	os.Unsetenv("S3_PREFIX")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)
	assert.Equal(t, "from-file", cfg.S3Prefix)
}
