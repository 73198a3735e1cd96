package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/civicscribe/intake/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, ".civicscribe/sessions", cfg.Store.Path)
	assert.Equal(t, 30*time.Second, cfg.Session.LockTTL)
	assert.Equal(t, 720*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Zero(t, cfg.Pacing)
}

func TestLoad_FilesAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "civicscribe.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log:
  level: debug
pacing: 400ms
store:
  driver: redis
  redis:
    addr: cache:6379
    db: 2
`), 0o600))

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CIVICSCRIBE_SERVER_ADDR=127.0.0.1:9000\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CIVICSCRIBE_SERVER_ADDR") })

	t.Setenv("CIVICSCRIBE_LOG_FORMAT", "json")

	cfg, err := config.Load(viper.New(), file, envFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format, "environment overrides defaults")
	assert.Equal(t, 400*time.Millisecond, cfg.Pacing)
	assert.Equal(t, config.DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr, ".env is applied")
}

func TestLoad_BoundValuesWin(t *testing.T) {
	t.Setenv("CIVICSCRIBE_STORE_DRIVER", "file")
	v := viper.New()
	v.Set("store.driver", "memory")

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.Load(viper.New(), "")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"unknown driver", func(c *config.Config) { c.Store.Driver = "sqlite" }, "Config.Store.Driver"},
		{"file driver without path", func(c *config.Config) { c.Store.Path = "" }, "Config.Store.Path"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "Config.Log.Format"},
		{"negative pacing", func(c *config.Config) { c.Pacing = -time.Second }, "Config.Pacing"},
		{"zero lock ttl", func(c *config.Config) { c.Session.LockTTL = 0 }, "Config.Session.LockTTL"},
		{"key not base64", func(c *config.Config) { c.Store.EncryptionKey = "%%%" }, "Config.Store.EncryptionKey"},
		{"redis without addr", func(c *config.Config) {
			c.Store.Driver = config.DriverRedis
			c.Store.Redis.Addr = ""
		}, "RedisConfig.Addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("redis settings ignored for other drivers", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Redis.Addr = ""
		assert.NoError(t, cfg.Validate())
	})
}
