package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("AUTH_DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Media.Driver)
	assert.Equal(t, 30*time.Second, cfg.Catalog.SnapshotTTL)
	assert.Equal(t, 5*time.Minute, cfg.Directory.RebuildTTL)
	assert.True(t, cfg.Auth.DevMode)
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
store:
  driver: sqlite
  dsn: "file:pets.db"
auth:
  jwt_secret: "0123456789abcdef0123456789abcdef"
media:
  driver: s3
  bucket: pets
log:
  level: debug
  format: text
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "env wins over yaml")
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.True(t, cfg.Auth.UsesJWT())
	assert.Equal(t, "pets", cfg.Media.Bucket)
	assert.Equal(t, "us-east-1", cfg.Media.Region)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Store:   StoreConfig{Driver: "memory"},
			Auth:    AuthConfig{DevMode: true},
			Media:   MediaConfig{Driver: "memory"},
			Log:     LogConfig{Level: "info", Format: "json"},
			Catalog: CatalogConfig{SnapshotTTL: time.Second},
		}
	}

	c := valid()
	require.NoError(t, c.Validate())

	cases := map[string]func(c *Config){
		"postgres without dsn":   func(c *Config) { c.Store.Driver = "postgres" },
		"unknown store":          func(c *Config) { c.Store.Driver = "mongo" },
		"short jwt secret":       func(c *Config) { c.Auth.JWTSecret = "short" },
		"identity without key":   func(c *Config) { c.Auth.IdentityURL = "http://idp" },
		"no verifier no devmode": func(c *Config) { c.Auth.DevMode = false },
		"s3 without bucket":      func(c *Config) { c.Media.Driver = "s3" },
		"bad log level":          func(c *Config) { c.Log.Level = "verbose" },
		"bad log format":         func(c *Config) { c.Log.Format = "xml" },
		"bad port":               func(c *Config) { c.Server.Port = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
