package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/DhavalSuthar-24/courtside/config"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestLoadConfigLayersFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: "9000"
  env: test
outbox:
  batch_size: 25
log:
  format: console
`), 0o600))

	t.Setenv(config.ConfigPathEnvVar, path)
	t.Setenv("OUTBOX_BATCH_SIZE", "5")
	t.Setenv("OUTBOX_INTERVAL", "750ms")
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Outbox.BatchSize)
	assert.Equal(t, 750*time.Millisecond, cfg.Outbox.Interval)
	assert.Equal(t, "s3cret", cfg.JWT.AccessTokenSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
	assert.Equal(t, config.Default().Outbox.MaxAttempts, cfg.Outbox.MaxAttempts)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown env", func(c *config.Config) { c.App.Env = "staging" }},
		{"unknown driver", func(c *config.Config) { c.DB.Driver = "mysql" }},
		{"empty secret", func(c *config.Config) { c.JWT.AccessTokenSecret = "" }},
		{"s3 without bucket", func(c *config.Config) { c.Storage.Backend = "s3"; c.Storage.Endpoint = "https://r2.test" }},
		{"zero outbox interval", func(c *config.Config) { c.Outbox.Interval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDialector(t *testing.T) {
	d, err := config.Dialector(config.DBConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	require.IsType(t, &sqlite.Dialector{}, d)
	assert.Equal(t, config.SQLiteDSN(":memory:"), d.(*sqlite.Dialector).DSN)

	d, err = config.Dialector(config.DBConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = config.Dialector(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSQLiteSerialisesWriters(t *testing.T) {
	dsn := config.SQLiteDSN("courtside.db")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Contains(t, dsn, "_busy_timeout=5000")

	cfg := config.Default()
	cfg.App.Env = "test"
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "courtside.db")

	db, err := config.ConnectDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, config.Migrate(db))
}
