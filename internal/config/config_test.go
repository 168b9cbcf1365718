package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no stray .env
	for name := range envKeys {
		t.Setenv(name, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(name))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "Production")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "peliculas")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("EVENTS_ENABLED", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "catalog", cfg.DB.User)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, "peliculas", cfg.DB.Name)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "catalog.events", cfg.Events.Queue)
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoad_SQLiteNeedsNoServer(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "catalog.db")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "catalog.db", cfg.DB.Path)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "5400", cfg.App.Port)
	assert.Equal(t, "root", cfg.DB.User)
	assert.Equal(t, "root", cfg.DB.Password)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "gestionpeliculas", cfg.DB.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Events.Enabled)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
