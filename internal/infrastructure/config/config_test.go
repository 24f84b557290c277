package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SALESOPS_APP_NAME":                os.Getenv("SALESOPS_APP_NAME"),
		"SALESOPS_APP_ENV":                 os.Getenv("SALESOPS_APP_ENV"),
		"SALESOPS_APP_PORT":                os.Getenv("SALESOPS_APP_PORT"),
		"SALESOPS_DATABASE_HOST":           os.Getenv("SALESOPS_DATABASE_HOST"),
		"SALESOPS_DATABASE_PORT":           os.Getenv("SALESOPS_DATABASE_PORT"),
		"SALESOPS_DATABASE_USER":           os.Getenv("SALESOPS_DATABASE_USER"),
		"SALESOPS_DATABASE_PASSWORD":       os.Getenv("SALESOPS_DATABASE_PASSWORD"),
		"SALESOPS_DATABASE_DBNAME":         os.Getenv("SALESOPS_DATABASE_DBNAME"),
		"SALESOPS_DATABASE_SSLMODE":        os.Getenv("SALESOPS_DATABASE_SSLMODE"),
		"SALESOPS_DATABASE_MAX_OPEN_CONNS": os.Getenv("SALESOPS_DATABASE_MAX_OPEN_CONNS"),
		"SALESOPS_DATABASE_MAX_IDLE_CONNS": os.Getenv("SALESOPS_DATABASE_MAX_IDLE_CONNS"),
		"SALESOPS_REDIS_ENABLED":           os.Getenv("SALESOPS_REDIS_ENABLED"),
		"SALESOPS_IDEMPOTENCY_ENABLED":     os.Getenv("SALESOPS_IDEMPOTENCY_ENABLED"),
		"SALESOPS_IDEMPOTENCY_TTL":         os.Getenv("SALESOPS_IDEMPOTENCY_TTL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "salesops-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "salesops", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	})

	t.Run("loads values from environment variables with SALESOPS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESOPS_APP_NAME", "test-app")
		os.Setenv("SALESOPS_APP_ENV", "testing")
		os.Setenv("SALESOPS_APP_PORT", "9000")
		os.Setenv("SALESOPS_DATABASE_HOST", "testdb.local")
		os.Setenv("SALESOPS_DATABASE_PORT", "5433")
		os.Setenv("SALESOPS_DATABASE_USER", "testuser")
		os.Setenv("SALESOPS_DATABASE_PASSWORD", "testpass")
		os.Setenv("SALESOPS_DATABASE_DBNAME", "testdb")
		os.Setenv("SALESOPS_DATABASE_SSLMODE", "require")
		os.Setenv("SALESOPS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("SALESOPS_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("SALESOPS_IDEMPOTENCY_ENABLED", "true")
		os.Setenv("SALESOPS_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Idempotency.Enabled)
		assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESOPS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SALESOPS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESOPS_APP_ENV", "production")
		os.Setenv("SALESOPS_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("production rejects disabled SSL", func(t *testing.T) {
		clearEnv()
		os.Setenv("SALESOPS_APP_ENV", "production")
		os.Setenv("SALESOPS_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "salesops",
		Password: "p@ss/word",
		DBName:   "salesops",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}

	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
