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
		"TRADELINK_APP_NAME":                os.Getenv("TRADELINK_APP_NAME"),
		"TRADELINK_APP_ENV":                 os.Getenv("TRADELINK_APP_ENV"),
		"TRADELINK_APP_PORT":                os.Getenv("TRADELINK_APP_PORT"),
		"TRADELINK_DATABASE_HOST":           os.Getenv("TRADELINK_DATABASE_HOST"),
		"TRADELINK_DATABASE_PORT":           os.Getenv("TRADELINK_DATABASE_PORT"),
		"TRADELINK_DATABASE_USER":           os.Getenv("TRADELINK_DATABASE_USER"),
		"TRADELINK_DATABASE_PASSWORD":       os.Getenv("TRADELINK_DATABASE_PASSWORD"),
		"TRADELINK_DATABASE_DBNAME":         os.Getenv("TRADELINK_DATABASE_DBNAME"),
		"TRADELINK_DATABASE_SSLMODE":        os.Getenv("TRADELINK_DATABASE_SSLMODE"),
		"TRADELINK_DATABASE_MAX_OPEN_CONNS": os.Getenv("TRADELINK_DATABASE_MAX_OPEN_CONNS"),
		"TRADELINK_DATABASE_MAX_IDLE_CONNS": os.Getenv("TRADELINK_DATABASE_MAX_IDLE_CONNS"),
		"TRADELINK_EDI_MAX_MESSAGE_SIZE":    os.Getenv("TRADELINK_EDI_MAX_MESSAGE_SIZE"),
		"TRADELINK_EDI_DEDUP_TTL":           os.Getenv("TRADELINK_EDI_DEDUP_TTL"),
		"TRADELINK_TRANSPORT_ENABLED":       os.Getenv("TRADELINK_TRANSPORT_ENABLED"),
		"TRADELINK_TRANSPORT_CLUSTER_ID":    os.Getenv("TRADELINK_TRANSPORT_CLUSTER_ID"),
		"TRADELINK_ARCHIVE_ENABLED":         os.Getenv("TRADELINK_ARCHIVE_ENABLED"),
		"TRADELINK_ARCHIVE_BUCKET":          os.Getenv("TRADELINK_ARCHIVE_BUCKET"),
		"APP_ENV":                           os.Getenv("APP_ENV"),
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

		assert.Equal(t, "tradelink-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "tradelink", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("applies exchange defaults", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 1<<20, cfg.EDI.MaxMessageSize)
		assert.Equal(t, 24*time.Hour, cfg.EDI.DedupTTL)
		assert.Equal(t, 30*time.Second, cfg.EDI.DispatchInterval)
		assert.Equal(t, 50, cfg.EDI.DispatchBatchSize)
		assert.Equal(t, 4, cfg.EDI.DispatchWorkers)
		assert.Equal(t, "nats://localhost:4222", cfg.Transport.URL)
		assert.Equal(t, "edi.orders.outbound", cfg.Transport.OutboundSubject)
		assert.Equal(t, "edi.orders.inbound", cfg.Transport.InboundSubject)
		assert.Equal(t, "tradelink-interchanges", cfg.Archive.Bucket)
		assert.Equal(t, "interchanges", cfg.Archive.KeyPrefix)
	})

	t.Run("loads values from environment variables with TRADELINK prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_APP_NAME", "test-app")
		os.Setenv("TRADELINK_APP_ENV", "testing")
		os.Setenv("TRADELINK_APP_PORT", "9000")
		os.Setenv("TRADELINK_DATABASE_HOST", "testdb.local")
		os.Setenv("TRADELINK_DATABASE_PORT", "5433")
		os.Setenv("TRADELINK_DATABASE_USER", "testuser")
		os.Setenv("TRADELINK_DATABASE_PASSWORD", "testpass")
		os.Setenv("TRADELINK_DATABASE_DBNAME", "testdb")
		os.Setenv("TRADELINK_DATABASE_SSLMODE", "require")
		os.Setenv("TRADELINK_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("TRADELINK_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("TRADELINK_EDI_MAX_MESSAGE_SIZE", "65536")

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
		assert.Equal(t, 65536, cfg.EDI.MaxMessageSize)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("TRADELINK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("validates negative max message size", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_EDI_MAX_MESSAGE_SIZE", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "edi.max_message_size must be positive")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"TRADELINK_APP_ENV":           os.Getenv("TRADELINK_APP_ENV"),
		"TRADELINK_DATABASE_PASSWORD": os.Getenv("TRADELINK_DATABASE_PASSWORD"),
		"TRADELINK_DATABASE_SSLMODE":  os.Getenv("TRADELINK_DATABASE_SSLMODE"),
		"TRADELINK_ARCHIVE_ENABLED":   os.Getenv("TRADELINK_ARCHIVE_ENABLED"),
		"TRADELINK_ARCHIVE_BUCKET":    os.Getenv("TRADELINK_ARCHIVE_BUCKET"),
		"APP_ENV":                     os.Getenv("APP_ENV"),
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

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("TRADELINK_APP_ENV", "production")
		os.Setenv("TRADELINK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("TRADELINK_DATABASE_SSLMODE", "require")
		os.Setenv("TRADELINK_ARCHIVE_ENABLED", "true")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_APP_ENV", "production")
		os.Setenv("TRADELINK_DATABASE_SSLMODE", "require")
		os.Setenv("TRADELINK_ARCHIVE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_APP_ENV", "production")
		os.Setenv("TRADELINK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("TRADELINK_DATABASE_SSLMODE", "disable")
		os.Setenv("TRADELINK_ARCHIVE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires archive enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRADELINK_APP_ENV", "production")
		os.Setenv("TRADELINK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("TRADELINK_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archive.enabled must be true in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
		assert.True(t, cfg.Archive.Enabled)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
