package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		FileEnv, "ADDR", "PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH", "JWT_SECRET",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "BCRYPT_COST", "LOGIN_URL", "LOG_LEVEL",
		"LOG_FORMAT", "SMTP_HOST", "SMTP_PORT", "EMAIL_FROM", "EMAIL_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/tasks", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "taskmanager.toml")
	content := `
addr = ":7000"
db_driver = "sqlite"
sqlite_path = "/tmp/tasks.db"
jwt_secret = "from-file"
access_token_ttl = "30m"
log_format = "json"

[smtp]
host = "mail.internal"
from = "noreply@example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(FileEnv, path)
	t.Setenv("LOG_FORMAT", "logfmt")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/tasks.db", cfg.SQLitePath)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "logfmt", cfg.LogFormat)
	assert.Equal(t, "mail.internal", cfg.SMTP.Host)
	assert.Equal(t, "noreply@example.com", cfg.SMTP.From)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"DATABASE_URL": "postgres://x"}},
		{name: "missing database url", env: map[string]string{"JWT_SECRET": "s"}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "oracle"}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "DATABASE_URL": "postgres://x", "ACCESS_TOKEN_TTL": "soon"}},
		{name: "bad bcrypt cost", env: map[string]string{"JWT_SECRET": "s", "DATABASE_URL": "postgres://x", "BCRYPT_COST": "high"}},
		{name: "missing config file", env: map[string]string{FileEnv: "/nonexistent/taskmanager.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
