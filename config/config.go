// Package config loads server settings from .env, an optional TOML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// FileEnv names the environment variable pointing at a TOML config file.
	FileEnv = "TASKMANAGER_CONFIG"
)

type SMTP struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	From     string `toml:"from"`
	Password string `toml:"password"`
}

type Config struct {
	Addr            string        `toml:"addr"`
	DBDriver        string        `toml:"db_driver"`
	DatabaseURL     string        `toml:"database_url"`
	SQLitePath      string        `toml:"sqlite_path"`
	JWTSecret       string        `toml:"jwt_secret"`
	AccessTokenTTL  time.Duration `toml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `toml:"refresh_token_ttl"`
	BcryptCost      int           `toml:"bcrypt_cost"`
	LoginURL        string        `toml:"login_url"`
	LogLevel        string        `toml:"log_level"`
	LogFormat       string        `toml:"log_format"`
	SMTP            SMTP          `toml:"smtp"`
}

func Default() *Config {
	return &Config{
		Addr:            ":8080",
		DBDriver:        DriverPostgres,
		SQLitePath:      "taskmanager.db",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      12,
		LoginURL:        "/login",
		LogLevel:        "info",
		LogFormat:       "text",
		SMTP:            SMTP{Port: "587"},
	}
}

// Load reads .env (if present), then the TOML file named by TASKMANAGER_CONFIG
// (if set), then environment variables, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "ADDR")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ADDR") == "" {
		c.Addr = ":" + port
	}
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.SQLitePath, "SQLITE_PATH")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.LoginURL, "LOGIN_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Port, "SMTP_PORT")
	setString(&c.SMTP.From, "EMAIL_FROM")
	setString(&c.SMTP.Password, "EMAIL_PASSWORD")

	if err := setDuration(&c.AccessTokenTTL, "ACCESS_TOKEN_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.RefreshTokenTTL, "REFRESH_TOKEN_TTL"); err != nil {
		return err
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}
	return nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH not set")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
