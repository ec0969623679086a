// Package pgstore implements eventlog.Store on top of PostgreSQL, using
// pgx for queries and golang-migrate to apply the append-only schema.
package pgstore

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds connection and pool settings for Open.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// LoadConfigFromEnv reads connection settings from EVENTLOG_DB_* variables,
// falling back to production-reasonable defaults, mirroring the teacher's
// database configuration loader.
func LoadConfigFromEnv() (Config, error) {
	port, err := strconv.Atoi(getEnvOrDefault("EVENTLOG_DB_PORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EVENTLOG_DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnvOrDefault("EVENTLOG_DB_MAX_CONNS", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EVENTLOG_DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnvOrDefault("EVENTLOG_DB_MIN_CONNS", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EVENTLOG_DB_MIN_CONNS: %w", err)
	}
	maxLifetime, err := time.ParseDuration(getEnvOrDefault("EVENTLOG_DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EVENTLOG_DB_CONN_MAX_LIFETIME: %w", err)
	}
	maxIdleTime, err := time.ParseDuration(getEnvOrDefault("EVENTLOG_DB_CONN_MAX_IDLE_TIME", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid EVENTLOG_DB_CONN_MAX_IDLE_TIME: %w", err)
	}

	cfg := Config{
		Host:            getEnvOrDefault("EVENTLOG_DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("EVENTLOG_DB_USER", "meshrunner"),
		Password:        os.Getenv("EVENTLOG_DB_PASSWORD"),
		Database:        getEnvOrDefault("EVENTLOG_DB_NAME", "meshrunner"),
		SSLMode:         getEnvOrDefault("EVENTLOG_DB_SSLMODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: maxLifetime,
		MaxConnIdleTime: maxIdleTime,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg for internally inconsistent settings.
func (c Config) Validate() error {
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("EVENTLOG_DB_MIN_CONNS (%d) cannot exceed EVENTLOG_DB_MAX_CONNS (%d)", c.MinConns, c.MaxConns)
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("EVENTLOG_DB_MAX_CONNS must be at least 1")
	}
	return nil
}

// DSN builds a libpq-style connection string pgx and golang-migrate both
// accept.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
