package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	StorageDriver string
	SQLitePath    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	FileBaseURL   string
	SeedFixtures  bool
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
		SQLitePath:    getEnv("SQLITE_PATH", ":memory:"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "clinicaluser"),
		DBPassword:    getEnv("DB_PASSWORD", "clinicalpassword"),
		DBName:        getEnv("DB_NAME", "clinical_data"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		FileBaseURL:   strings.TrimRight(getEnv("FILE_BASE_URL", "https://files.example.com"), "/"),
		SeedFixtures:  getEnvBool("SEED_FIXTURES", true),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// UsesRedisSessions reports whether sessions are kept in Redis rather than cookies.
func (c *Config) UsesRedisSessions() bool {
	return c.RedisHost != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
