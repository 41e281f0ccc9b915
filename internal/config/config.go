package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	API       APIConfig
	ViaCEP    ViaCEPConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
	LogLevel  slog.Level
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port           int
	AllowedOrigins []string
}

// ViaCEPConfig holds postal code lookup configuration
type ViaCEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig holds the optional Redis address cache configuration.
// An empty RedisURL disables the cache.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// TelemetryConfig holds tracing configuration.
// An empty OTLPEndpoint disables trace export.
type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	viaCEPTimeout, err := time.ParseDuration(getEnv("VIACEP_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIACEP_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CEP_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CEP_CACHE_TTL: %w", err)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "cliente_api"),
			Password: getEnv("DB_PASSWORD", "cliente_api"),
			DBName:   getEnv("DB_NAME", "cliente_api"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		API: APIConfig{
			Port:           apiPort,
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		ViaCEP: ViaCEPConfig{
			BaseURL: getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
			Timeout: viaCEPTimeout,
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			TTL:      cacheTTL,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "customer-api"),
		},
		LogLevel: logLevel,
	}, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
