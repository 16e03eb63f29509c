package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	BackendURL            string
	BackendTimeout        time.Duration
	DisplayTimezone       string
	ClockInterval         time.Duration
	HomePollInterval      time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	RedisAddr             string
	ReportCacheTTL        time.Duration
	JournalPath           string
	MetricsAddr           string
}

// LoadFromEnv loads configuration from environment variables. Values that
// fail to parse fall back to their defaults.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		BackendURL:            getEnv("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:        getDuration("BACKEND_TIMEOUT", 10*time.Second),
		DisplayTimezone:       getEnv("DISPLAY_TIMEZONE", "Asia/Kuala_Lumpur"),
		ClockInterval:         getDuration("CLOCK_INTERVAL", time.Second),
		HomePollInterval:      getDuration("HOME_POLL_INTERVAL", 5*time.Second),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		ReportCacheTTL:        getDuration("REPORT_CACHE_TTL", 10*time.Minute),
		JournalPath:           getEnv("JOURNAL_PATH", "./data/journal.db"),
		MetricsAddr:           getEnvAllowEmpty("METRICS_ADDR", ":9090"),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvAllowEmpty treats an explicitly empty variable as a value, so it can
// switch a feature off.
func getEnvAllowEmpty(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
