package config

import (
	"os"
	"strconv"
	"time"
)

// Config is loaded once at startup and read-only afterwards. Business
// logic never reads the environment directly.
type Config struct {
	Port    string
	TLSPort string

	AdminUsername string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration

	GuardBaseURL string
	GuardSecret  string
	GuardTimeout time.Duration

	PublicDir    string
	HistoryLimit int
	DevMode      bool

	PostgresEnabled  bool
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "3000"),
		TLSPort:          getEnv("TLS_PORT", ""),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "phong123"),
		SessionSecret:    getEnv("SESSION_SECRET", "infinity_dashboard_secret_2024"),
		SessionTTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),
		GuardBaseURL:     getEnv("GUARD_BASE_URL", ""),
		GuardSecret:      getEnv("GUARD_SECRET", ""),
		GuardTimeout:     getEnvDuration("GUARD_TIMEOUT", 10*time.Second),
		PublicDir:        getEnv("PUBLIC_DIR", "./public"),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 200),
		DevMode:          getEnvBool("DEV_MODE", false),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "ibg_dashboard"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
	}
}

// Delegated reports whether a guard service is configured. The mode is
// fixed for the process lifetime.
func (c *Config) Delegated() bool {
	return c.GuardBaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
