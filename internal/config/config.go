package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Reports ReportConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
	Mode string // gin mode: debug, release or test
}

// ReportConfig holds defaults for the reporting endpoints
type ReportConfig struct {
	DefaultLimit int // applied when a report request carries no limit
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Mode: getEnv("GIN_MODE", "debug"),
		},
		Reports: ReportConfig{
			DefaultLimit: getEnvAsInt("REPORT_DEFAULT_LIMIT", 10),
		},
	}
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
