package config

import (
	"os"
	"strconv"
)

// DefaultJWTSecret is the development fallback. Set JWT_SECRET in production.
const DefaultJWTSecret = "iot-ledger-dev-secret"

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
