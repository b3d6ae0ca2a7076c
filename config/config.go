package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	defaultAPIBaseURL         = "https://net.greenexweb.cl/api/v1"
	defaultDuplicateWindowHrs = 2
	defaultSyncTimeoutSecs    = 30
)

type Config struct {
	// database path (SQLite, WAL)
	DatabasePath string

	// remote authority base URL for push/pull
	APIBaseURL string

	// duplicate guard trailing window, in hours
	DuplicateWindowHours int

	// overall deadline for one sync invocation
	SyncTimeoutSeconds int

	// UI origin allowed by CORS
	AllowedOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "kptura.db")
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for database '%s': %w", dbPath, err)
	}

	cfg := Config{
		DatabasePath:         absDBPath,
		APIBaseURL:           getEnvOrDefault("API_BASE_URL", defaultAPIBaseURL),
		DuplicateWindowHours: getEnvIntOrDefault("DUPLICATE_WINDOW_HOURS", defaultDuplicateWindowHrs),
		SyncTimeoutSeconds:   getEnvIntOrDefault("SYNC_TIMEOUT_SECONDS", defaultSyncTimeoutSecs),
		AllowedOrigin:        getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:5173"),
	}

	return cfg, nil
}
