package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Lanes
	TickRateHz            int
	BroadcastHz           float64
	MaxSessions           int
	IdleTimeoutSeconds    int
	IdleWorkerPollSeconds int
	TuningFile            string

	// Security
	JWTSecret           string
	LaneTokenTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/lanes?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Lanes
		TickRateHz:            getEnvInt("TICK_RATE_HZ", 60),
		BroadcastHz:           getEnvFloat("BROADCAST_HZ", 10),
		MaxSessions:           getEnvInt("MAX_SESSIONS", 64),
		IdleTimeoutSeconds:    getEnvInt("IDLE_TIMEOUT_SECONDS", 600),
		IdleWorkerPollSeconds: getEnvInt("IDLE_WORKER_POLL_SECONDS", 15),
		TuningFile:            getEnv("TUNING_FILE", ""),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		LaneTokenTTLMinutes: getEnvInt("LANE_TOKEN_TTL_MINUTES", 120),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
