// Package config provides centralized default values for FleetPulse
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Upstream API
	UpstreamBaseURL      string
	UpstreamTokenURL     string
	UpstreamClientID     string
	UpstreamClientSecret string
	UpstreamTimeout      time.Duration
	PaginationLimit      int

	// Cache TTLs
	RawAnalyticsTTL  time.Duration
	SessionsCacheTTL time.Duration
	FeedbackCacheTTL time.Duration

	// Auth
	AdminPassword string
	JWTSecret     string
	AdminTokenTTL time.Duration

	// Startup behavior
	WarmOnStartup bool

	// Logging
	LogDirectory string
	LogToFile    bool
)

func init() {
	// .env values never override variables already set in the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration overrides from .env file")
	}

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Upstream API
	UpstreamBaseURL = getEnvString("UPSTREAM_BASE_URL", "http://localhost:9090")
	UpstreamTokenURL = getEnvString("UPSTREAM_TOKEN_URL", UpstreamBaseURL+"/oauth/token")
	UpstreamClientID = getEnvString("UPSTREAM_CLIENT_ID", "")
	UpstreamClientSecret = getEnvString("UPSTREAM_CLIENT_SECRET", "")
	UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second)
	PaginationLimit = getEnvInt("PAGINATION_LIMIT", 1000)

	// Cache TTLs. Anything between 2 and 5 minutes is sane; the raw
	// analytics and sessions caches default to the shortest window.
	RawAnalyticsTTL = getEnvDuration("RAW_ANALYTICS_TTL", 2*time.Minute)
	SessionsCacheTTL = getEnvDuration("SESSIONS_CACHE_TTL", 2*time.Minute)
	FeedbackCacheTTL = getEnvDuration("FEEDBACK_CACHE_TTL", 5*time.Minute)

	// Auth
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminTokenTTL = getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour)

	// Startup behavior
	WarmOnStartup = getEnvBool("WARM_ON_STARTUP", true)

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", true)
}
