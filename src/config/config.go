package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port             string
	LogLevel         string
	AllowedOrigin    string
	MaxRequestBytes  int64
	MaxPagesPerDoc   int
	ResultCacheTTL   time.Duration
	ResultCacheSweep time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxRequestBytesStr := getEnv("MAX_REQUEST_BYTES", "10485760")
	maxRequestBytes, err := strconv.ParseInt(maxRequestBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_REQUEST_BYTES format '%s'. Using default 10MB. Error: %v", maxRequestBytesStr, err)
		maxRequestBytes = 10 * 1024 * 1024
	}

	resultCacheTTL := getEnvAsDuration("RESULT_CACHE_TTL", 15*time.Minute)
	resultCacheSweep := getEnvAsDuration("RESULT_CACHE_SWEEP", 30*time.Minute)

	Cfg = &AppConfig{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		MaxRequestBytes:  maxRequestBytes,
		MaxPagesPerDoc:   getEnvAsInt("MAX_PAGES_PER_DOC", 500),
		ResultCacheTTL:   resultCacheTTL,
		ResultCacheSweep: resultCacheSweep,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, MaxRequestBytes=%d, MaxPagesPerDoc=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.MaxRequestBytes, Cfg.MaxPagesPerDoc)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
