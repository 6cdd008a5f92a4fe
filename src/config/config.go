package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Currency settings
	DefaultUSDToIQD float64
	// Optional band for newly entered rates; 0 disables a side.
	MinUSDToIQD     float64
	MaxUSDToIQD     float64

	// Refresh & caching
	BalanceRefreshInterval time.Duration
	SummaryCacheTTL        time.Duration
	Timezone               string
	Location               *time.Location

	// HTTP surface
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")
	Cfg = fromEnv()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, DefaultRate=%v, Timezone=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.DefaultUSDToIQD, Cfg.Timezone)
}

func fromEnv() *AppConfig {
	defaultRate := getEnvAsFloat("DEFAULT_USD_TO_IQD", 1440)
	if defaultRate <= 0 {
		log.Printf("WARNING: DEFAULT_USD_TO_IQD must be positive, got %v. Using 1440.", defaultRate)
		defaultRate = 1440
	}

	timezone := getEnv("TIMEZONE", "Asia/Baghdad")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("WARNING: Unknown TIMEZONE '%s', falling back to UTC. Error: %v", timezone, err)
		timezone, location = "UTC", time.UTC
	}

	refresh := getEnvAsDuration("BALANCE_REFRESH_INTERVAL", 60*time.Second)
	if refresh < time.Second {
		log.Printf("WARNING: BALANCE_REFRESH_INTERVAL %s is too short, using 1s.", refresh)
		refresh = time.Second
	}

	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./shop.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		DefaultUSDToIQD: defaultRate,
		MinUSDToIQD:     getEnvAsFloat("MIN_USD_TO_IQD", 0),
		MaxUSDToIQD:     getEnvAsFloat("MAX_USD_TO_IQD", 0),

		BalanceRefreshInterval: refresh,
		SummaryCacheTTL:        getEnvAsDuration("SUMMARY_CACHE_TTL", 60*time.Second),
		Timezone:               timezone,
		Location:               location,

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 30),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := cast.ToFloat64E(strings.TrimSpace(valueStr)); err == nil {
		return value
	}
	log.Printf("Invalid number for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
