package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL    string
	APITimeout    time.Duration // 0 means requests never time out
	ServerPort    string
	SessionDBPath string // empty keeps the session in memory only
	MessageTTL    time.Duration

	LogLevel       string
	LogDevelopment bool

	MockAPIPort        string
	JWTSecret          string
	JWTExpirationHours time.Duration
	AdminUsername      string
	AdminPassword      string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	jwtExpHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	logDev, _ := strconv.ParseBool(getEnv("LOG_DEVELOPMENT", "false"))

	return &Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://127.0.0.1:5000"),
		APITimeout:    getDuration("API_TIMEOUT", 0),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		SessionDBPath: getEnv("SESSION_DB_PATH", ""),
		MessageTTL:    getDuration("MESSAGE_TTL", 3*time.Second),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: logDev,

		MockAPIPort:        getEnv("MOCKAPI_PORT", "5000"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,
		AdminUsername:      getEnv("MOCKAPI_ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("MOCKAPI_ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("warning: invalid duration %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
