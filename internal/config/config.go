package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all settings read from the environment at startup.
type Config struct {
	Port             string
	MongoURI         string
	MongoDB          string
	JWTSecret        string
	TokenExpiry      time.Duration
	BaseURL          string
	SchedulerEnabled bool
}

// LoadConfig reads the .env file (if present) and builds the Config.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	expiryHours, err := strconv.Atoi(getEnv("TOKEN_EXPIRY_HOURS", "24"))
	if err != nil {
		expiryHours = 24
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		schedulerEnabled = true
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "taskline"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenExpiry:      time.Duration(expiryHours) * time.Hour,
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
		SchedulerEnabled: schedulerEnabled,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
