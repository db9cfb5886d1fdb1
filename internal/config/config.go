package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	JWTLifetime time.Duration
	UploadDir   string
	CORSOrigins string
	GinMode     string
}

func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8000"),
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "kaosekai"),
		DBPassword:  getEnv("DB_PASSWORD", "kaosekai"),
		DBName:      getEnv("DB_NAME", "kaosekai"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTLifetime: getDurationEnv("JWT_EXPIRES_IN", 30*24*time.Hour),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		CORSOrigins: getEnv("CORS_ORIGIN", ""),
		GinMode:     getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
