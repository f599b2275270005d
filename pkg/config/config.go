package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	SiteURL                 string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	JWTSecret               string
	DeliveryWorkers         int
	DeliveryTimeout         time.Duration
	NotificationRetention   time.Duration
}

func Load() *Config {
	// .env must be read before the lookups below, or file-only values never
	// reach the Config
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		SiteURL:                 getEnv("SITE_URL", "http://localhost:8080"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		DeliveryWorkers:         getEnvInt("DELIVERY_WORKERS", 4),
		DeliveryTimeout:         time.Duration(getEnvInt("DELIVERY_TIMEOUT_SECONDS", 10)) * time.Second,
		NotificationRetention:   time.Duration(getEnvInt("NOTIFICATION_RETENTION_DAYS", 90)) * 24 * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}
