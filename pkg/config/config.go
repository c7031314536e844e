package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	JWTSecret string
	JWTExpiry int64

	RedisURL string

	RequestTimeout   time.Duration
	AllowedOrigins   []string
	MetricsNamespace string

	ChatHistoryLimit int
	StoryTTL         time.Duration
	MaxUploadBytes   int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", "./firebase-service-account.json"),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		JWTExpiry: getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours

		RedisURL: getEnv("REDIS_URL", ""),

		RequestTimeout:   time.Duration(getEnvAsInt64("REQUEST_TIMEOUT", 15)) * time.Second,
		AllowedOrigins:   getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "greia"),

		ChatHistoryLimit: int(getEnvAsInt64("CHAT_HISTORY_LIMIT", 50)),
		StoryTTL:         time.Duration(getEnvAsInt64("STORY_TTL_HOURS", 24)) * time.Hour,
		MaxUploadBytes:   getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
