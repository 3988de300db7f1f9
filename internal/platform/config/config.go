package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	AppEnv  string

	AccessTokenSecret  []byte
	AccessTokenExp     time.Duration
	RefreshTokenSecret []byte
	RefreshTokenExp    time.Duration

	AWSRegion          string
	AWSEndpoint        string // optional, for local DynamoDB
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	UsersTable        string
	ProblemsTable     string
	ProgressTable     string
	TechProductsTable string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MediaBaseURL   string

	RedisAddr     string
	RedisPassword string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort: getEnv("API_PORT", "8080"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AccessTokenSecret:  []byte(getEnv("JWT_SECRET", "dev-access-secret-change-me")),
		AccessTokenExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		RefreshTokenSecret: []byte(getEnv("JWT_REFRESH_SECRET", "dev-refresh-secret-change-me")),
		RefreshTokenExp:    time.Duration(getEnvAsInt("JWT_REFRESH_EXPIRATION_HOURS", 7*24)) * time.Hour,

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		UsersTable:        getEnv("USERS_TABLE_NAME", "users"),
		ProblemsTable:     getEnv("DSA_TABLE_NAME", "dsa-problems"),
		ProgressTable:     getEnv("USER_PROGRESS_TABLE_NAME", "user-progress"),
		TechProductsTable: getEnv("TECH_PRODUCTS_TABLE_NAME", "tech-products"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "prephub-media"),
		MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		MediaBaseURL:   getEnv("MEDIA_BASE_URL", "http://localhost:9000/prephub-media"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AuthRateLimit:  getEnvAsInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: time.Duration(getEnvAsInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}

	return cfg
}

// IsProduction reports whether the server should withhold internal error detail.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
