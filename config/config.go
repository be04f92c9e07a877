package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORE_BACKEND
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Key-value storage configuration
	StoreBackend string
	SQLitePath   string

	// Database configuration (postgres backend)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	RedisURL       string
	RedisKeyPrefix string

	// Text generation (suggestions and location adaptation)
	TextProvider string
	TextModel    string
	TextAPIKey   string
	TextAPIURL   string

	// Image generation
	ImageProvider    string
	ImageModel       string
	ImageAPIKey      string
	ImageAPIURL      string
	ImageConcurrency int

	// Timeout applied to every outbound AI request
	HTTPTimeout time.Duration

	// Optional image archiving
	S3BucketName string
	AWSRegion    string

	// Refresh rate limiting (only when Redis is reachable)
	RefreshRateLimit  int
	RefreshRateWindow time.Duration
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) error {
	loadFromEnv(cfg)
	return nil
}

// loadDevConfig loads configuration for development, reading an optional .env file first
func loadDevConfig(cfg *Config) error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	loadFromEnv(cfg)
	applySecrets(cfg)
	return nil
}

// loadProdConfig loads configuration for production; API keys come from Docker secrets when present
func loadProdConfig(cfg *Config) error {
	loadFromEnv(cfg)
	applySecrets(cfg)
	return nil
}

func loadFromEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://frontend:5173"))

	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite))
	cfg.SQLitePath = getEnv("SQLITE_PATH", "whatshouldieat.db")

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnv("DB_NAME", "whatshouldieat")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", "whatshouldieat:")

	cfg.TextProvider = strings.ToLower(getEnv("TEXT_PROVIDER", "openai"))
	cfg.TextModel = getEnv("TEXT_MODEL", "gpt-4o-mini")
	cfg.TextAPIKey = os.Getenv("TEXT_API_KEY")
	cfg.TextAPIURL = os.Getenv("TEXT_API_URL")

	cfg.ImageProvider = strings.ToLower(getEnv("IMAGE_PROVIDER", "openai"))
	cfg.ImageModel = getEnv("IMAGE_MODEL", "dall-e-3")
	cfg.ImageAPIKey = os.Getenv("IMAGE_API_KEY")
	cfg.ImageAPIURL = os.Getenv("IMAGE_API_URL")
	cfg.ImageConcurrency = getEnvInt("IMAGE_CONCURRENCY", 4)

	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", 60*time.Second)

	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")

	cfg.RefreshRateLimit = getEnvInt("REFRESH_RATE_LIMIT", 20)
	cfg.RefreshRateWindow = getEnvDuration("REFRESH_RATE_WINDOW", time.Hour)
}

// applySecrets overrides sensitive values with Docker secrets when the files exist
func applySecrets(cfg *Config) {
	if v := readSecret("text_api_key"); v != "" {
		cfg.TextAPIKey = v
	}
	if v := readSecret("image_api_key"); v != "" {
		cfg.ImageAPIKey = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[Config] invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
