package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration. An empty RedisURL keeps cooking progress in memory
	// and disables the recipe creation rate limit.
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Session configuration
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	// Recipe catalog
	CatalogBaseURL string
	CatalogAPIKey  string
	CatalogTimeout time.Duration

	// Country list used by registration
	CountriesURL      string
	CountriesTTL      time.Duration
	ExcludedCountries []string

	// Personalization
	RandomFeedSize     int
	LastWatchedLimit   int
	ProgressTTL        time.Duration
	ProgressMaxEntries int
	RecipeCreateLimit  int

	// Image storage. Uploads are disabled without a bucket.
	S3Bucket  string
	AWSRegion string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Env: env}

	if err := loadConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadConfig(cfg *Config, env Environment) error {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = getList("CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = secretOrEnv(env, "db_user", "DB_USER")
	cfg.DBPassword = secretOrEnv(env, "db_password", "DB_PASSWORD")
	cfg.DBName = getEnv("DB_NAME", "family_recipes")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "family_recipes.db")

	cfg.RedisURL = secretOrEnv(env, "redis_url", "REDIS_URL")
	cfg.RedisPassword = secretOrEnv(env, "redis_password", "REDIS_PASSWORD")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.JWTSecret = secretOrEnv(env, "jwt_secret", "JWT_SECRET")
	cfg.CatalogAPIKey = secretOrEnv(env, "catalog_api_key", "CATALOG_API_KEY")
	cfg.CatalogBaseURL = getEnv("CATALOG_BASE_URL", "https://api.spoonacular.com")
	cfg.CountriesURL = getEnv("COUNTRIES_URL", "https://restcountries.com/v3.1/all?fields=name")
	cfg.ExcludedCountries = getList("EXCLUDED_COUNTRIES", []string{"Palestine", "Iran"})

	cfg.S3Bucket = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return err
	}
	if cfg.CatalogTimeout, err = getDuration("CATALOG_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if cfg.CountriesTTL, err = getDuration("COUNTRIES_TTL", 24*time.Hour); err != nil {
		return err
	}
	if cfg.ProgressTTL, err = getDuration("PROGRESS_TTL", 24*time.Hour); err != nil {
		return err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return err
	}
	if cfg.RandomFeedSize, err = getInt("RANDOM_FEED_SIZE", 3); err != nil {
		return err
	}
	if cfg.LastWatchedLimit, err = getInt("LAST_WATCHED_LIMIT", 3); err != nil {
		return err
	}
	if cfg.ProgressMaxEntries, err = getInt("PROGRESS_MAX_ENTRIES", 50); err != nil {
		return err
	}
	if cfg.RecipeCreateLimit, err = getInt("RECIPE_CREATE_LIMIT", 20); err != nil {
		return err
	}

	return nil
}

// secretOrEnv prefers the Docker secret file outside CI and falls back to the
// environment variable. CI only uses environment variables.
func secretOrEnv(env Environment, secret, envVar string) string {
	if env != CI {
		if value := readSecret(secret); value != "" {
			return value
		}
	}
	return os.Getenv(envVar)
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
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, ValidationError{Field: key, Message: "must be a duration such as 24h"}
	}
	return d, nil
}
