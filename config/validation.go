package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.CatalogAPIKey == "" && cfg.Env != Test {
		add("CATALOG_API_KEY", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required")
		}
		if cfg.DBPassword == "" && cfg.Env != Development && cfg.Env != Test {
			add("DB_PASSWORD", "is required")
		}
	case "sqlite":
		if cfg.Env == Production {
			add("DB_DRIVER", "sqlite is not allowed in production")
		}
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver))
	}

	if cfg.Env == Production && cfg.RedisURL == "" {
		add("REDIS_URL", "is required in production")
	}
	if cfg.SessionTTL <= 0 {
		add("SESSION_TTL", "must be positive")
	}
	if cfg.CountriesTTL <= 0 {
		add("COUNTRIES_TTL", "must be positive")
	}
	if cfg.ProgressTTL <= 0 {
		add("PROGRESS_TTL", "must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		add("BCRYPT_COST", "must be between 4 and 31")
	}
	if cfg.RandomFeedSize <= 0 {
		add("RANDOM_FEED_SIZE", "must be positive")
	}
	if cfg.LastWatchedLimit <= 0 {
		add("LAST_WATCHED_LIMIT", "must be positive")
	}
	if cfg.ProgressMaxEntries <= 0 {
		add("PROGRESS_MAX_ENTRIES", "must be positive")
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		add("AWS_REGION", "is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
