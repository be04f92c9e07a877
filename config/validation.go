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

var (
	validBackends = map[string]bool{
		BackendMemory:   true,
		BackendSQLite:   true,
		BackendPostgres: true,
		BackendRedis:    true,
	}
	validTextProviders  = map[string]bool{"openai": true, "anthropic": true}
	validImageProviders = map[string]bool{"openai": true, "gemini": true}
)

// ValidateConfig checks if the configuration meets the requirements for the given environment
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}
	if !validBackends[cfg.StoreBackend] {
		errs = append(errs, ValidationError{"STORE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StoreBackend)})
	}
	if cfg.StoreBackend == BackendSQLite && cfg.SQLitePath == "" {
		errs = append(errs, ValidationError{"SQLITE_PATH", "is required for the sqlite backend"})
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{"DB_PASSWORD", "is required for the postgres backend"})
	}
	if !validTextProviders[cfg.TextProvider] {
		errs = append(errs, ValidationError{"TEXT_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.TextProvider)})
	}
	if !validImageProviders[cfg.ImageProvider] {
		errs = append(errs, ValidationError{"IMAGE_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.ImageProvider)})
	}
	if cfg.ImageConcurrency < 1 {
		errs = append(errs, ValidationError{"IMAGE_CONCURRENCY", "must be at least 1"})
	}
	if cfg.HTTPTimeout <= 0 {
		errs = append(errs, ValidationError{"HTTP_TIMEOUT", "must be positive"})
	}
	// Truncate on a zero window panics inside the limiter
	if cfg.RefreshRateLimit > 0 && cfg.RefreshRateWindow <= 0 {
		errs = append(errs, ValidationError{"REFRESH_RATE_WINDOW", "must be positive when REFRESH_RATE_LIMIT is set"})
	}

	if env.RequiresAPIKeys() {
		if cfg.TextAPIKey == "" {
			errs = append(errs, ValidationError{"TEXT_API_KEY", "text_api_key secret or TEXT_API_KEY is required"})
		}
		if cfg.ImageAPIKey == "" {
			errs = append(errs, ValidationError{"IMAGE_API_KEY", "image_api_key secret or IMAGE_API_KEY is required"})
		}
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
