package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		add("log_level", "must be one of: debug, info, warn, error; got %q", cfg.LogLevel)
	}

	if cfg.Diary.Root == "" {
		add("diary.root", "must not be empty")
	}
	if cfg.Diary.Database == "" {
		add("diary.database", "must not be empty")
	}
	if cfg.Diary.Workspace == "" {
		add("diary.workspace", "must not be empty")
	}

	validateFormat(&cfg.Format, add)

	if cfg.Encryption.Enabled {
		if cfg.Encryption.Iterations < MinEncryptionIterations {
			add("encryption.iterations", "must be at least %d when encryption is enabled, got %d",
				MinEncryptionIterations, cfg.Encryption.Iterations)
		}
		if cfg.Encryption.PasswordEnv == "" && (cfg.Encryption.Password == nil || *cfg.Encryption.Password == "") {
			add("encryption.password_env", "must not be empty when encryption is enabled and no password is set")
		}
	}

	if cfg.Watch.DebounceMs < 0 {
		add("watch.debounce_ms", "must be non-negative, got %d", cfg.Watch.DebounceMs)
	}
	if cfg.Watch.DeleteGraceMs < 0 {
		add("watch.delete_grace_ms", "must be non-negative, got %d", cfg.Watch.DeleteGraceMs)
	}

	if cfg.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
			add("metrics.listen", "must be host:port, got %q", cfg.Metrics.Listen)
		}
	}
	if cfg.Metrics.CollectionInterval < 1 {
		add("metrics.collection_interval", "must be at least 1 second, got %d", cfg.Metrics.CollectionInterval)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// validateFormat checks the delimiter settings.
func validateFormat(f *FormatConfig, add func(field, format string, args ...any)) {
	delimiters := []struct {
		field string
		value string
	}{
		{"format.category_prefix", f.CategoryPrefix},
		{"format.category_suffix", f.CategorySuffix},
		{"format.subcategory_prefix", f.SubcategoryPrefix},
		{"format.subcategory_suffix", f.SubcategorySuffix},
	}

	for _, d := range delimiters {
		if d.value == "" {
			add(d.field, "must not be empty")
			continue
		}
		if f.Separator != "" && strings.Contains(d.value, f.Separator) {
			add(d.field, "must not contain the separator %q", f.Separator)
		}
	}

	if f.Separator == "" {
		add("format.separator", "must not be empty")
	}

	if f.CategoryPrefix == f.SubcategoryPrefix && f.CategorySuffix == f.SubcategorySuffix {
		add("format.subcategory_prefix", "category and subcategory delimiters must differ")
	}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
