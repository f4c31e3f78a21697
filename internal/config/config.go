// Package config loads the diary configuration from YAML files and DIARY_
// environment variables, and keeps the active configuration for the
// running process.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "DIARY"

// ErrNotInitialized is returned by Reload before Init has succeeded.
var ErrNotInitialized = errors.New("config not initialized")

var (
	// stateMu protects current and configFilePath.
	stateMu sync.RWMutex

	current        *Config
	configFilePath string
)

// Init loads the configuration and makes it the active configuration.
// It searches for configuration files in priority order:
//  1. Directory specified by DIARY_CONFIG_DIR environment variable
//  2. ~/.config/diary/
//  3. Current working directory (.)
//
// If no config file is found, defaults and environment overrides are used.
// If a config file exists but is invalid or unreadable, Init returns an error.
func Init() error {
	v := newViper()
	addSearchPaths(v)

	path := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config; %w", err)
		}
	} else {
		path = v.ConfigFileUsed()
	}

	cfg, err := unmarshalConfig(v)
	if err != nil {
		return err
	}

	stateMu.Lock()
	current = cfg
	configFilePath = path
	stateMu.Unlock()

	slog.Debug("config initialized", "file", path)
	return nil
}

// Get returns the active configuration, or nil before Init.
func Get() *Config {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return current
}

// MustGet returns the active configuration and panics before Init.
func MustGet() *Config {
	cfg := Get()
	if cfg == nil {
		panic("config.MustGet called before config.Init")
	}
	return cfg
}

// ConfigFilePath returns the path to the loaded config file,
// or empty string if using defaults only.
func ConfigFilePath() string {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return configFilePath
}

// Reset clears the configuration state for testing purposes.
func Reset() {
	stateMu.Lock()
	defer stateMu.Unlock()
	current = nil
	configFilePath = ""
}

// Reload re-reads the configuration file used by Init.
// On failure, the previous configuration is retained.
func Reload() error {
	stateMu.RLock()
	old := current
	path := configFilePath
	stateMu.RUnlock()

	if old == nil {
		return ErrNotInitialized
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed; retaining previous values", "error", err)
			publishConfigReloadFailed(err)
			return fmt.Errorf("failed to reload config; %w", err)
		}
	}

	cfg, err := unmarshalConfig(v)
	if err != nil {
		slog.Error("config reload failed; retaining previous values", "error", err)
		publishConfigReloadFailed(err)
		return fmt.Errorf("failed to reload config; %w", err)
	}

	stateMu.Lock()
	current = cfg
	stateMu.Unlock()

	slog.Info("config reloaded", "file", path)
	publishConfigReloaded(old, cfg)
	return nil
}

// GetConfigPath returns the path where the config file should be located.
// If a config file is loaded, returns its path. Otherwise returns the default path.
func GetConfigPath() string {
	if path := ConfigFilePath(); path != "" {
		return path
	}
	return DefaultConfigPath()
}

// newViper returns a viper instance with env overrides and defaults
// registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// addSearchPaths adds the config search path in priority order.
func addSearchPaths(v *viper.Viper) {
	if envPath := os.Getenv(EnvPrefix + "_CONFIG_DIR"); envPath != "" {
		v.AddConfigPath(envPath)
	}
	if home := os.Getenv("HOME"); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "diary"))
	}
	v.AddConfigPath(".")
}

// ExpandHome expands a leading ~ in path to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

// expandHome expands a leading ~ in path to the user's home directory.
// Only expands "~" alone or "~/..." patterns. Patterns like "~user" are not expanded.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) > 1 && path[1] != '/' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return home
	}

	return filepath.Join(home, path[2:])
}
