package config

import (
	"os"
	"path/filepath"
)

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel   string           `yaml:"log_level" mapstructure:"log_level"`
	LogFile    string           `yaml:"log_file" mapstructure:"log_file"`
	Diary      DiaryConfig      `yaml:"diary" mapstructure:"diary"`
	Format     FormatConfig     `yaml:"format" mapstructure:"format"`
	Encryption EncryptionConfig `yaml:"encryption" mapstructure:"encryption"`
	Editor     EditorConfig     `yaml:"editor" mapstructure:"editor"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// DiaryConfig locates the diary database and workspace.
type DiaryConfig struct {
	Root      string `yaml:"root" mapstructure:"root"`
	Database  string `yaml:"database" mapstructure:"database"`
	Workspace string `yaml:"workspace" mapstructure:"workspace"`
}

// DatabasePath returns the database path, resolved against Root when relative.
func (c *DiaryConfig) DatabasePath() string {
	return c.resolve(c.Database)
}

// WorkspacePath returns the workspace directory, resolved against Root when
// relative.
func (c *DiaryConfig) WorkspacePath() string {
	return c.resolve(c.Workspace)
}

func (c *DiaryConfig) resolve(p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(expandHome(c.Root), p)
}

// FormatConfig holds the category delimiters of entry text.
type FormatConfig struct {
	CategoryPrefix    string `yaml:"category_prefix" mapstructure:"category_prefix"`
	CategorySuffix    string `yaml:"category_suffix" mapstructure:"category_suffix"`
	SubcategoryPrefix string `yaml:"subcategory_prefix" mapstructure:"subcategory_prefix"`
	SubcategorySuffix string `yaml:"subcategory_suffix" mapstructure:"subcategory_suffix"`
	Separator         string `yaml:"separator" mapstructure:"separator"`
	Strict            bool   `yaml:"strict" mapstructure:"strict"`
}

// EncryptionConfig holds entry encryption settings.
type EncryptionConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Password    *string `yaml:"password,omitempty" mapstructure:"password"`
	PasswordEnv string  `yaml:"password_env" mapstructure:"password_env"`
	Iterations  int     `yaml:"iterations" mapstructure:"iterations"`
}

// ResolvePassword returns the password from config or falls back to the
// environment variable.
func (c *EncryptionConfig) ResolvePassword() string {
	if c.Password != nil && *c.Password != "" {
		return *c.Password
	}
	if c.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(c.PasswordEnv)
}

// EditorConfig selects the editor used by the edit command.
type EditorConfig struct {
	Command string `yaml:"command" mapstructure:"command"`
}

// WatchConfig tunes the workspace watcher.
type WatchConfig struct {
	DebounceMs    int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	DeleteGraceMs int `yaml:"delete_grace_ms" mapstructure:"delete_grace_ms"`
}

// MetricsConfig holds the metrics endpoint configuration.
type MetricsConfig struct {
	Listen             string `yaml:"listen" mapstructure:"listen"`
	CollectionInterval int    `yaml:"collection_interval" mapstructure:"collection_interval"`
}
