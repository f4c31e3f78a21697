package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Write saves cfg as YAML at path with 0600 permissions, creating the
// directory with 0700 when missing. The file is replaced atomically so a
// watch process reloading on SIGHUP never reads a partial file.
func Write(cfg *Config, path string) error {
	path = expandHome(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s; %w", dir, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Diary configuration\n# Generated: %s\n\n", time.Now().Format(time.RFC3339))

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config; %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config; %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file; %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file %s; %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file %s; %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace config file %s; %w", path, err)
	}

	return nil
}

// WriteDefault saves cfg at DefaultConfigPath.
func WriteDefault(cfg *Config) error {
	return Write(cfg, DefaultConfigPath())
}
