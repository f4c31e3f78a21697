// Package testutil provides testing utilities for isolated test environments.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/diary/internal/config"
)

// TestEnv provides an isolated test environment with its own config
// directory and diary root.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
	DiaryRoot string
}

// NewTestEnv creates an isolated test environment.
// Environment variables override every path so tests stay isolated even
// when packages run in parallel. Cleanup is automatic via t.Cleanup.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	base := t.TempDir()
	configDir := filepath.Join(base, "config")
	diaryRoot := filepath.Join(base, "diary")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("failed to create test config dir: %v", err)
	}

	// These env vars override viper settings via AutomaticEnv()
	t.Setenv("HOME", base)
	t.Setenv("DIARY_CONFIG_DIR", configDir)
	t.Setenv("DIARY_DIARY_ROOT", diaryRoot)
	t.Setenv("DIARY_LOG_FILE", filepath.Join(configDir, "diary.log"))
	t.Setenv("DIARY_ENCRYPTION_ENABLED", "false")
	t.Setenv("DIARY_PASSWORD", "")

	config.Reset()
	if err := config.Init(); err != nil {
		t.Fatalf("failed to initialize test config: %v", err)
	}

	env := &TestEnv{
		t:         t,
		ConfigDir: configDir,
		DiaryRoot: diaryRoot,
	}

	t.Cleanup(func() {
		config.Reset()
	})

	return env
}

// DatabasePath returns the path where the test diary database is created.
func (e *TestEnv) DatabasePath() string {
	return config.MustGet().Diary.DatabasePath()
}

// WorkspaceDir returns the workspace directory of the test diary.
func (e *TestEnv) WorkspaceDir() string {
	return config.MustGet().Diary.WorkspacePath()
}

// WriteConfig writes a config file into the test config directory and
// reinitializes config from it.
func (e *TestEnv) WriteConfig(content string) string {
	e.t.Helper()

	path := filepath.Join(e.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}

	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to initialize config: %v", err)
	}
	return path
}

// CreateTestDir creates a test directory within the test environment's temp space.
// Returns the absolute path to the created directory.
func (e *TestEnv) CreateTestDir(name string) string {
	e.t.Helper()

	testDataDir := filepath.Join(e.t.TempDir(), "testdata", name)
	if err := os.MkdirAll(testDataDir, 0755); err != nil {
		e.t.Fatalf("failed to create test dir %s: %v", name, err)
	}
	return testDataDir
}

// CreateTestFile creates a test file with the given content.
// Returns the absolute path to the created file.
func (e *TestEnv) CreateTestFile(dir, name, content string) string {
	e.t.Helper()

	filePath := filepath.Join(dir, name)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to create test file %s: %v", filePath, err)
	}
	return filePath
}
