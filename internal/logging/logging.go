// Package logging manages the process logger: a bootstrap stderr handler
// that is upgraded to stderr plus a rotating JSON log file once
// configuration is available.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation defaults.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Option configures a Manager.
type Option func(*Manager)

// WithStderr replaces the terminal writer, which defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(m *Manager) {
		m.stderr = w
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(m *Manager) {
		m.runID = id
	}
}

// Manager handles logger lifecycle including bootstrap-to-full mode transitions.
// Components should obtain a logger via Logger() and use it for all logging.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	stderr  io.Writer
	sink    *lumberjack.Logger
	level   *slog.LevelVar
	runID   string
	mu      sync.Mutex
}

// NewManager creates a logging manager in bootstrap mode.
// Bootstrap mode writes only to stderr using text format.
// Call Upgrade() after config is available to enable file logging.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		stderr: os.Stderr,
		level:  new(slog.LevelVar),
	}
	m.level.Set(DefaultLevel)

	for _, opt := range opts {
		opt(m)
	}
	if m.runID == "" {
		m.runID = uuid.NewString()
	}

	bootstrap := slog.NewTextHandler(m.stderr, &slog.HandlerOptions{Level: m.level})
	m.handler = NewSwappableHandler(bootstrap)
	m.logger = slog.New(m.handler)

	return m
}

// Logger returns the current logger instance.
// The returned logger is stable across Upgrade calls.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// RunID returns the identifier attached to every file log record of this
// process.
func (m *Manager) RunID() string {
	return m.runID
}

// Upgrade transitions from bootstrap mode (stderr-only) to full mode
// (stderr text + rotating JSON file). The file path is checked up front so
// an unusable path is reported here rather than on the first write.
func (m *Manager) Upgrade(logFilePath string, level slog.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q; %w", dir, err)
	}

	probe, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file %q; %w", logFilePath, err)
	}
	_ = probe.Close()

	sink := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}

	if m.sink != nil {
		_ = m.sink.Close()
	}
	m.sink = sink

	m.level.Set(level)
	opts := &slog.HandlerOptions{Level: m.level}

	fileHandler := slog.NewJSONHandler(sink, opts).
		WithAttrs([]slog.Attr{slog.String("run_id", m.runID)})

	m.handler.Swap(slogmulti.Fanout(
		slog.NewTextHandler(m.stderr, opts),
		fileHandler,
	))

	return nil
}

// SetLevel changes the log level at runtime.
// Applies immediately to all future log calls.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Level returns the current log level.
func (m *Manager) Level() slog.Level {
	return m.level.Level()
}

// Close cleanly shuts down the logger, closing any open file handles.
// Should be called during application shutdown.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sink != nil {
		err := m.sink.Close()
		m.sink = nil
		return err
	}
	return nil
}
