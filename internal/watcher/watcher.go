// Package watcher monitors the diary workspace for edited entry files and
// publishes coalesced workspace events.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leefowlercu/diary/internal/events"
	"github.com/leefowlercu/diary/internal/metrics"
)

// DefaultExtension is the extension of unpacked entry files.
const DefaultExtension = ".txt"

// Watcher monitors a workspace directory and publishes events.
type Watcher interface {
	// Watch starts watching a workspace directory.
	Watch(dir string) error

	// Start begins processing filesystem events.
	Start(ctx context.Context) error

	// Stop stops the watcher.
	Stop() error

	// Stats returns current watcher statistics.
	Stats() WatcherStats

	// Errors reports fatal watcher errors.
	Errors() <-chan error
}

// WatcherStats contains statistics about watcher activity.
type WatcherStats struct {
	WatchedDirs     int
	EventsReceived  int64
	EventsPublished int64
	EventsSkipped   int64
	Errors          int64
	IsRunning       bool
}

// WatcherOption configures the Watcher.
type WatcherOption func(*watcher)

// WithDebounceWindow sets the debounce window for event coalescing.
func WithDebounceWindow(d time.Duration) WatcherOption {
	return func(w *watcher) {
		w.debounceWindow = d
	}
}

// WithDeleteGracePeriod sets the grace period before publishing delete events.
func WithDeleteGracePeriod(d time.Duration) WatcherOption {
	return func(w *watcher) {
		w.deleteGracePeriod = d
	}
}

// WithExtension sets the extension of files the watcher reports.
func WithExtension(ext string) WatcherOption {
	return func(w *watcher) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extension = ext
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *watcher) {
		w.logger = logger
	}
}

// watcher implements the Watcher interface.
type watcher struct {
	fsWatcher *fsnotify.Watcher
	bus       events.Bus
	coalescer *Coalescer
	logger    *slog.Logger

	debounceWindow    time.Duration
	deleteGracePeriod time.Duration
	extension         string

	mu          sync.RWMutex
	watchedDirs map[string]bool
	hashes      map[string]string
	stats       WatcherStats
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	stopOnce    sync.Once

	// errChan reports fatal errors (fsnotify error channel).
	errChan chan error
}

// New creates a new Watcher publishing to bus.
func New(bus events.Bus, opts ...WatcherOption) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher; %w", err)
	}

	w := &watcher{
		fsWatcher:         fsw,
		bus:               bus,
		logger:            slog.Default(),
		debounceWindow:    500 * time.Millisecond,
		deleteGracePeriod: 2 * time.Second,
		extension:         DefaultExtension,
		watchedDirs:       make(map[string]bool),
		hashes:            make(map[string]string),
		stopCh:            make(chan struct{}),
		doneCh:            make(chan struct{}),
		errChan:           make(chan error, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.coalescer = NewCoalescer(w.debounceWindow, w.deleteGracePeriod)

	return w, nil
}

// Watch starts watching a workspace directory. Subdirectories are not
// watched; entry files live directly in the workspace.
func (w *watcher) Watch(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path; %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("failed to stat path; %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absDir)
	}

	if err := w.fsWatcher.Add(absDir); err != nil {
		return fmt.Errorf("failed to watch directory; %w", err)
	}

	// Seed hashes so the first untouched save is not reported.
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return fmt.Errorf("failed to read directory; %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(absDir, entry.Name())
		if entry.IsDir() || !w.isEntryFile(path) {
			continue
		}
		if hash, err := computeFileHash(path); err == nil {
			w.mu.Lock()
			w.hashes[path] = hash
			w.mu.Unlock()
		}
	}

	w.mu.Lock()
	w.watchedDirs[absDir] = true
	w.stats.WatchedDirs = len(w.watchedDirs)
	w.mu.Unlock()

	return nil
}

// Start begins processing filesystem events.
func (w *watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stats.IsRunning = true
	w.mu.Unlock()

	go w.readNotifications(ctx)
	go w.forwardChanges(ctx)

	return nil
}

// Stop stops the watcher.
func (w *watcher) Stop() error {
	var stopErr error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		wasRunning := w.running
		w.running = false
		w.stats.IsRunning = false
		w.mu.Unlock()

		// Stopping the coalescer closes Changes and ends forwardChanges.
		w.coalescer.Stop()

		close(w.stopCh)
		if wasRunning {
			<-w.doneCh
		}

		stopErr = w.fsWatcher.Close()
	})
	return stopErr
}

// Stats returns current watcher statistics.
func (w *watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Errors returns a channel for fatal watcher errors.
func (w *watcher) Errors() <-chan error {
	return w.errChan
}

// readNotifications feeds fsnotify notifications to the coalescer.
func (w *watcher) readNotifications(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case n, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.note(n)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.logger.Error("fsnotify error", "error", err)
			select {
			case w.errChan <- err:
			default:
			}
		}
	}
}

// note classifies one notification and hands it to the coalescer.
// Chmod-only notifications are ignored.
func (w *watcher) note(n fsnotify.Event) {
	w.mu.Lock()
	w.stats.EventsReceived++
	w.mu.Unlock()

	if !w.isEntryFile(n.Name) {
		return
	}

	var kind ChangeKind
	switch {
	case n.Has(fsnotify.Remove) || n.Has(fsnotify.Rename):
		kind = Removed
	case n.Has(fsnotify.Create):
		kind = Created
	case n.Has(fsnotify.Write):
		kind = Written
	default:
		return
	}

	w.coalescer.Add(Change{Path: n.Name, Kind: kind, At: time.Now()})
}

// forwardChanges publishes settled changes until stopped.
func (w *watcher) forwardChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case change, ok := <-w.coalescer.Changes():
			if !ok {
				return
			}
			w.publish(ctx, change)
		}
	}
}

// publish turns a settled change into a workspace event. A write that
// leaves the file content unchanged is dropped, and a file that vanished
// before it could be hashed is reported as removed.
func (w *watcher) publish(ctx context.Context, change Change) {
	if !w.isUnderWatchedDir(change.Path) {
		return
	}

	if change.Kind != Removed {
		hash, err := computeFileHash(change.Path)
		switch {
		case os.IsNotExist(err):
			change.Kind = Removed
		case err != nil:
			w.logger.Warn("failed to hash file", "path", change.Path, "error", err)
			return
		default:
			w.mu.Lock()
			unchanged := w.hashes[change.Path] == hash
			w.hashes[change.Path] = hash
			if unchanged {
				w.stats.EventsSkipped++
			}
			w.mu.Unlock()
			if unchanged {
				w.logger.Debug("skipping unchanged file", "path", change.Path)
				return
			}
		}
	}

	name := EntryName(change.Path)

	var event events.Event
	if change.Kind == Removed {
		w.mu.Lock()
		delete(w.hashes, change.Path)
		w.mu.Unlock()
		event = events.NewWorkspaceFileRemoved(change.Path, name)
	} else {
		event = events.NewWorkspaceFileChanged(change.Path, name)
	}

	if err := w.bus.Publish(ctx, event); err != nil {
		w.logger.Error("failed to publish event", "path", change.Path, "error", err)
		return
	}
	metrics.RecordWorkspaceEvent(change.Kind.String())

	w.mu.Lock()
	w.stats.EventsPublished++
	w.mu.Unlock()
}

// isUnderWatchedDir reports whether path sits directly in a watched
// directory.
func (w *watcher) isUnderWatchedDir(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watchedDirs[filepath.Dir(path)]
}

// isEntryFile reports whether path names an entry file the watcher should
// report.
func (w *watcher) isEntryFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || isEditorNoise(name) {
		return false
	}
	return w.extension == "" || strings.EqualFold(filepath.Ext(name), w.extension)
}

// EntryName returns the entry name of an unpacked file: its base name
// without the extension.
func EntryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// isEditorNoise returns true if the file is a transient editor artifact.
func isEditorNoise(name string) bool {
	// Vim swap files (created during active editing)
	if strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, ".swo") || strings.HasSuffix(name, ".swn") {
		return true
	}

	// Vim temporary file during save
	if name == "4913" {
		return true
	}

	// Emacs auto-save files
	if strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") {
		return true
	}

	// Backup files created during save (ending with ~)
	if strings.HasSuffix(name, "~") {
		return true
	}

	return false
}

// computeFileHash computes the SHA-256 hash of a file's contents.
func computeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return "sha256:" + hex.EncodeToString(hash.Sum(nil)), nil
}
