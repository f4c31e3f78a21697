// Package events provides an in-process pub/sub event bus connecting the
// workspace watcher, the diary core and the metrics collector.
package events

import (
	"time"
)

// EventType identifies the type of event being published.
type EventType string

const (
	// WorkspaceFileChanged is published when an unpacked entry file is
	// created or written in the workspace.
	WorkspaceFileChanged EventType = "workspace.file_changed"

	// WorkspaceFileRemoved is published when an unpacked entry file is
	// removed from the workspace.
	WorkspaceFileRemoved EventType = "workspace.file_removed"

	// EntrySaved is published after an entry is persisted and indexed.
	EntrySaved EventType = "entry.saved"

	// EntryDeleted is published after an entry is removed.
	EntryDeleted EventType = "entry.deleted"

	// IndexRebuilt is published after the aggregation index is rebuilt
	// from storage.
	IndexRebuilt EventType = "index.rebuilt"

	// ConfigReloaded is published after a successful configuration reload.
	ConfigReloaded EventType = "config.reloaded"

	// ConfigReloadFailed is published when a configuration reload fails.
	ConfigReloadFailed EventType = "config.reload_failed"
)

// Event represents a published event in the system.
type Event struct {
	// Type identifies the event type.
	Type EventType

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Payload contains event-specific data.
	Payload any
}

// NewEvent creates a new event with the given type and payload.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// EventHandler is a function that processes events.
type EventHandler func(event Event)

// WorkspaceFileEvent contains data for workspace file events.
type WorkspaceFileEvent struct {
	// Path is the absolute path to the text file.
	Path string

	// Name is the entry name derived from the filename.
	Name string
}

// EntryEvent contains data for entry lifecycle events.
type EntryEvent struct {
	// Name is the entry name.
	Name string

	// Size is the entry's content size (0 for deletions).
	Size int

	// Categories is the number of paths the entry holds content under.
	Categories int
}

// IndexRebuiltEvent contains data for index rebuild events.
type IndexRebuiltEvent struct {
	// Entries is the number of entries indexed.
	Entries int

	// TotalSize is the index total after the rebuild.
	TotalSize int

	// Duration is how long the rebuild took.
	Duration time.Duration
}

// ConfigReloadEvent contains data for configuration reload events.
type ConfigReloadEvent struct {
	// ChangedSections lists the top-level sections that differ.
	ChangedSections []string

	// Reloadable is false when a changed section needs a restart.
	Reloadable bool

	// Error is the failure message for ConfigReloadFailed.
	Error string
}

// NewWorkspaceFileChanged creates a WorkspaceFileChanged event.
func NewWorkspaceFileChanged(path, name string) Event {
	return NewEvent(WorkspaceFileChanged, &WorkspaceFileEvent{Path: path, Name: name})
}

// NewWorkspaceFileRemoved creates a WorkspaceFileRemoved event.
func NewWorkspaceFileRemoved(path, name string) Event {
	return NewEvent(WorkspaceFileRemoved, &WorkspaceFileEvent{Path: path, Name: name})
}

// NewEntrySaved creates an EntrySaved event.
func NewEntrySaved(name string, size, categories int) Event {
	return NewEvent(EntrySaved, &EntryEvent{Name: name, Size: size, Categories: categories})
}

// NewEntryDeleted creates an EntryDeleted event.
func NewEntryDeleted(name string) Event {
	return NewEvent(EntryDeleted, &EntryEvent{Name: name})
}

// NewIndexRebuilt creates an IndexRebuilt event.
func NewIndexRebuilt(entries, totalSize int, duration time.Duration) Event {
	return NewEvent(IndexRebuilt, &IndexRebuiltEvent{
		Entries:   entries,
		TotalSize: totalSize,
		Duration:  duration,
	})
}

// NewConfigReloaded creates a ConfigReloaded event.
func NewConfigReloaded(changedSections []string, reloadable bool) Event {
	return NewEvent(ConfigReloaded, &ConfigReloadEvent{
		ChangedSections: changedSections,
		Reloadable:      reloadable,
	})
}

// NewConfigReloadFailed creates a ConfigReloadFailed event.
func NewConfigReloadFailed(err error) Event {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return NewEvent(ConfigReloadFailed, &ConfigReloadEvent{Error: msg})
}
