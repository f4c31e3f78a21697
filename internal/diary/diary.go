// Package diary stores diary entries and keeps the category aggregation
// index current. Entries are converted to documents, encoded as JSON,
// sealed by the configured encryptor and persisted in SQLite.
package diary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leefowlercu/diary/internal/aggregate"
	"github.com/leefowlercu/diary/internal/converter"
	"github.com/leefowlercu/diary/internal/document"
	"github.com/leefowlercu/diary/internal/encryption"
	"github.com/leefowlercu/diary/internal/events"
	"github.com/leefowlercu/diary/internal/metrics"
	"github.com/leefowlercu/diary/internal/storage"
)

// EntryInfo describes a stored entry without its content.
type EntryInfo = storage.EntryInfo

// Options configures Open.
type Options struct {
	// DatabasePath is the SQLite database file.
	DatabasePath string

	// WorkspaceDir receives unpacked entry files.
	WorkspaceDir string

	// Converter selects the text format.
	Converter converter.Options

	// Password seals entries. Empty disables encryption for a new diary
	// and is rejected for an encrypted one.
	Password []byte

	// Iterations is the PBKDF2 iteration count used when a new encrypted
	// diary is created. Existing diaries keep their recorded count.
	Iterations int

	// Bus receives entry events. Optional.
	Bus events.Bus

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Diary is an open diary.
type Diary struct {
	store     *storage.Storage
	conv      *converter.Converter
	enc       encryption.Encryptor
	bus       events.Bus
	logger    *slog.Logger
	workspace string

	// mu guards index. The index itself is not safe for concurrent use.
	mu    sync.Mutex
	index *aggregate.Index
}

// Open opens or creates the diary described by opts and builds the
// aggregation index from the stored entries.
func Open(ctx context.Context, opts Options) (*Diary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := storage.Open(ctx, opts.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage; %w", err)
	}

	enc, err := setupEncryption(ctx, store, opts.Password, opts.Iterations)
	if err != nil {
		store.Close()
		return nil, err
	}

	conv := converter.New(opts.Converter)
	d := &Diary{
		store:     store,
		conv:      conv,
		enc:       enc,
		bus:       opts.Bus,
		logger:    logger.With("component", "diary"),
		workspace: opts.WorkspaceDir,
		index:     aggregate.New(conv.Separator()),
	}

	if err := d.Rebuild(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return d, nil
}

// Close releases the database.
func (d *Diary) Close() error {
	return d.store.Close()
}

// Converter returns the text converter in use.
func (d *Diary) Converter() *converter.Converter {
	return d.conv
}

// Separator returns the category path separator.
func (d *Diary) Separator() string {
	return d.conv.Separator()
}

// SaveText parses text and saves the resulting document under name.
func (d *Diary) SaveText(ctx context.Context, name, text string) error {
	doc, err := d.conv.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse entry %s; %w", name, err)
	}
	return d.SaveDocument(ctx, name, doc)
}

// SaveDocument persists doc under name and updates the index. An empty
// document deletes the entry. Saving content identical to the stored
// entry is a no-op.
func (d *Diary) SaveDocument(ctx context.Context, name string, doc *document.Document) (err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("save", time.Since(start), err) }()

	if err := ValidateName(name); err != nil {
		return err
	}

	if doc == nil || doc.Len() == 0 {
		err := d.DeleteEntry(ctx, name)
		if errors.Is(err, ErrEntryNotFound) {
			return nil
		}
		return err
	}

	// Entries must stay editable as text.
	if err := d.conv.Validate(doc); err != nil {
		return fmt.Errorf("failed to save entry %s; %w", name, err)
	}

	payload, err := document.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode entry %s; %w", name, err)
	}
	hash := contentHash(payload)

	existing, err := d.store.GetEntry(ctx, name)
	switch {
	case err == nil && existing.ContentHash == hash:
		d.logger.Debug("entry unchanged; skipping save", "name", name)
		return nil
	case err != nil && !errors.Is(err, storage.ErrEntryNotFound):
		return fmt.Errorf("failed to read entry %s; %w", name, err)
	}

	sealed, err := d.enc.Encrypt(payload)
	if err != nil {
		return fmt.Errorf("failed to encrypt entry %s; %w", name, err)
	}

	if err := d.store.PutEntry(ctx, name, sealed, hash); err != nil {
		return err
	}

	var size, categories int
	d.WithIndex(func(ix *aggregate.Index) {
		ix.AddFile(name, doc)
		size, _ = ix.FileSize(name)
		categories = len(ix.Contributions(name))
		d.updateGauges(ix)
	})

	metrics.RecordEntrySaved()
	d.logger.Info("entry saved", "name", name, "size", size, "categories", categories)
	d.publish(ctx, events.NewEntrySaved(name, size, categories))

	return nil
}

// LoadDocument returns the document stored under name.
func (d *Diary) LoadDocument(ctx context.Context, name string) (*document.Document, error) {
	entry, err := d.store.GetEntry(ctx, name)
	if err != nil {
		return nil, err
	}
	return d.open(entry)
}

// LoadText returns the entry stored under name in the diary text format.
func (d *Diary) LoadText(ctx context.Context, name string) (string, error) {
	doc, err := d.LoadDocument(ctx, name)
	if err != nil {
		return "", err
	}
	return d.conv.Serialize(doc)
}

// LoadJSON returns the plaintext JSON document stored under name.
func (d *Diary) LoadJSON(ctx context.Context, name string) ([]byte, error) {
	doc, err := d.LoadDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return document.Encode(doc)
}

// DeleteEntry removes the entry stored under name.
func (d *Diary) DeleteEntry(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("delete", time.Since(start), err) }()

	if err := d.store.DeleteEntry(ctx, name); err != nil {
		return err
	}

	d.WithIndex(func(ix *aggregate.Index) {
		ix.RemoveFile(name)
		d.updateGauges(ix)
	})

	metrics.RecordEntryDeleted()
	d.logger.Info("entry deleted", "name", name)
	d.publish(ctx, events.NewEntryDeleted(name))

	return nil
}

// ListEntries returns the stored entries ordered by name.
func (d *Diary) ListEntries(ctx context.Context) ([]EntryInfo, error) {
	return d.store.ListEntries(ctx)
}

// Rebuild replaces the aggregation index with one built from every stored
// entry.
func (d *Diary) Rebuild(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordOperation("rebuild", time.Since(start), err) }()

	infos, err := d.store.ListEntries(ctx)
	if err != nil {
		return err
	}

	ix := aggregate.New(d.conv.Separator())
	for _, info := range infos {
		doc, err := d.LoadDocument(ctx, info.Name)
		if err != nil {
			return fmt.Errorf("failed to load entry %s; %w", info.Name, err)
		}
		ix.AddFile(info.Name, doc)
	}

	d.mu.Lock()
	d.index = ix
	d.updateGauges(ix)
	d.mu.Unlock()

	duration := time.Since(start)
	d.logger.Debug("index rebuilt", "entries", len(infos), "total_size", ix.TotalSize(), "duration", duration)
	d.publish(ctx, events.NewIndexRebuilt(len(infos), ix.TotalSize(), duration))

	return nil
}

// WithIndex runs fn while holding the index lock. fn must not retain ix.
func (d *Diary) WithIndex(fn func(ix *aggregate.Index)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.index)
}

// CollectMetrics refreshes the index gauges.
func (d *Diary) CollectMetrics(ctx context.Context) error {
	d.WithIndex(d.updateGauges)
	return nil
}

// updateGauges must be called with mu held.
func (d *Diary) updateGauges(ix *aggregate.Index) {
	metrics.UpdateIndexMetrics(ix.TotalSize(), ix.Len(), len(ix.FileNames()))
}

func (d *Diary) open(entry *storage.Entry) (*document.Document, error) {
	payload, err := d.enc.Decrypt(entry.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt entry %s; %w", entry.Name, err)
	}
	doc, err := document.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode entry %s; %w", entry.Name, err)
	}
	return doc, nil
}

func (d *Diary) publish(ctx context.Context, event events.Event) {
	if d.bus == nil {
		return
	}
	err := d.bus.Publish(ctx, event)
	switch {
	case errors.Is(err, events.ErrBusClosed):
		d.logger.Debug("event bus closed; event not published", "type", event.Type)
	case err != nil:
		d.logger.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}

// contentHash fingerprints a plaintext payload for change detection.
func contentHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "sha256:" + hex.EncodeToString(sum[:])
}
