package diary

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/diary/internal/aggregate"
	"github.com/leefowlercu/diary/internal/converter"
	"github.com/leefowlercu/diary/internal/document"
	"github.com/leefowlercu/diary/internal/encryption"
	"github.com/leefowlercu/diary/internal/events"
	"github.com/leefowlercu/diary/internal/metrics"
	"github.com/leefowlercu/diary/internal/storage"
)

const workEntry = "[Work]\nshipped\n[[Release]]\nv1.0"

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(events.EventType, events.EventHandler) func() { return func() {} }
func (b *recordingBus) SubscribeAll(events.EventHandler) func()             { return func() {} }
func (b *recordingBus) Close() error                                        { return nil }

func (b *recordingBus) ofType(t events.EventType) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testOptions(t *testing.T, dir string) Options {
	t.Helper()
	return Options{
		DatabasePath: filepath.Join(dir, "diary.db"),
		WorkspaceDir: filepath.Join(dir, "workspace"),
		Converter:    converter.DefaultOptions(),
		Iterations:   encryption.MinIterations,
	}
}

func openDiary(t *testing.T, opts Options) *Diary {
	t.Helper()
	d, err := Open(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpen_NewDiaryIsEmpty(t *testing.T) {
	d := openDiary(t, testOptions(t, t.TempDir()))

	entries, err := d.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	d.WithIndex(func(ix *aggregate.Index) {
		assert.Equal(t, 0, ix.TotalSize())
		assert.Equal(t, ";", ix.Separator())
	})
}

func TestSaveText_LoadText(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))

	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))

	text, err := d.LoadText(ctx, "2024_03_15")
	require.NoError(t, err)
	assert.Equal(t, workEntry, text)

	doc, err := d.LoadDocument(ctx, "2024_03_15")
	require.NoError(t, err)
	assert.True(t, doc.Equal(document.FromPairs("Work;", "shipped", "Work;Release;", "v1.0")))

	raw, err := d.LoadJSON(ctx, "2024_03_15")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Work;":"shipped","Work;Release;":"v1.0"}`, string(raw))
}

func TestSaveText_UpdatesIndexAndPublishes(t *testing.T) {
	ctx := context.Background()
	bus := &recordingBus{}
	opts := testOptions(t, t.TempDir())
	opts.Bus = bus
	d := openDiary(t, opts)

	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))

	d.WithIndex(func(ix *aggregate.Index) {
		assert.Equal(t, 11, ix.SizeOf("Work"))
		assert.Equal(t, 4, ix.SizeOf("Work;Release"))
		assert.Equal(t, map[string]int{"2024_03_15": 11}, ix.FilesUnder("Work"))
		require.NoError(t, ix.CheckInvariants())
	})

	saved := bus.ofType(events.EntrySaved)
	require.Len(t, saved, 1)
	payload := saved[0].Payload.(*events.EntryEvent)
	assert.Equal(t, "2024_03_15", payload.Name)
	assert.Equal(t, 11, payload.Size)
	assert.Equal(t, 2, payload.Categories)

	assert.Equal(t, float64(11), testutil.ToFloat64(metrics.IndexTotalSize))
}

func TestSaveText_ReplacesPreviousContribution(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))

	require.NoError(t, d.SaveText(ctx, "a", workEntry))
	require.NoError(t, d.SaveText(ctx, "b", "[Work]\nreviews"))
	require.NoError(t, d.SaveText(ctx, "a", "[Home]\npainted"))

	d.WithIndex(func(ix *aggregate.Index) {
		assert.Equal(t, 7, ix.SizeOf("Work"))
		assert.False(t, ix.Has("Work;Release"))
		assert.Equal(t, 7, ix.SizeOf("Home"))
		assert.Equal(t, 14, ix.TotalSize())
		require.NoError(t, ix.CheckInvariants())
	})
}

func TestSaveDocument_UnchangedIsNoop(t *testing.T) {
	ctx := context.Background()
	bus := &recordingBus{}
	opts := testOptions(t, t.TempDir())
	opts.Bus = bus
	d := openDiary(t, opts)

	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))
	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry+"\n\n"))

	assert.Len(t, bus.ofType(events.EntrySaved), 1)
}

func TestSaveDocument_EmptyDeletes(t *testing.T) {
	ctx := context.Background()
	bus := &recordingBus{}
	opts := testOptions(t, t.TempDir())
	opts.Bus = bus
	d := openDiary(t, opts)

	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))
	require.NoError(t, d.SaveText(ctx, "2024_03_15", "  \n\n"))

	_, err := d.LoadDocument(ctx, "2024_03_15")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Len(t, bus.ofType(events.EntryDeleted), 1)

	// Saving an empty document for an unknown entry is not an error.
	require.NoError(t, d.SaveDocument(ctx, "never_saved", document.New()))
	require.NoError(t, d.SaveDocument(ctx, "never_saved", nil))
}

func TestSaveText_StrictPolicy(t *testing.T) {
	opts := testOptions(t, t.TempDir())
	opts.Converter.Policy = converter.PolicyStrict
	d := openDiary(t, opts)

	err := d.SaveText(context.Background(), "2024_03_15", "loose line\n[Work]\nshipped")
	assert.ErrorIs(t, err, converter.ErrNonConformingFormat)
}

func TestSaveText_NamelessMarkerStaysEditable(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))

	text := "[Work]\nshipped\n[]\nafterthought\n[[]]\nmore"
	require.NoError(t, d.SaveText(ctx, "2024_03_15", text))

	got, err := d.LoadText(ctx, "2024_03_15")
	require.NoError(t, err)
	assert.Equal(t, text, got)

	d.WithIndex(func(ix *aggregate.Index) {
		assert.Equal(t, []string{"Work;"}, ix.Paths())
	})
}

func TestSaveDocument_RejectsDocumentsWithoutTextForm(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))

	tests := []struct {
		name    string
		doc     *document.Document
		wantErr error
	}{
		{"late default content", document.FromPairs("Work;", "shipped", ";", "loose"), converter.ErrMisplacedDefaultContent},
		{"empty category name", document.FromPairs("Work;;", "shipped"), converter.ErrEmptyCategoryName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.SaveDocument(ctx, "2024_03_15", tt.doc)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = d.LoadDocument(ctx, "2024_03_15")
			assert.ErrorIs(t, err, ErrEntryNotFound)
		})
	}
}

func TestSaveText_InvalidName(t *testing.T) {
	d := openDiary(t, testOptions(t, t.TempDir()))

	for _, name := range []string{"", "../escape", ".hidden", "a/b"} {
		err := d.SaveText(context.Background(), name, workEntry)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))

	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))
	require.NoError(t, d.DeleteEntry(ctx, "2024_03_15"))

	d.WithIndex(func(ix *aggregate.Index) {
		assert.Equal(t, 0, ix.TotalSize())
		assert.Equal(t, 0, ix.Len())
	})

	assert.ErrorIs(t, d.DeleteEntry(ctx, "2024_03_15"), ErrEntryNotFound)
}

func TestListEntries(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))

	require.NoError(t, d.SaveText(ctx, "2024_03_16", "[Home]\npainted"))
	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))

	entries, err := d.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024_03_15", entries[0].Name)
	assert.Equal(t, "2024_03_16", entries[1].Name)
}

func TestOpen_RebuildsIndexFromStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := testOptions(t, dir)

	first, err := Open(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, first.SaveText(ctx, "2024_03_15", workEntry))
	require.NoError(t, first.SaveText(ctx, "2024_03_16", "[Work]\nreviews"))
	require.NoError(t, first.Close())

	bus := &recordingBus{}
	opts.Bus = bus
	second := openDiary(t, opts)

	second.WithIndex(func(ix *aggregate.Index) {
		assert.Equal(t, 18, ix.SizeOf("Work"))
		assert.Equal(t, []string{"2024_03_15", "2024_03_16"}, ix.FileNames())
	})

	rebuilt := bus.ofType(events.IndexRebuilt)
	require.Len(t, rebuilt, 1)
	assert.Equal(t, 2, rebuilt[0].Payload.(*events.IndexRebuiltEvent).Entries)
}

func TestEncryptedDiary(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := testOptions(t, dir)
	opts.Password = []byte("correct horse")

	d, err := Open(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, d.SaveText(ctx, "2024_03_15", workEntry))
	require.NoError(t, d.Close())

	t.Run("payload is sealed", func(t *testing.T) {
		store, err := storage.Open(ctx, opts.DatabasePath)
		require.NoError(t, err)
		defer store.Close()

		entry, err := store.GetEntry(ctx, "2024_03_15")
		require.NoError(t, err)
		assert.NotContains(t, string(entry.Payload), "shipped")
	})

	t.Run("right password", func(t *testing.T) {
		d := openDiary(t, opts)
		text, err := d.LoadText(ctx, "2024_03_15")
		require.NoError(t, err)
		assert.Equal(t, workEntry, text)
	})

	t.Run("wrong password", func(t *testing.T) {
		wrong := opts
		wrong.Password = []byte("battery staple")
		_, err := Open(ctx, wrong)
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("missing password", func(t *testing.T) {
		none := opts
		none.Password = nil
		_, err := Open(ctx, none)
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})
}

func TestUnencryptedDiary_RejectsPassword(t *testing.T) {
	ctx := context.Background()
	opts := testOptions(t, t.TempDir())

	d, err := Open(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	opts.Password = []byte("late password")
	_, err = Open(ctx, opts)
	assert.ErrorIs(t, err, ErrNotEncrypted)
}

func TestCollectMetrics(t *testing.T) {
	ctx := context.Background()
	d := openDiary(t, testOptions(t, t.TempDir()))
	require.NoError(t, d.SaveText(ctx, "a", "[Work]\nshipped"))

	metrics.UpdateIndexMetrics(0, 0, 0)
	require.NoError(t, d.CollectMetrics(ctx))

	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.IndexTotalSize))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.IndexCategories))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.IndexFiles))
}
