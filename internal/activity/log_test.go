package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/platform/memstore"
	"github.com/monitize/monitize-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return t }
}

// failingStore fails Save until healthy is set.
type failingStore struct {
	*memstore.ActivityStore
	mu      sync.Mutex
	healthy bool
	saves   int
}

func (s *failingStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.saves++
	healthy := s.healthy
	s.mu.Unlock()
	if !healthy {
		return store.ErrUnavailable
	}
	return s.ActivityStore.Save(ctx, key, value)
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "monitize_audit_trail", KeyFor(DefaultKey, ""))
	assert.Equal(t, "monitize_audit_trail:learner-7", KeyFor(DefaultKey, "learner-7"))
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "monitize_activity_log_2025-01-02.json", ExportFilename(ts))
}

func TestLog_RecordAndEntries(t *testing.T) {
	ctx := context.Background()
	st := memstore.NewActivityStore()
	log := NewLog(st, discardLogger(), WithClock(fixedClock()))

	entry, err := log.Record(ctx, DefaultKey, domain.ActionViewed, domain.SourceStatic,
		domain.AuditMetadata{ModuleID: "budgeting", LevelID: "1"})
	require.NoError(t, err)
	assert.Equal(t, fixedClock()().UnixMilli(), entry.Timestamp)
	assert.Equal(t, "budgeting", entry.ModuleID)

	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])

	// The write went through to the store.
	raw, err := st.Load(ctx, DefaultKey)
	require.NoError(t, err)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "viewed", stored[0]["actionType"])
	assert.Equal(t, "static", stored[0]["contentSource"])
	assert.Equal(t, "budgeting", stored[0]["moduleId"])
	assert.NotContains(t, stored[0], "toolId")
}

func TestLog_RecordRejectsInvalidEntry(t *testing.T) {
	log := NewLog(memstore.NewActivityStore(), discardLogger())

	_, err := log.Record(context.Background(), DefaultKey, domain.ActionType("deleted"), domain.SourceStatic,
		domain.AuditMetadata{})
	assert.ErrorIs(t, err, domain.ErrInvalidActionType)

	entries, err := log.Entries(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLog_CapKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memstore.NewActivityStore(), discardLogger(), WithClock(fixedClock()))

	var recorded []string
	for i := 0; i < 1005; i++ {
		entry, err := log.Record(ctx, DefaultKey, domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{})
		require.NoError(t, err)
		recorded = append(recorded, entry.ID)
	}

	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	require.Len(t, entries, DefaultMaxEntries)

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		assert.Equal(t, recorded[i+5], e.ID, "entry %d out of order", i)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestLog_WithMaxEntries(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memstore.NewActivityStore(), discardLogger(), WithMaxEntries(3), WithMaxEntries(0))
	assert.Equal(t, 3, log.MaxEntries())

	for _, tool := range []string{"a", "b", "c", "d"} {
		_, err := log.Record(ctx, DefaultKey, domain.ActionGenerated, domain.SourceAIGenerated,
			domain.AuditMetadata{ToolID: tool})
		require.NoError(t, err)
	}

	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].ToolID)
	assert.Equal(t, "d", entries[2].ToolID)
}

func TestLog_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memstore.NewActivityStore(), discardLogger())

	_, err := log.Record(ctx, KeyFor(DefaultKey, "alice"), domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{})
	require.NoError(t, err)

	anon, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Empty(t, anon)

	alice, err := log.Entries(ctx, KeyFor(DefaultKey, "alice"))
	require.NoError(t, err)
	assert.Len(t, alice, 1)
}

func TestLog_LoadsExistingAndTrims(t *testing.T) {
	ctx := context.Background()
	st := memstore.NewActivityStore()
	require.NoError(t, st.Save(ctx, DefaultKey, []byte(`[
		{"id":"1-a","timestamp":1,"actionType":"viewed","contentSource":"static"},
		{"id":"2-b","timestamp":2,"actionType":"completed","contentSource":"static","levelId":"3"},
		{"id":"3-c","timestamp":3,"actionType":"confirmed","contentSource":"OCR"}
	]`)))

	log := NewLog(st, discardLogger(), WithMaxEntries(2))
	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2-b", entries[0].ID)
	assert.Equal(t, "3", entries[0].LevelID)
	assert.Equal(t, domain.SourceOCR, entries[1].ContentSource)
}

func TestLog_CorruptValueFailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not json", value: `{{{`},
		{name: "object", value: `{"id":"1"}`},
		{name: "null", value: `null`},
		{name: "entry without id", value: `[{"timestamp":1}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			st := memstore.NewActivityStore()
			require.NoError(t, st.Save(ctx, DefaultKey, []byte(tc.value)))

			log := NewLog(st, discardLogger())
			entries, err := log.Entries(ctx, DefaultKey)
			require.NoError(t, err)
			assert.Empty(t, entries)

			_, err = log.Record(ctx, DefaultKey, domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{})
			require.NoError(t, err)

			raw, err := st.Load(ctx, DefaultKey)
			require.NoError(t, err)
			var stored []domain.AuditEntry
			require.NoError(t, json.Unmarshal(raw, &stored))
			assert.Len(t, stored, 1)
		})
	}
}

func TestLog_FlushRetriesFailedWrites(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{ActivityStore: memstore.NewActivityStore()}
	log := NewLog(st, discardLogger())

	entry, err := log.Record(ctx, DefaultKey, domain.ActionCompleted, domain.SourceStatic, domain.AuditMetadata{})
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.NotEmpty(t, entry.ID, "entry is kept even when the write fails")

	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.ErrorIs(t, log.Flush(ctx), store.ErrUnavailable)

	st.mu.Lock()
	st.healthy = true
	st.mu.Unlock()

	require.NoError(t, log.Flush(ctx))
	raw, err := st.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), entry.ID)

	// Nothing left to write.
	st.mu.Lock()
	saves := st.saves
	st.mu.Unlock()
	require.NoError(t, log.Flush(ctx))
	assert.Equal(t, saves, st.saves)
}

func TestLog_Export(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memstore.NewActivityStore(), discardLogger())

	var empty bytes.Buffer
	require.NoError(t, log.Export(ctx, DefaultKey, &empty))
	assert.JSONEq(t, `[]`, empty.String())

	first, err := log.Record(ctx, DefaultKey, domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{ModuleID: "m1"})
	require.NoError(t, err)
	second, err := log.Record(ctx, DefaultKey, domain.ActionGenerated, domain.SourceAIGenerated, domain.AuditMetadata{ToolID: "analogy"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, log.Export(ctx, DefaultKey, &buf))

	var exported []domain.AuditEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	assert.Equal(t, []domain.AuditEntry{first, second}, exported)

	// Export does not clear the log.
	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLog_ExportWriteError(t *testing.T) {
	log := NewLog(memstore.NewActivityStore(), discardLogger())
	assert.Error(t, log.Export(context.Background(), DefaultKey, errWriter{}))
}

func TestLog_ConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memstore.NewActivityStore(), discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := log.Record(ctx, DefaultKey, domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := log.Entries(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}

func TestLog_ExportMatchesRepairedLog(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		maxEntries int
		wantIDs    []string
	}{
		{
			name:       "corrupt value exports as empty",
			stored:     `{not json`,
			maxEntries: DefaultMaxEntries,
			wantIDs:    []string{},
		},
		{
			name: "oversized value exports trimmed",
			stored: `[
				{"id":"1-a","timestamp":1,"actionType":"viewed","contentSource":"static"},
				{"id":"2-b","timestamp":2,"actionType":"viewed","contentSource":"static"},
				{"id":"3-c","timestamp":3,"actionType":"completed","contentSource":"static"},
				{"id":"4-d","timestamp":4,"actionType":"generated","contentSource":"AI-generated","toolId":"analogy"},
				{"id":"5-e","timestamp":5,"actionType":"confirmed","contentSource":"OCR"}
			]`,
			maxEntries: 3,
			wantIDs:    []string{"3-c", "4-d", "5-e"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			st := memstore.NewActivityStore()
			require.NoError(t, st.Save(ctx, DefaultKey, []byte(tc.stored)))
			log := NewLog(st, discardLogger(), WithMaxEntries(tc.maxEntries))

			entries, err := log.Entries(ctx, DefaultKey)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, log.Export(ctx, DefaultKey, &buf))

			var exported []domain.AuditEntry
			require.NoError(t, json.Unmarshal(buf.Bytes(), &exported), "export must be a JSON array: %q", buf.String())
			assert.Equal(t, entries, exported)

			ids := make([]string, 0, len(exported))
			for _, e := range exported {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)

			// The repair reached the store too.
			raw, err := st.Load(ctx, DefaultKey)
			require.NoError(t, err)
			assert.JSONEq(t, buf.String(), string(raw))
		})
	}
}

func TestLog_ExportRepairsWithoutPriorRead(t *testing.T) {
	ctx := context.Background()
	st := memstore.NewActivityStore()
	require.NoError(t, st.Save(ctx, DefaultKey, []byte(`null`)))
	log := NewLog(st, discardLogger())

	var buf bytes.Buffer
	require.NoError(t, log.Export(ctx, DefaultKey, &buf))
	assert.Equal(t, "[]", buf.String())

	raw, err := st.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLog_CacheHoldsOnlyUnsavedLogs(t *testing.T) {
	ctx := context.Background()
	log := NewLog(memstore.NewActivityStore(), discardLogger())

	for i := 0; i < 200; i++ {
		key := KeyFor(DefaultKey, fmt.Sprintf("learner-%d", i))
		_, err := log.Record(ctx, key, domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{})
		require.NoError(t, err)
		_, err = log.Entries(ctx, key)
		require.NoError(t, err)
	}

	log.mu.Lock()
	cached := len(log.cache)
	log.mu.Unlock()
	assert.Zero(t, cached)

	// Evicted logs are read back from the store.
	entries, err := log.Entries(ctx, KeyFor(DefaultKey, "learner-42"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLog_UnsavedLogStaysCached(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{ActivityStore: memstore.NewActivityStore()}
	log := NewLog(st, discardLogger())

	_, err := log.Record(ctx, DefaultKey, domain.ActionViewed, domain.SourceStatic, domain.AuditMetadata{})
	require.Error(t, err)

	log.mu.Lock()
	_, cached := log.cache[DefaultKey]
	log.mu.Unlock()
	assert.True(t, cached)

	st.mu.Lock()
	st.healthy = true
	st.mu.Unlock()
	require.NoError(t, log.Flush(ctx))

	log.mu.Lock()
	assert.Empty(t, log.cache)
	log.mu.Unlock()
}
