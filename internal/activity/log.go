package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/monitize/monitize-api/internal/domain"
	"github.com/monitize/monitize-api/internal/metrics"
	"github.com/monitize/monitize-api/internal/platform/logger"
	"github.com/monitize/monitize-api/internal/store"
)

const (
	// DefaultKey is the storage key of the anonymous learner's log.
	DefaultKey = "monitize_audit_trail"

	// DefaultMaxEntries caps a log when no other limit is configured.
	DefaultMaxEntries = 1000
)

// ExportFilename returns the download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "monitize_activity_log_" + t.UTC().Format("2006-01-02") + ".json"
}

// KeyFor returns the storage key for learnerID under base. An empty
// learnerID maps to base itself.
func KeyFor(base, learnerID string) string {
	if learnerID == "" {
		return base
	}
	return base + ":" + learnerID
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithMaxEntries overrides the cap. Values below one are ignored.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// Log is the activity log service. It is safe for concurrent use; all
// read-modify-write cycles are serialized.
//
// Only logs with unsaved changes stay cached. A log is dropped from memory
// once it has been written, so the cache is bounded by pending writes rather
// than by the number of learners.
type Log struct {
	store      store.ActivityStore
	logger     *slog.Logger
	maxEntries int
	now        func() time.Time

	mu    sync.Mutex
	cache map[string][]domain.AuditEntry
	dirty map[string]bool
}

// NewLog creates a Log over st.
func NewLog(st store.ActivityStore, logger *slog.Logger, opts ...Option) *Log {
	if st == nil {
		panic("activity store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Log{
		store:      st,
		logger:     logger.With("component", "activity_log"),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		cache:      make(map[string][]domain.AuditEntry),
		dirty:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxEntries returns the configured cap.
func (l *Log) MaxEntries() int {
	return l.maxEntries
}

// Record appends a new entry to the log under key and writes the log back.
// If the write fails the entry stays cached and a later Flush retries it.
func (l *Log) Record(
	ctx context.Context,
	key string,
	action domain.ActionType,
	source domain.ContentSource,
	meta domain.AuditMetadata,
) (domain.AuditEntry, error) {
	entry, err := domain.NewAuditEntry(action, source, meta, l.now())
	if err != nil {
		return domain.AuditEntry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.loadLocked(ctx, key)
	if err != nil {
		return domain.AuditEntry{}, err
	}

	entries = append(entries, entry)
	if len(entries) > l.maxEntries {
		trimmed := make([]domain.AuditEntry, l.maxEntries)
		copy(trimmed, entries[len(entries)-l.maxEntries:])
		entries = trimmed
	}
	l.cache[key] = entries
	l.dirty[key] = true

	metrics.ActivityRecordsTotal.WithLabelValues(string(action), string(source)).Inc()
	metrics.ActivityLogLength.Observe(float64(len(entries)))

	logger.FromContextOrDefault(ctx, l.logger).DebugContext(ctx, "activity recorded",
		"key", key,
		"entry_id", entry.ID,
		"action_type", entry.ActionType,
		"content_source", entry.ContentSource,
		"entries", len(entries))

	if err := l.flushLocked(ctx, key); err != nil {
		return entry, err
	}
	return entry, nil
}

// Entries returns a copy of the log under key, oldest first.
func (l *Log) Entries(ctx context.Context, key string) ([]domain.AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.loadLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuditEntry, len(entries))
	copy(out, entries)

	if l.dirty[key] {
		if err := l.flushLocked(ctx, key); err != nil {
			logger.FromContextOrDefault(ctx, l.logger).WarnContext(ctx,
				"activity log kept in memory until the next flush", "key", key, "error", err)
		}
	} else {
		delete(l.cache, key)
	}
	return out, nil
}

// Flush writes every log with unsaved entries. All keys are attempted;
// the first error is returned.
func (l *Log) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for key := range l.dirty {
		if err := l.flushLocked(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Export writes the log for key to w as a JSON array. Pending entries and
// repairs made while loading are written to the store first, so the output
// matches both Entries and the stored value. An empty log exports as an
// empty array. The log is not cleared.
func (l *Log) Export(ctx context.Context, key string, w io.Writer) error {
	l.mu.Lock()
	entries, err := l.loadLocked(ctx, key)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to load activity log for export: %w", err)
	}
	if l.dirty[key] {
		err = l.flushLocked(ctx, key)
	} else {
		delete(l.cache, key)
	}
	if err != nil {
		l.mu.Unlock()
		return err
	}
	raw, err := json.Marshal(entries)
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode activity export: %w", err)
	}

	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write activity export: %w", err)
	}
	return nil
}

// loadLocked returns the cached entries for key, reading through to the
// store when the key is not cached. A corrupt or oversized stored value is
// repaired in the cache and marked for writing. l.mu must be held.
func (l *Log) loadLocked(ctx context.Context, key string) ([]domain.AuditEntry, error) {
	if entries, ok := l.cache[key]; ok {
		return entries, nil
	}

	log := logger.FromContextOrDefault(ctx, l.logger)

	raw, err := l.store.Load(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.cache[key] = []domain.AuditEntry{}
		return l.cache[key], nil
	case err != nil:
		log.ErrorContext(ctx, "failed to load activity log", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		log.WarnContext(ctx, "stored activity log is corrupt, starting empty",
			"key", key,
			"bytes", len(raw),
			"error", err)
		entries = []domain.AuditEntry{}
		l.dirty[key] = true
	}
	if len(entries) > l.maxEntries {
		entries = entries[len(entries)-l.maxEntries:]
		l.dirty[key] = true
	}

	l.cache[key] = entries
	return entries, nil
}

// flushLocked writes the cached log for key and releases it from the cache.
// On failure the log stays cached and dirty. l.mu must be held.
func (l *Log) flushLocked(ctx context.Context, key string) error {
	entries, ok := l.cache[key]
	if !ok {
		delete(l.dirty, key)
		return nil
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}

	if err := l.store.Save(ctx, key, raw); err != nil {
		logger.FromContextOrDefault(ctx, l.logger).ErrorContext(ctx, "failed to flush activity log",
			"key", key,
			"entries", len(entries),
			"error", err)
		return fmt.Errorf("failed to flush activity log: %w", err)
	}

	delete(l.dirty, key)
	delete(l.cache, key)
	return nil
}

// decodeEntries parses a stored log. Anything that is not a JSON array of
// entry objects is rejected.
func decodeEntries(raw []byte) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, errors.New("stored value is null")
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
	}
	return entries, nil
}
