// Package history keeps the ordered log of past test runs and persists it,
// as one JSON array, through a ports.KeyValueStore.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/pkg/logger"
	"github.com/doeshing/rxdbg/internal/ports"
)

// idJitter is the exclusive upper bound of the random part added to ids.
const idJitter = 100000

// Store is an append-only history log with delete-by-id and clear.
// Every mutation writes the full list to the backend before it returns; the
// in-memory list only changes once that write succeeded.
type Store struct {
	kv     ports.KeyValueStore
	key    string
	layout string
	now    func() time.Time
	newID  func(time.Time) int64
	log    ports.Logger

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides the storage key (default "regexHistory").
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTimestampLayout overrides the time.Format layout used for timestamps.
func WithTimestampLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the time+random id scheme.
func WithIDGenerator(fn func(time.Time) int64) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLogger sets the logger used to report recovered load failures.
func WithLogger(log ports.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore loads the history persisted under the store key. A missing,
// unreadable or undecodable value yields an empty history.
func NewStore(kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    domain.DefaultHistoryKey,
		layout: domain.DefaultTimestampLayout,
		now:    time.Now,
		newID:  defaultID,
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = s.load()
	return s
}

func defaultID(now time.Time) int64 {
	return now.UnixMilli() + rand.Int64N(idJitter)
}

func (s *Store) load() []domain.HistoryEntry {
	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Warn("history unreadable, starting empty", map[string]interface{}{"key": s.key, "error": err.Error()})
		return []domain.HistoryEntry{}
	}
	if !found || raw == "" {
		return []domain.HistoryEntry{}
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn("history undecodable, starting empty", map[string]interface{}{"key": s.key, "error": err.Error()})
		return []domain.HistoryEntry{}
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	s.log.Debug("history loaded", map[string]interface{}{"key": s.key, "entries": len(entries)})
	return entries
}

// persist writes next to the backend and, on success, makes it current.
// Callers hold s.mu.
func (s *Store) persist(next []domain.HistoryEntry) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	s.entries = next
	return nil
}

// AddEntry records a test run and returns the created entry.
func (s *Store) AddEntry(pattern, testString string, matches []domain.Match, explanation string) (domain.HistoryEntry, error) {
	if matches == nil {
		matches = []domain.Match{}
	}
	now := s.now()
	entry := domain.HistoryEntry{
		ID:          s.newID(now),
		Pattern:     pattern,
		TestString:  testString,
		Matches:     matches,
		Explanation: explanation,
		Timestamp:   now.Format(s.layout),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(s.snapshot(), entry)
	if err := s.persist(next); err != nil {
		return domain.HistoryEntry{}, err
	}
	return entry, nil
}

// RemoveEntry deletes every entry with the given id. Unknown ids are a no-op,
// though the list is still written back.
func (s *Store) RemoveEntry(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.HistoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return s.persist(next)
}

// ClearHistory removes every entry.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist([]domain.HistoryEntry{})
}

// GetHistory returns the entries oldest first.
func (s *Store) GetHistory() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Find returns the entry with the given id.
func (s *Store) Find(id int64) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.HistoryEntry{}, false
}

// Search returns up to limit of the most recent entries whose pattern or test
// string contains query, oldest first. limit <= 0 means no limit.
func (s *Store) Search(query string, limit int) []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []domain.HistoryEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if query != "" && !strings.Contains(e.Pattern, query) && !strings.Contains(e.TestString, query) {
			continue
		}
		found = append(found, e)
		if limit > 0 && len(found) >= limit {
			break
		}
	}
	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	return found
}

// Export writes the history as an indented JSON array.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.GetHistory())
}

func (s *Store) snapshot() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

var _ ports.HistoryRepository = (*Store)(nil)
