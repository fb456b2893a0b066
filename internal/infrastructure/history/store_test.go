package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/infrastructure/kv"
	"github.com/doeshing/rxdbg/internal/pkg/logger"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

// sequentialIDs hands out 1, 2, 3, ...
func sequentialIDs() Option {
	next := int64(0)
	return WithIDGenerator(func(time.Time) int64 {
		next++
		return next
	})
}

func newTestStore(t *testing.T, backend *kv.Memory, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), sequentialIDs()}, opts...)
	return NewStore(backend, opts...)
}

func TestNewStoreStartsEmpty(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	assert.Empty(t, store.GetHistory())
}

func TestAddEntry(t *testing.T) {
	backend := kv.NewMemory()
	store := newTestStore(t, backend)
	matches := []domain.Match{{Text: "42", Index: 5}}

	entry, err := store.AddEntry(`\d+`, "Test 42", matches, "Matches digits")
	require.NoError(t, err)

	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, `\d+`, entry.Pattern)
	assert.Equal(t, "Test 42", entry.TestString)
	assert.Equal(t, matches, entry.Matches)
	assert.Equal(t, "Matches digits", entry.Explanation)
	assert.Equal(t, "3/5/2024, 2:07:09 PM", entry.Timestamp)
	assert.Equal(t, []domain.HistoryEntry{entry}, store.GetHistory())

	raw, found, err := backend.Get(domain.DefaultHistoryKey)
	require.NoError(t, err)
	require.True(t, found)
	var persisted []domain.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted, 1)
}

func TestAddEntryNilMatchesPersistAsEmptyList(t *testing.T) {
	backend := kv.NewMemory()
	store := newTestStore(t, backend)

	_, err := store.AddEntry("a", "b", nil, "x")
	require.NoError(t, err)

	raw, _, _ := backend.Get(domain.DefaultHistoryKey)
	assert.Contains(t, raw, `"matches":[]`)
}

func TestFreshStoreReproducesHistory(t *testing.T) {
	backend := kv.NewMemory()
	store := newTestStore(t, backend)
	group := "user"
	_, err := store.AddEntry(`(\w+)@`, "user@host", []domain.Match{{Text: "user@", Index: 0, Groups: []*string{&group}}}, "explained")
	require.NoError(t, err)
	_, err = store.AddEntry(`(a)|(b)`, "b", []domain.Match{{Text: "b", Index: 0, Groups: []*string{nil, strPtr("b")}}}, "second")
	require.NoError(t, err)

	reloaded := NewStore(backend)

	if diff := cmp.Diff(store.GetHistory(), reloaded.GetHistory(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("reloaded history mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveEntryIsIdempotent(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	first, err := store.AddEntry("a", "a", nil, "")
	require.NoError(t, err)
	second, err := store.AddEntry("b", "b", nil, "")
	require.NoError(t, err)

	require.NoError(t, store.RemoveEntry(first.ID))
	afterOnce := store.GetHistory()
	require.NoError(t, store.RemoveEntry(first.ID))

	assert.Equal(t, afterOnce, store.GetHistory())
	assert.Equal(t, []domain.HistoryEntry{second}, store.GetHistory())

	require.NoError(t, store.RemoveEntry(999))
	assert.Len(t, store.GetHistory(), 1)
}

func TestClearHistory(t *testing.T) {
	backend := kv.NewMemory()
	store := newTestStore(t, backend)
	_, err := store.AddEntry(`\d+`, "Test 42", []domain.Match{}, "x")
	require.NoError(t, err)

	require.NoError(t, store.ClearHistory())

	assert.Empty(t, store.GetHistory())
	raw, _, _ := backend.Get(domain.DefaultHistoryKey)
	assert.Equal(t, "[]", raw)
	assert.Empty(t, NewStore(backend).GetHistory())
}

func TestGetHistoryReturnsCopy(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	_, err := store.AddEntry("a", "a", nil, "")
	require.NoError(t, err)

	got := store.GetHistory()
	got[0].Pattern = "mutated"

	assert.Equal(t, "a", store.GetHistory()[0].Pattern)
}

func TestCorruptedBlobLoadsEmpty(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(domain.DefaultHistoryKey, "{definitely not json"))

	store := NewStore(backend, WithLogger(logger.FromZap(zap.New(core))))

	assert.Empty(t, store.GetHistory())
	assert.Equal(t, 1, observed.FilterMessage("history undecodable, starting empty").Len())

	_, err := store.AddEntry("a", "b", nil, "")
	require.NoError(t, err)
	assert.Len(t, NewStore(backend).GetHistory(), 1)
}

func TestNullBlobLoadsEmpty(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(domain.DefaultHistoryKey, "null"))
	assert.NotNil(t, NewStore(backend).GetHistory())
}

func TestReadsExistingBlobLayout(t *testing.T) {
	backend := kv.NewMemory()
	blob := `[{"id":1700000012345,"pattern":"\\d+","testString":"Test 42","matches":[{"match":"42","index":5,"groups":[]}],"explanation":"Regex Pattern Breakdown:\n","timestamp":"11/14/2023, 10:13:32 PM"}]`
	require.NoError(t, backend.Set("regexHistory", blob))

	history := NewStore(backend).GetHistory()

	require.Len(t, history, 1)
	assert.Equal(t, int64(1700000012345), history[0].ID)
	assert.Equal(t, "42", history[0].Matches[0].Text)
	assert.Equal(t, 5, history[0].Matches[0].Index)
}

type failingKV struct {
	*kv.Memory
	fail bool
}

func (f *failingKV) Set(key, value string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

func TestFailedPersistLeavesMemoryUnchanged(t *testing.T) {
	backend := &failingKV{Memory: kv.NewMemory()}
	store := NewStore(backend, sequentialIDs())
	entry, err := store.AddEntry("a", "a", nil, "")
	require.NoError(t, err)

	backend.fail = true
	_, err = store.AddEntry("b", "b", nil, "")
	assert.ErrorContains(t, err, "disk full")
	assert.Error(t, store.RemoveEntry(entry.ID))
	assert.Error(t, store.ClearHistory())

	assert.Equal(t, []domain.HistoryEntry{entry}, store.GetHistory())
	assert.Len(t, NewStore(backend.Memory).GetHistory(), 1)
}

func TestFindAndSearch(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	for _, p := range []string{`\d+`, `[a-z]+`, `\d{3}`, `\w+@\w+`} {
		_, err := store.AddEntry(p, "sample "+p, nil, "")
		require.NoError(t, err)
	}

	entry, ok := store.Find(3)
	require.True(t, ok)
	assert.Equal(t, `\d{3}`, entry.Pattern)
	_, ok = store.Find(42)
	assert.False(t, ok)

	found := store.Search(`\d`, 0)
	require.Len(t, found, 2)
	assert.Equal(t, `\d+`, found[0].Pattern)
	assert.Equal(t, `\d{3}`, found[1].Pattern)

	limited := store.Search("", 2)
	require.Len(t, limited, 2)
	assert.Equal(t, int64(3), limited[0].ID)
	assert.Equal(t, int64(4), limited[1].ID)
}

func TestExport(t *testing.T) {
	store := newTestStore(t, kv.NewMemory())
	_, err := store.AddEntry("a", "a", nil, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, store.Export(&buf))

	var exported []domain.HistoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	assert.Equal(t, store.GetHistory(), exported)
}

func TestDefaultIDCombinesTimeAndJitter(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	for i := 0; i < 100; i++ {
		id := defaultID(now)
		assert.GreaterOrEqual(t, id, now.UnixMilli())
		assert.Less(t, id, now.UnixMilli()+idJitter)
	}
}

func TestCustomKeyAndLayout(t *testing.T) {
	backend := kv.NewMemory()
	store := newTestStore(t, backend, WithKey("custom"), WithTimestampLayout(time.RFC3339))

	entry, err := store.AddEntry("a", "a", nil, "")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05T14:07:09Z", entry.Timestamp)
	_, found, _ := backend.Get("custom")
	assert.True(t, found)
	_, found, _ = backend.Get(domain.DefaultHistoryKey)
	assert.False(t, found)
}

func strPtr(s string) *string { return &s }
