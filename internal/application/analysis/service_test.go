package analysis

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/infrastructure/engine"
	"github.com/doeshing/rxdbg/internal/infrastructure/explain"
	"github.com/doeshing/rxdbg/internal/infrastructure/history"
	"github.com/doeshing/rxdbg/internal/infrastructure/kv"
	"github.com/doeshing/rxdbg/internal/pkg/logger"
)

func newService(t *testing.T) (*Service, *history.Store) {
	t.Helper()
	store := history.NewStore(kv.NewMemory())
	return &Service{
		Matcher:   engine.NewECMAScript(domain.MatchOptions{}, domain.DefaultMatchTimeout),
		Explainer: explain.New(),
		History:   store,
		Examples:  stubPicker{ex: domain.Example{Pattern: `\d+`, TestString: "Hello world 123", Description: "digits"}},
		Logger:    logger.NewNop(),
		Record:    true,
	}, store
}

func TestRunRecordsSuccessfulTest(t *testing.T) {
	svc, store := newService(t)

	got, err := svc.Run(`\d+`, "I have 42 apples and 7 oranges")
	require.NoError(t, err)

	require.Len(t, got.Result.Matches, 2)
	assert.Contains(t, got.Explanation, "- \\d: Matches any digit (0-9)")
	require.NotNil(t, got.Entry)
	assert.Equal(t, got.Result.Matches, got.Entry.Matches)
	assert.Equal(t, got.Explanation, got.Entry.Explanation)
	assert.Equal(t, []domain.HistoryEntry{*got.Entry}, store.GetHistory())
}

func TestRunCompileErrorIsNotRecorded(t *testing.T) {
	svc, store := newService(t)

	got, err := svc.Run("[", "Test string")
	require.NoError(t, err)

	assert.True(t, got.Result.Failed())
	assert.NotEmpty(t, got.Explanation)
	assert.Nil(t, got.Entry)
	assert.Empty(t, store.GetHistory())
}

func TestRunEmptyPattern(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Run("", "anything")
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestRunWithoutRecording(t *testing.T) {
	svc, store := newService(t)
	svc.Record = false

	got, err := svc.Run(`a`, "a")
	require.NoError(t, err)
	assert.Nil(t, got.Entry)
	assert.Empty(t, store.GetHistory())
}

func TestRunSurfacesHistoryFailure(t *testing.T) {
	svc, _ := newService(t)
	svc.History = failingHistory{}

	got, err := svc.Run(`a`, "a")
	assert.Error(t, err)
	assert.Len(t, got.Result.Matches, 1)
}

func TestRunMissingDependencies(t *testing.T) {
	_, err := (&Service{}).Run("a", "a")
	assert.Error(t, err)
}

func TestRandomRunsPickedExample(t *testing.T) {
	svc, store := newService(t)

	ex, got, err := svc.Random()
	require.NoError(t, err)

	assert.Equal(t, `\d+`, ex.Pattern)
	assert.Equal(t, ex.Pattern, got.Pattern)
	require.Len(t, got.Result.Matches, 1)
	assert.Equal(t, "123", got.Result.Matches[0].Text)
	assert.Len(t, store.GetHistory(), 1)
}

type stubPicker struct{ ex domain.Example }

func (s stubPicker) Random() domain.Example { return s.ex }

type failingHistory struct{}

func (failingHistory) AddEntry(string, string, []domain.Match, string) (domain.HistoryEntry, error) {
	return domain.HistoryEntry{}, errors.New("disk full")
}
func (failingHistory) RemoveEntry(int64) error                  { return nil }
func (failingHistory) ClearHistory() error                      { return nil }
func (failingHistory) GetHistory() []domain.HistoryEntry        { return nil }
func (failingHistory) Find(int64) (domain.HistoryEntry, bool)   { return domain.HistoryEntry{}, false }
func (failingHistory) Search(string, int) []domain.HistoryEntry { return nil }
func (failingHistory) Export(io.Writer) error                   { return nil }
