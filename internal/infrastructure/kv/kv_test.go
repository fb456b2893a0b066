package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/rxdbg/internal/ports"
)

func backends(t *testing.T) map[string]ports.KeyValueStore {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := NewSQLite(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]ports.KeyValueStore{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(dir, "nested", "history.json")),
		"sqlite": sqlite,
	}
}

func TestBackendsGetSet(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Get("regexHistory")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set("regexHistory", `[{"id":1}]`))
			require.NoError(t, store.Set("other", "x"))
			require.NoError(t, store.Set("regexHistory", `[]`))

			v, found, err := store.Get("regexHistory")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[]`, v)

			v, _, err = store.Get("other")
			require.NoError(t, err)
			assert.Equal(t, "x", v)
		})
	}
}

func TestFileReopenSeesPersistedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, NewFile(path).Set("k", "v"))

	v, found, err := NewFile(path).Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileCorruptedIsReplacedOnSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFile(path)
	_, _, err := store.Get("k")
	assert.Error(t, err)

	require.NoError(t, store.Set("k", "v"))
	v, found, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestSQLiteReopenSeesPersistedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("k", "v"))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()
	v, found, err := second.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)
	assert.NoError(t, Close(store))

	store, err = Open("FILE", filepath.Join(dir, "h.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, store)

	store, err = Open("sqlite", filepath.Join(dir, "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	assert.NoError(t, Close(store))

	_, err = Open("redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.rxdbg/history.json", DefaultPath("file"))
	assert.Equal(t, "/home/tester/.rxdbg/history.db", DefaultPath("sqlite"))
}
