package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/rxdbg/internal/app"
	"github.com/doeshing/rxdbg/internal/application/analysis"
	"github.com/doeshing/rxdbg/internal/domain"
)

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("RXDBG_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("RXDBG_HISTORY_BACKEND", domain.BackendMemory)

	container, err := app.BuildContainer(context.Background(), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func run(t *testing.T, container *app.Container, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(container)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTestCommandPrintsMatchesAndExplanation(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container, "test", `(\d+)-(\d+)`, "Phone: 555-1234")
	require.NoError(t, err)

	assert.Contains(t, out, "Pattern: (\\d+)-(\\d+) (ecmascript)")
	assert.Contains(t, out, `1. "555-1234" at index 7`)
	assert.Contains(t, out, `group 1: "555"`)
	assert.Contains(t, out, `group 2: "1234"`)
	assert.Contains(t, out, "Regex Pattern Breakdown:")
	assert.Contains(t, out, "Saved to history as #")
	assert.Len(t, container.HistoryStore.GetHistory(), 1)
}

func TestRootRoutesBareArgumentsToTest(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container, "cat", "concatenate")
	require.NoError(t, err)
	assert.Contains(t, out, `"cat" at index 3`)
}

func TestRootWithoutArgumentsShowsHelp(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestTestCommandNoMatchesAndCompileError(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container, "test", "zzz", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Matches: none")

	out, err = run(t, container, "test", "(", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Error:")
	assert.Len(t, container.HistoryStore.GetHistory(), 1)
}

func TestTestCommandEmptyPattern(t *testing.T) {
	container := newTestContainer(t)

	_, err := run(t, container, "test", "", "abc")
	assert.ErrorIs(t, err, analysis.ErrEmptyPattern)
}

func TestTestCommandFlags(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container, "test", "--json", "--no-history", "-i", "--engine", "re2", "hello", "Hello HELLO")
	require.NoError(t, err)

	var got domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Result.Matches, 2)
	assert.Nil(t, got.Entry)
	assert.Empty(t, container.HistoryStore.GetHistory())
}

func TestTestCommandUnknownEngine(t *testing.T) {
	container := newTestContainer(t)

	_, err := run(t, container, "test", "--engine", "pcre", "a", "a")
	assert.Error(t, err)
}

func TestRandomCommand(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container, "random")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Example: "))
	assert.Len(t, container.HistoryStore.GetHistory(), 1)
}

func TestHighlight(t *testing.T) {
	mark := func(s ...string) string { return "[" + strings.Join(s, "") + "]" }

	matches := []domain.Match{{Text: "é1", Index: 1}, {Text: "", Index: 3}, {Text: "3", Index: 4}}
	assert.Equal(t, "a[é1]2[3]", Highlight("aé123", matches, mark))
	assert.Equal(t, "abc", Highlight("abc", nil, mark))
}

func TestTestCommandJSONWithoutMatches(t *testing.T) {
	container := newTestContainer(t)

	out, err := run(t, container, "test", "--json", `\d+`, "No numbers here")
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.JSONEq(t, `{"matches":[]}`, string(got["result"]))
}
