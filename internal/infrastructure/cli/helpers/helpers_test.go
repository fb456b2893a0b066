package helpers

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/rxdbg/internal/domain"
)

func TestNestedMapRoundTrip(t *testing.T) {
	root := map[string]interface{}{"matcher": "flat"}

	assert.True(t, SetNestedMapValue(root, []string{"matcher", "engine"}, "re2"))
	assert.False(t, SetNestedMapValue(root, nil, "x"))

	got, ok := TraverseNestedMap(root, []string{"matcher", "engine"})
	assert.True(t, ok)
	assert.Equal(t, "re2", got)

	_, ok = TraverseNestedMap(root, []string{"matcher", "engine", "deeper"})
	assert.False(t, ok)
	_, ok = TraverseNestedMap(root, []string{"server"})
	assert.False(t, ok)
}

func TestParseYAMLValue(t *testing.T) {
	v, err := ParseYAMLValue("8080")
	assert.NoError(t, err)
	assert.Equal(t, 8080, v)

	v, err = ParseYAMLValue("true")
	assert.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = ParseYAMLValue("[unterminated")
	assert.NoError(t, err)
	assert.Equal(t, "[unterminated", v)
}

func TestPromptForConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := PromptForConfirmation(&out, bufio.NewReader(strings.NewReader(tt.input)), "Clear?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Clear? [y/N]: ", out.String())
	}
}

func TestAnalyzeHistory(t *testing.T) {
	one := []domain.Match{{Text: "1"}}
	entries := []domain.HistoryEntry{
		{Pattern: `\d`, Matches: one},
		{Pattern: `\d`, Matches: []domain.Match{{Text: "1"}, {Text: "2"}}},
		{Pattern: `x`, Matches: []domain.Match{}},
		{Pattern: `a`, Matches: one},
	}

	stats := AnalyzeHistory(entries, 2)

	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 3, stats.WithMatches)
	assert.Equal(t, 4, stats.TotalMatches)
	assert.InDelta(t, 75.0, stats.MatchRate(), 0.001)
	assert.Equal(t, []PatternStatistic{{Pattern: `\d`, Count: 2}, {Pattern: "a", Count: 1}}, stats.TopPatterns)
}

func TestMatchRateEmpty(t *testing.T) {
	assert.Zero(t, AnalyzeHistory(nil, 0).MatchRate())
}
