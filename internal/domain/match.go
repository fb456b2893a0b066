// Package domain defines core entities and value objects for rxdbg.
//
// The domain layer is independent of infrastructure concerns: it holds the
// shapes exchanged between the matcher, the explainer and the history store,
// plus the configuration and diagnostics models.
package domain

import "encoding/json"

// Match is one occurrence of a pattern inside a sample string.
// Index counts characters (code points), not bytes.
type Match struct {
	Text   string    `json:"match"`
	Index  int       `json:"index"`
	Groups []*string `json:"groups"`
}

// Group returns the text captured by the i-th capturing group (1-based).
// The second result is false when the group did not participate or does not exist.
func (m Match) Group(i int) (string, bool) {
	if i < 1 || i > len(m.Groups) || m.Groups[i-1] == nil {
		return "", false
	}
	return *m.Groups[i-1], true
}

// MatchResult is either a list of matches or a compile diagnostic, never both.
type MatchResult struct {
	Matches []Match `json:"matches"`
	Error   string  `json:"error"`
}

// MarshalJSON encodes {"error": ...} for a rejected pattern and
// {"matches": [...]} otherwise, with an empty list when nothing matched.
func (r MatchResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	matches := r.Matches
	if matches == nil {
		matches = []Match{}
	}
	return json.Marshal(struct {
		Matches []Match `json:"matches"`
	}{matches})
}

// Failed reports whether the pattern was rejected by the engine.
func (r MatchResult) Failed() bool {
	return r.Error != ""
}

// MatchOptions toggles engine flags. The zero value is the default global,
// case-sensitive search.
type MatchOptions struct {
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
}
