package engine

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/doeshing/rxdbg/internal/domain"
)

// ECMAScript evaluates patterns with JavaScript semantics (backreferences,
// lookaround, ECMAScript character classes) via regexp2.
type ECMAScript struct {
	options regexp2.RegexOptions
	timeout time.Duration
}

// NewECMAScript builds the default matcher.
func NewECMAScript(opts domain.MatchOptions, timeout time.Duration) *ECMAScript {
	options := regexp2.RegexOptions(regexp2.ECMAScript)
	if opts.IgnoreCase {
		options |= regexp2.IgnoreCase
	}
	if opts.Multiline {
		options |= regexp2.Multiline
	}
	if opts.DotAll {
		options |= regexp2.Singleline
	}
	return &ECMAScript{options: options, timeout: timeout}
}

// Name implements ports.Matcher.
func (e *ECMAScript) Name() string { return domain.EngineECMAScript }

// Analyze implements ports.Matcher.
func (e *ECMAScript) Analyze(pattern, sample string) domain.MatchResult {
	re, err := regexp2.Compile(pattern, e.options)
	if err != nil {
		return domain.MatchResult{Error: err.Error()}
	}
	if e.timeout > 0 {
		re.MatchTimeout = e.timeout
	}

	matches := []domain.Match{}
	// FindNextMatch steps past empty matches, so the loop always terminates.
	m, err := re.FindStringMatch(sample)
	for m != nil && err == nil {
		matches = append(matches, toMatch(m))
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return domain.MatchResult{Error: err.Error()}
	}
	return domain.MatchResult{Matches: matches}
}

func toMatch(m *regexp2.Match) domain.Match {
	all := m.Groups()
	groups := make([]*string, 0, len(all))
	for _, g := range all[1:] {
		if len(g.Captures) == 0 {
			groups = append(groups, nil)
			continue
		}
		text := g.String()
		groups = append(groups, &text)
	}
	return domain.Match{
		Text:   m.String(),
		Index:  m.Index,
		Groups: groups,
	}
}
