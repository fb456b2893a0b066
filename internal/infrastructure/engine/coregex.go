package engine

import (
	"github.com/coregx/coregex"

	"github.com/doeshing/rxdbg/internal/domain"
)

// Coregex evaluates RE2-syntax patterns with the coregex multi-engine matcher.
type Coregex struct {
	flags string
}

// NewCoregex builds a coregex matcher.
func NewCoregex(opts domain.MatchOptions) *Coregex {
	return &Coregex{flags: inlineFlags(opts)}
}

// Name implements ports.Matcher.
func (c *Coregex) Name() string { return domain.EngineCoregex }

// Analyze implements ports.Matcher.
func (c *Coregex) Analyze(pattern, sample string) domain.MatchResult {
	re, err := coregex.Compile(c.flags + pattern)
	if err != nil {
		return domain.MatchResult{Error: err.Error()}
	}
	return domain.MatchResult{Matches: fromSubmatchIndex(sample, re.FindAllStringSubmatchIndex(sample, -1))}
}
