package engine

import (
	"regexp"

	"github.com/doeshing/rxdbg/internal/domain"
)

// RE2 evaluates patterns with Go's linear-time regexp package.
type RE2 struct {
	flags string
}

// NewRE2 builds an RE2 matcher.
func NewRE2(opts domain.MatchOptions) *RE2 {
	return &RE2{flags: inlineFlags(opts)}
}

// Name implements ports.Matcher.
func (r *RE2) Name() string { return domain.EngineRE2 }

// Analyze implements ports.Matcher.
func (r *RE2) Analyze(pattern, sample string) domain.MatchResult {
	re, err := regexp.Compile(r.flags + pattern)
	if err != nil {
		return domain.MatchResult{Error: err.Error()}
	}
	return domain.MatchResult{Matches: fromSubmatchIndex(sample, re.FindAllStringSubmatchIndex(sample, -1))}
}
