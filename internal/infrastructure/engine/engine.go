// Package engine adapts regex engines to the ports.Matcher contract: a global,
// non-overlapping, left-to-right search that reports compile failures as data.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/ports"
)

// ErrUnknownEngine is returned by New for an unsupported engine name.
var ErrUnknownEngine = errors.New("unknown regex engine")

// Names lists the supported engines, default first.
func Names() []string {
	return []string{domain.EngineECMAScript, domain.EngineRE2, domain.EngineCoregex}
}

// New builds the named matcher. An empty name selects the ECMAScript engine.
// timeout only applies to the backtracking ECMAScript engine; zero disables it.
func New(name string, opts domain.MatchOptions, timeout time.Duration) (ports.Matcher, error) {
	switch strings.ToLower(name) {
	case "", domain.EngineECMAScript:
		return NewECMAScript(opts, timeout), nil
	case domain.EngineRE2:
		return NewRE2(opts), nil
	case domain.EngineCoregex:
		return NewCoregex(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s (want %s)", ErrUnknownEngine, name, strings.Join(Names(), "|"))
	}
}

// inlineFlags renders options as an RE2-syntax flag group, e.g. "(?im)".
func inlineFlags(opts domain.MatchOptions) string {
	var flags strings.Builder
	if opts.IgnoreCase {
		flags.WriteByte('i')
	}
	if opts.Multiline {
		flags.WriteByte('m')
	}
	if opts.DotAll {
		flags.WriteByte('s')
	}
	if flags.Len() == 0 {
		return ""
	}
	return "(?" + flags.String() + ")"
}

// fromSubmatchIndex converts byte-offset submatch indices, as returned by
// FindAllStringSubmatchIndex, into matches indexed by character.
func fromSubmatchIndex(sample string, locs [][]int) []domain.Match {
	matches := make([]domain.Match, 0, len(locs))
	// locs are sorted by start offset, so the rune count is carried forward.
	byteOff, runeOff := 0, 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		runeOff += utf8.RuneCountInString(sample[byteOff:start])
		byteOff = start

		groups := make([]*string, 0, len(loc)/2-1)
		for g := 2; g+1 < len(loc); g += 2 {
			if loc[g] < 0 {
				groups = append(groups, nil)
				continue
			}
			text := sample[loc[g]:loc[g+1]]
			groups = append(groups, &text)
		}

		matches = append(matches, domain.Match{
			Text:   sample[start:end],
			Index:  runeOff,
			Groups: groups,
		})
	}
	return matches
}
