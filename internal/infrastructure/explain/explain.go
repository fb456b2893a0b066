// Package explain produces a token-by-token description of a regex pattern.
//
// The explainer is heuristic: it segments the pattern with a fixed grammar and
// looks each token up in a static table. It never builds a syntax tree, so
// groups, alternation, lookaround and backreferences are described one meta
// character at a time.
package explain

import (
	"fmt"
	"strings"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/ports"
)

const (
	// Header is the first line of every report.
	Header = "Regex Pattern Breakdown:"

	emptyToken       = "Empty pattern"
	emptyDescription = "Matches empty string"

	quantifierDescription = "Quantifier specifying repetition"
	charSetDescription    = "Character set - matches any one character from the set"
	escapedDescription    = "Escaped special character"
	literalDescription    = "Literal text to match"
)

var descriptions = map[string]string{
	// Basic patterns
	`.`:  "Matches any single character except newline",
	`\d`: "Matches any digit (0-9)",
	`\D`: "Matches any non-digit character",
	`\w`: "Matches any word character (alphanumeric + underscore)",
	`\W`: "Matches any non-word character",
	`\s`: "Matches any whitespace character (spaces, tabs, line breaks)",
	`\S`: "Matches any non-whitespace character",
	`\b`: "Word boundary",
	`\B`: "Non-word boundary",
	`^`:  "Start of string or line",
	`$`:  "End of string or line",

	// Quantifiers
	`*`: "Matches 0 or more of the preceding token",
	`+`: "Matches 1 or more of the preceding token",
	`?`: "Matches 0 or 1 of the preceding token (makes it optional)",

	// Character sets
	`[abc]`:  "Matches any character in the set (a, b, or c)",
	`[^abc]`: "Matches any character not in the set",
	`[a-z]`:  "Matches any character in the range (a through z)",
	`[A-Z]`:  "Matches any uppercase letter",
	`[0-9]`:  "Matches any digit",
}

// Explainer implements ports.Explainer.
type Explainer struct{}

// New returns an Explainer.
func New() *Explainer {
	return &Explainer{}
}

// Explain renders the report: the header followed by one "- token: description"
// line per explanation line, each newline-terminated.
func (Explainer) Explain(pattern string) string {
	return Render(Lines(pattern))
}

// Lines implements ports.Explainer.
func (Explainer) Lines(pattern string) []domain.ExplanationLine {
	return Lines(pattern)
}

// Lines describes each token of pattern. Brace quantifiers contribute two lines.
func Lines(pattern string) []domain.ExplanationLine {
	tokens := Segment(pattern)
	if len(tokens) == 0 {
		return []domain.ExplanationLine{{Token: emptyToken, Description: emptyDescription}}
	}
	lines := make([]domain.ExplanationLine, 0, len(tokens))
	for _, tok := range tokens {
		lines = append(lines, describe(tok)...)
	}
	return lines
}

// Render formats explanation lines as a report.
func Render(lines []domain.ExplanationLine) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s: %s\n", line.Token, line.Description)
	}
	return b.String()
}

func describe(tok string) []domain.ExplanationLine {
	line := func(desc string) domain.ExplanationLine {
		return domain.ExplanationLine{Token: tok, Description: desc}
	}
	if desc, ok := descriptions[tok]; ok {
		return []domain.ExplanationLine{line(desc)}
	}
	switch {
	case isQuantifier(tok):
		return []domain.ExplanationLine{line(quantifierDescription), line(repetition(tok))}
	case isCharSet(tok):
		return []domain.ExplanationLine{line(charSetDescription)}
	case strings.HasPrefix(tok, `\`):
		return []domain.ExplanationLine{line(escapedDescription)}
	default:
		return []domain.ExplanationLine{line(literalDescription)}
	}
}

func isQuantifier(tok string) bool {
	return len(tok) > 2 && braceQuantifier([]rune(tok)) == len([]rune(tok))
}

func isCharSet(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]")
}

// repetition spells out the bounds of a "{n}", "{n,}" or "{n,m}" quantifier.
func repetition(tok string) string {
	body := tok[1 : len(tok)-1]
	lo, hi, hasComma := strings.Cut(body, ",")
	switch {
	case !hasComma:
		return fmt.Sprintf("Repeat exactly %s times", lo)
	case hi == "":
		return fmt.Sprintf("Repeat at least %s times", lo)
	default:
		return fmt.Sprintf("Repeat between %s and %s times", lo, hi)
	}
}

var _ ports.Explainer = (*Explainer)(nil)
