package explain

import "strings"

// metaChars are the characters that never belong to a literal run.
const metaChars = `[](){}*+?.^$\`

// rule recognizes one token kind at the start of rs and returns its length in
// runes, or 0 when it does not apply.
type rule func(rs []rune) int

// grammar is tried in order at each position; the first rule that applies wins.
var grammar = []rule{
	bracketClass,
	braceQuantifier,
	escapeSequence,
	metaChar,
	literalRun,
}

// Segment splits a pattern into tokens. Concatenating the tokens yields the
// pattern back; an unmatched metacharacter becomes a token of its own.
func Segment(pattern string) []string {
	rs := []rune(pattern)
	var tokens []string
	for i := 0; i < len(rs); {
		n := 0
		for _, r := range grammar {
			if n = r(rs[i:]); n > 0 {
				break
			}
		}
		if n == 0 {
			i++
			continue
		}
		tokens = append(tokens, string(rs[i:i+n]))
		i += n
	}
	return tokens
}

func isMeta(r rune) bool {
	return strings.ContainsRune(metaChars, r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// bracketClass matches "[...]" or "[^...]" up to the next unescaped "]".
func bracketClass(rs []rune) int {
	if len(rs) == 0 || rs[0] != '[' {
		return 0
	}
	i := 1
	if i < len(rs) && rs[i] == '^' {
		i++
	}
	for i < len(rs) {
		switch rs[i] {
		case '\\':
			i += 2
		case ']':
			return i + 1
		default:
			i++
		}
	}
	return 0
}

// braceQuantifier matches "{n}", "{n,}" and "{n,m}".
func braceQuantifier(rs []rune) int {
	if len(rs) == 0 || rs[0] != '{' {
		return 0
	}
	i := 1
	start := i
	for i < len(rs) && isDigit(rs[i]) {
		i++
	}
	if i == start {
		return 0
	}
	if i < len(rs) && rs[i] == ',' {
		i++
		for i < len(rs) && isDigit(rs[i]) {
			i++
		}
	}
	if i < len(rs) && rs[i] == '}' {
		return i + 1
	}
	return 0
}

// escapeSequence matches a backslash and the character after it.
func escapeSequence(rs []rune) int {
	if len(rs) >= 2 && rs[0] == '\\' {
		return 2
	}
	return 0
}

func metaChar(rs []rune) int {
	if len(rs) > 0 && isMeta(rs[0]) {
		return 1
	}
	return 0
}

// literalRun matches the longest prefix free of meta characters.
func literalRun(rs []rune) int {
	n := 0
	for n < len(rs) && !isMeta(rs[n]) {
		n++
	}
	return n
}
