// Package examples offers canned pattern/sample pairs for quick experiments.
package examples

import (
	"math/rand/v2"

	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/ports"
)

// Pattern is a canned pattern and what it is meant to match.
type Pattern struct {
	Pattern     string
	Description string
}

// Patterns are the canned patterns, picked independently of the samples.
var Patterns = []Pattern{
	{Pattern: `\d+`, Description: "Match one or more digits"},
	{Pattern: `[a-zA-Z]+`, Description: "Match one or more letters"},
	{Pattern: `\w+@\w+\.\w+`, Description: "Simple email pattern"},
	{Pattern: `^[A-Z][a-z]+$`, Description: "Capitalized word"},
	{Pattern: `\b\w{3,5}\b`, Description: "Words between 3-5 characters"},
}

// TestStrings are the canned samples.
var TestStrings = []string{
	"Hello world 123",
	"Contact me at user@example.com",
	"The quick brown fox jumps over the lazy dog",
	"42 is the answer to everything",
	"JavaScript is awesome in 2023",
	"Testing regex can be fun!",
	"Phone: 555-1234, Email: test@domain.com",
}

// Picker chooses a random pattern and a random sample.
type Picker struct {
	intN func(n int) int
}

// NewPicker returns a Picker using the global random source.
func NewPicker() *Picker {
	return &Picker{intN: rand.IntN}
}

// NewSeededPicker returns a deterministic Picker.
func NewSeededPicker(seed uint64) *Picker {
	r := rand.New(rand.NewPCG(seed, seed))
	return &Picker{intN: r.IntN}
}

// Random implements ports.ExamplePicker.
func (p *Picker) Random() domain.Example {
	pattern := Patterns[p.intN(len(Patterns))]
	return domain.Example{
		Pattern:     pattern.Pattern,
		TestString:  TestStrings[p.intN(len(TestStrings))],
		Description: pattern.Description,
	}
}

var _ ports.ExamplePicker = (*Picker)(nil)
