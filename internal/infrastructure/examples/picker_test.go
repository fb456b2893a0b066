package examples

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomPicksFromCannedLists(t *testing.T) {
	p := NewPicker()
	for i := 0; i < 50; i++ {
		ex := p.Random()
		assert.True(t, slices.Contains(TestStrings, ex.TestString), ex.TestString)
		assert.True(t, slices.ContainsFunc(Patterns, func(c Pattern) bool {
			return c.Pattern == ex.Pattern && c.Description == ex.Description
		}), ex.Pattern)
	}
}

func TestSeededPickerIsDeterministic(t *testing.T) {
	a, b := NewSeededPicker(7), NewSeededPicker(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Random(), b.Random())
	}
}
