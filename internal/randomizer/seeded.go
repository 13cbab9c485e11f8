// Package randomizer builds per-user exam papers. Ordering is reproducible
// for a given (user, test) pair so a paper can be re-derived at submission
// time instead of being stored.
package randomizer

import (
	"unicode/utf16"
)

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Seed derives a stable seed from "{userID}_{testID}" with a 31-multiplier
// rolling hash truncated to a signed 32-bit value at every step. The result
// is the absolute value of that hash.
func Seed(userID, testID string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(userID + "_" + testID)) {
		h = h*31 + int32(c)
	}
	s := int64(h)
	if s < 0 {
		s = -s
	}
	return s
}

// Generator is a linear-congruential stream. It is not safe for concurrent
// use; create one per paper.
type Generator struct {
	state int64
}

// NewGenerator returns a generator starting from seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{state: seed}
}

// ForExam returns a generator seeded from the user and test ids.
func ForExam(userID, testID string) *Generator {
	return NewGenerator(Seed(userID, testID))
}

// Next advances the stream and returns a value in [0, 1).
func (g *Generator) Next() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	return int(g.Next() * float64(n))
}

// Shuffle returns a Fisher–Yates permutation of items drawn from g.
// items is not modified.
func Shuffle[T any](g *Generator, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
