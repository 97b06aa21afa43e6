// Package scramble builds random move sequences.
package scramble

import (
	"math/rand"
	"strings"
	"time"
)

// Length is the number of face turns per scramble.
const Length = 20

var faces = []byte{'U', 'D', 'L', 'R', 'F', 'B'}

var modifiers = []string{"", "'", "2"}

// axisOf groups opposing faces: U/D, L/R, F/B.
func axisOf(face byte) int {
	switch face {
	case 'U', 'D':
		return 0
	case 'L', 'R':
		return 1
	default:
		return 2
	}
}

// Generator produces randomized scrambles.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a deterministic Generator for tests.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds one scramble: Length face turns with random modifiers,
// where no two consecutive turns share a face or an opposing-face axis.
func (g *Generator) Generate() string {
	tokens := make([]string, 0, Length)
	prevAxis := -1
	for i := 0; i < Length; i++ {
		face := faces[g.rnd.Intn(len(faces))]
		for axisOf(face) == prevAxis {
			face = faces[g.rnd.Intn(len(faces))]
		}
		prevAxis = axisOf(face)
		tokens = append(tokens, string(face)+modifiers[g.rnd.Intn(len(modifiers))])
	}
	return strings.Join(tokens, " ")
}
