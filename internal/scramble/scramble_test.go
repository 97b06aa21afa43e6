package scramble

import (
	"strings"
	"testing"
)

func TestGenerateShape(t *testing.T) {
	g := NewSeeded(1)
	for i := 0; i < 50; i++ {
		tokens := strings.Fields(g.Generate())
		if len(tokens) != Length {
			t.Fatalf("expected %d tokens, got %d", Length, len(tokens))
		}
		for _, tok := range tokens {
			if len(tok) < 1 || len(tok) > 2 {
				t.Fatalf("malformed token %q", tok)
			}
			if !strings.ContainsRune("UDLRFB", rune(tok[0])) {
				t.Fatalf("unknown face in token %q", tok)
			}
			if len(tok) == 2 && tok[1] != '\'' && tok[1] != '2' {
				t.Fatalf("unknown modifier in token %q", tok)
			}
		}
	}
}

func TestGenerateAdjacency(t *testing.T) {
	g := NewSeeded(42)
	for i := 0; i < 200; i++ {
		tokens := strings.Fields(g.Generate())
		for j := 1; j < len(tokens); j++ {
			prev, cur := tokens[j-1][0], tokens[j][0]
			if prev == cur {
				t.Fatalf("consecutive tokens share a face: %s %s", tokens[j-1], tokens[j])
			}
			if axisOf(prev) == axisOf(cur) {
				t.Fatalf("consecutive tokens share an axis: %s %s", tokens[j-1], tokens[j])
			}
		}
	}
}
