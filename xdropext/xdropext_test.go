package xdropext

import (
	"testing"

	"github.com/kshedden/gtsfx/alphabet"
)

func encode(t *testing.T, a *alphabet.Alphabet, s string) []alphabet.Symbol {
	t.Helper()
	out := make([]alphabet.Symbol, len(s))
	for i := range s {
		c, ok := a.Encode(s[i])
		if !ok {
			t.Fatalf("bad char %q", s[i])
		}
		out[i] = c
	}
	return out
}

func TestExtendPerfectMatch(t *testing.T) {
	a := alphabet.DNA()
	u := encode(t, a, "ACGTACGTACGT")
	v := encode(t, a, "ACGTACGTACGT")
	res := Extend(u, v, a, DefaultScores, 10)
	if res.Score != len(u)*DefaultScores.Match {
		t.Fatalf("got score %d, want %d", res.Score, len(u)*DefaultScores.Match)
	}
	if res.Extent != len(u) {
		t.Fatalf("got extent %d, want %d", res.Extent, len(u))
	}
}

func TestExtendStopsAtDivergence(t *testing.T) {
	a := alphabet.DNA()
	u := encode(t, a, "ACGTACGTTTTTTTTTTTTTTTTTTTT")
	v := encode(t, a, "ACGTACGTAAAAAAAAAAAAAAAAAAA")
	res := Extend(u, v, a, DefaultScores, 4)
	if res.Extent < 8 {
		t.Fatalf("expected the shared ACGTACGT prefix to extend at least 8, got %d", res.Extent)
	}
	if res.Extent >= len(u) {
		t.Fatalf("expected extension to stop before the full diverged suffix, got %d", res.Extent)
	}
}
