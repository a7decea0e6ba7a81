package greedyext

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
	res := Extend(u, v, a, 2)
	if res.ExtentU != len(u) || res.ExtentV != len(v) {
		t.Fatalf("expected full extension, got u=%d v=%d", res.ExtentU, res.ExtentV)
	}
	if res.Distance != 0 {
		t.Fatalf("expected distance 0 for a perfect match, got %d", res.Distance)
	}
}

func TestExtendOneMismatch(t *testing.T) {
	a := alphabet.DNA()
	u := encode(t, a, "ACGTACGTACGT")
	v := encode(t, a, "ACGTTCGTACGT")
	res := Extend(u, v, a, 2)
	if res.Distance != 1 {
		t.Fatalf("expected distance 1 for a single substitution, got %d", res.Distance)
	}
	if res.ExtentU != len(u) {
		t.Fatalf("expected full extension despite the single mismatch, got %d", res.ExtentU)
	}
}
