package complexity

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

func TestHomopolymerIsLowComplexity(t *testing.T) {
	a := alphabet.DNA()
	seq := encode(t, a, "AAAAAAAAAAAAAAAA")
	if !IsLowComplexity(seq, a, 3) {
		t.Fatal("a homopolymer run should be flagged low complexity")
	}
}

func TestDiverseSequenceIsNotLowComplexity(t *testing.T) {
	a := alphabet.DNA()
	seq := encode(t, a, "ACGTACGTGCATGCATTGCA")
	if IsLowComplexity(seq, a, 3) {
		t.Fatal("a diverse sequence should not be flagged low complexity")
	}
}

func TestDistinctDinucleotidesCountsUniquePairs(t *testing.T) {
	a := alphabet.DNA()
	seq := encode(t, a, "ATATATAT")
	if got := DistinctDinucleotides(seq, a); got != 2 {
		t.Fatalf("got %d distinct dinucleotides, want 2 (AT, TA)", got)
	}
}
