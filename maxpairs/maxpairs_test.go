package maxpairs

import (
	"testing"

	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/encseq"
	"github.com/kshedden/gtsfx/sufsort"
)

func buildEnc(t *testing.T, seqs ...string) *encseq.EncodedSequence {
	t.Helper()
	a := alphabet.DNA()
	var syms [][]alphabet.Symbol
	for _, s := range seqs {
		sy := make([]alphabet.Symbol, len(s))
		for i := 0; i < len(s); i++ {
			c, ok := a.Encode(s[i])
			if !ok {
				t.Fatalf("bad char %q", s[i])
			}
			sy[i] = c
		}
		syms = append(syms, sy)
	}
	prod := encseq.NewSliceProducer(syms, nil)
	e, _, err := encseq.Build(prod, a, encseq.WriteOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestFindMaximalPairs(t *testing.T) {
	enc := buildEnc(t, "ACGTACGT")
	res, err := sufsort.Sort(enc, sufsort.Options{WithLCP: true})
	if err != nil {
		t.Fatal(err)
	}
	pairs := Find(enc, res.Suftab, res.LCPAt, 4)
	if len(pairs) == 0 {
		t.Fatal("expected at least one maximal pair for a repeated 4-mer")
	}
	for _, p := range pairs {
		if p.Length < 4 {
			t.Fatalf("pair below minLength: %+v", p)
		}
		if p.Pos1 >= p.Pos2 {
			t.Fatalf("pair not ordered: %+v", p)
		}
	}
}

func TestSuffixPrefixMatch(t *testing.T) {
	enc := buildEnc(t, "AAACGTT", "CGTTGGG")
	res, err := sufsort.Sort(enc, sufsort.Options{WithLCP: true})
	if err != nil {
		t.Fatal(err)
	}
	matches := SuffixPrefixMatch(enc, res.Suftab, res.LCPAt, 4)
	found := false
	for _, m := range matches {
		if m.SeqA == 0 && m.SeqB == 1 && m.Length >= 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a suffix-prefix match of seq0->seq1, got %+v", matches)
	}
}
