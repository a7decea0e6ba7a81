package sufsort

import (
	"math/rand"
	"testing"

	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/encseq"
)

func buildEnc(t *testing.T, s string) *encseq.EncodedSequence {
	t.Helper()
	a := alphabet.DNA()
	syms := make([]alphabet.Symbol, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := a.Encode(s[i])
		if !ok {
			t.Fatalf("bad char %q", s[i])
		}
		syms[i] = c
	}
	prod := encseq.NewSliceProducer([][]alphabet.Symbol{syms}, nil)
	e, _, err := encseq.Build(prod, a, encseq.WriteOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// naiveComparePos is an independent reference lexicographic suffix
// comparator, walking one symbol at a time via SequentialCharAt. It
// shares no code with comparePos's bit-word fast path, so tests built
// on it actually check Sort's output against the textbook definition
// of suffix order rather than against the function under test.
func naiveComparePos(enc *encseq.EncodedSequence, a, b int) (int, int) {
	total := enc.TotalLength()
	h := 0
	for {
		pa, pb := a+h, b+h
		inA, inB := pa < total, pb < total
		if !inA && !inB {
			return 0, h
		}
		if !inA {
			return -1, h
		}
		if !inB {
			return 1, h
		}
		ca, cb := enc.SequentialCharAt(pa), enc.SequentialCharAt(pb)
		if ca != cb {
			if ca < cb {
				return -1, h
			}
			return 1, h
		}
		h++
	}
}

func isSorted(enc *encseq.EncodedSequence, suftab []int32) bool {
	for i := 1; i < len(suftab); i++ {
		cmp, _ := naiveComparePos(enc, int(suftab[i-1]), int(suftab[i]))
		if cmp > 0 {
			return false
		}
	}
	return true
}

func TestSortProducesLexicographicOrder(t *testing.T) {
	enc := buildEnc(t, "BANANA"[:0]+"ACGTACGTACGTA")
	res, err := Sort(enc, Options{NumWorkers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Suftab) != enc.TotalLength() {
		t.Fatalf("got %d entries, want %d", len(res.Suftab), enc.TotalLength())
	}
	if !isSorted(enc, res.Suftab) {
		t.Fatal("suffix array is not sorted")
	}
	seen := make(map[int32]bool)
	for _, p := range res.Suftab {
		if seen[p] {
			t.Fatalf("duplicate position %d in suffix array", p)
		}
		seen[p] = true
	}
}

func TestSortWithLCP(t *testing.T) {
	enc := buildEnc(t, "ACGTACGTACGT")
	res, err := Sort(enc, Options{WithLCP: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.LCP == nil {
		t.Fatal("expected LCP array")
	}
	if res.LCPAt(0) != 0 {
		t.Fatalf("LCP of the smallest suffix should be 0, got %d", res.LCPAt(0))
	}
	for i := 1; i < len(res.Suftab); i++ {
		a, b := int(res.Suftab[i-1]), int(res.Suftab[i])
		_, want := naiveComparePos(enc, a, b)
		if res.LCPAt(i) != want {
			t.Fatalf("lcp[%d]=%d, naive comparison gives %d", i, res.LCPAt(i), want)
		}
	}
}

// TestSortRandomizedAgreesWithNaiveOrder builds random DNA sequences
// of varying length, sorts them under a range of worker counts and
// difference-cover sample moduli, and checks the result against
// naiveComparePos rather than comparePos itself (the function Sort
// actually uses), so a bug shared between comparePos and Sort's own
// dispatch logic can't hide behind a self-referential check.
func TestSortRandomizedAgreesWithNaiveOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	letters := "ACGT"
	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(300)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = letters[rng.Intn(len(letters))]
		}
		enc := buildEnc(t, string(buf))

		opts := Options{
			NumWorkers: 1 + rng.Intn(4),
			WithLCP:    rng.Intn(2) == 0,
		}
		switch rng.Intn(3) {
		case 1:
			opts.Samples = 8
		case 2:
			opts.Samples = 16
		}

		res, err := Sort(enc, opts)
		if err != nil {
			t.Fatalf("trial %d (seq=%q, opts=%+v): %v", trial, buf, opts, err)
		}
		if len(res.Suftab) != enc.TotalLength() {
			t.Fatalf("trial %d: got %d suftab entries, want %d", trial, len(res.Suftab), enc.TotalLength())
		}
		if !isSorted(enc, res.Suftab) {
			t.Fatalf("trial %d (seq=%q, opts=%+v): suffix array is not sorted against the naive reference", trial, buf, opts)
		}
		seen := make(map[int32]bool, len(res.Suftab))
		for _, p := range res.Suftab {
			if seen[p] {
				t.Fatalf("trial %d: duplicate position %d in suffix array", trial, p)
			}
			seen[p] = true
		}
	}
}
