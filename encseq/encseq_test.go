package encseq

import (
	"path/filepath"
	"testing"

	"github.com/kshedden/gtsfx/alphabet"
)

func encodeDNA(t *testing.T, a *alphabet.Alphabet, s string) []alphabet.Symbol {
	t.Helper()
	out := make([]alphabet.Symbol, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := a.Encode(s[i])
		if !ok {
			t.Fatalf("unencodable byte %q in %q", s[i], s)
		}
		out[i] = c
	}
	return out
}

func buildTestSeq(t *testing.T, seqs []string, opts WriteOptions) (*EncodedSequence, *alphabet.Alphabet) {
	t.Helper()
	a := alphabet.DNA()
	var syms [][]alphabet.Symbol
	for _, s := range seqs {
		syms = append(syms, encodeDNA(t, a, s))
	}
	prod := NewSliceProducer(syms, nil)
	e, _, err := Build(prod, a, opts)
	if err != nil {
		t.Fatal(err)
	}
	return e, a
}

func TestBuildDirectRoundTrip(t *testing.T) {
	v := VariantDirect
	e, a := buildTestSeq(t, []string{"ACGT", "NNACGT"}, WriteOptions{Variant: &v})
	if e.Variant() != VariantDirect {
		t.Fatalf("got variant %v", e.Variant())
	}
	if e.NumSequences() != 2 {
		t.Fatalf("got %d sequences", e.NumSequences())
	}
	// "ACGT" + "$" + "NNACGT"
	want := "ACGT$NNACGT"
	for i := 0; i < len(want); i++ {
		sym := e.SequentialCharAt(i)
		got := a.Decode(sym)
		if got != want[i] {
			t.Fatalf("pos %d: got %q want %q", i, got, want[i])
		}
	}
}

func TestBuildBitaccessRoundTrip(t *testing.T) {
	v := VariantBitAccess
	e, a := buildTestSeq(t, []string{"ACGTNNACGT", "GGCCNNTTAA"}, WriteOptions{Variant: &v})
	want := "ACGTNNACGT$GGCCNNTTAA"
	for i := 0; i < len(want); i++ {
		got := a.Decode(e.SequentialCharAt(i))
		if got != want[i] {
			t.Fatalf("pos %d: got %q want %q", i, got, want[i])
		}
	}
	if !e.ContainsSpecial(4, 2) {
		t.Fatal("expected specials at [4,6)")
	}
	if e.ContainsSpecial(0, 4) {
		t.Fatal("did not expect specials in [0,4)")
	}
}

func TestBuildRangesRoundTrip(t *testing.T) {
	v := VariantRanges8
	e, a := buildTestSeq(t, []string{"ACGTNNNNACGT"}, WriteOptions{Variant: &v})
	want := "ACGTNNNNACGT"
	for i := 0; i < len(want); i++ {
		got := a.Decode(e.SequentialCharAt(i))
		if got != want[i] {
			t.Fatalf("pos %d: got %q want %q", i, got, want[i])
		}
	}
}

func TestAutoChooseVariantPrefersDirectWhenNoSpecials(t *testing.T) {
	e, _ := buildTestSeq(t, []string{"ACGTACGTACGT"}, WriteOptions{})
	if e.Variant() != VariantDirect {
		t.Fatalf("expected direct for a no-special sequence, got %v", e.Variant())
	}
}

func TestExtract2BitWordNonSpecialCount(t *testing.T) {
	v := VariantBitAccess
	e, _ := buildTestSeq(t, []string{"ACGTACGTNNACGTACGTACGTACGTACGTACGTACGT"}, WriteOptions{Variant: &v})
	_, nonSpecial := e.Extract2BitWord(0, true)
	if nonSpecial != 8 {
		t.Fatalf("expected 8 non-special leading symbols before the N run, got %d", nonSpecial)
	}
}

func TestWriteAndOpenRoundTrip(t *testing.T) {
	v := VariantBitAccess
	e, a := buildTestSeq(t, []string{"ACGTNNACGT", "GGCCTTAA"}, WriteOptions{Variant: &v})
	dir := t.TempDir()
	idx := filepath.Join(dir, "testidx")
	if err := WriteFiles(idx, e, nil); err != nil {
		t.Fatal(err)
	}
	e2, closer, err := Open(idx, a)
	if err != nil {
		t.Fatal(err)
	}
	defer closer()
	if e2.TotalLength() != e.TotalLength() {
		t.Fatalf("got length %d want %d", e2.TotalLength(), e.TotalLength())
	}
	for i := 0; i < e.TotalLength(); i++ {
		if e2.SequentialCharAt(i) != e.SequentialCharAt(i) {
			t.Fatalf("pos %d mismatch after reopen", i)
		}
	}
}

func TestSelfCheckPasses(t *testing.T) {
	v := VariantRanges16
	e, _ := buildTestSeq(t, []string{"ACGTNNNACGTNNACGT"}, WriteOptions{Variant: &v})
	if err := e.SelfCheck(0); err != nil {
		t.Fatal(err)
	}
}
