package buckettable

import "testing"

func TestChoosePrefixLengthGrowsWithLength(t *testing.T) {
	small := ChoosePrefixLength(4, 100)
	large := ChoosePrefixLength(4, 1_000_000)
	if large < small {
		t.Fatalf("expected prefixlength to grow with totalLength: small=%d large=%d", small, large)
	}
	if small < 1 {
		t.Fatalf("prefixlength must be >= 1, got %d", small)
	}
}

func TestTableFinalizeAndValidate(t *testing.T) {
	tb := NewTable(4, 2) // 21 buckets: 4^2 full-length + 4^0 + 4^1 short
	if tb.NumBuckets() != 21 {
		t.Fatalf("got %d buckets, want 21", tb.NumBuckets())
	}
	tb.Add(0)
	tb.Add(0)
	tb.Add(3)
	tb.Add(16)
	tb.Finalize()
	if err := tb.Validate(); err != nil {
		t.Fatal(err)
	}
	if tb.LeftBorder(0) != 0 {
		t.Fatalf("got %d want 0", tb.LeftBorder(0))
	}
	if tb.LeftBorder(1) != 2 {
		t.Fatalf("got %d want 2", tb.LeftBorder(1))
	}
	if tb.BucketSize(0) != 2 {
		t.Fatalf("got %d want 2", tb.BucketSize(0))
	}
}

type fakeSrc struct {
	codes   []byte
	special map[int]bool
}

func (f *fakeSrc) SequentialCharAt(pos int) byte { return f.codes[pos] }
func (f *fakeSrc) ContainsSpecial(from, length int) bool {
	for p := from; p < from+length; p++ {
		if f.special[p] {
			return true
		}
	}
	return false
}

func TestPrefixCodeNoSpecial(t *testing.T) {
	src := &fakeSrc{codes: []byte{1, 2, 3, 0}, special: map[int]bool{}}
	code, special := PrefixCode(src, 0, 3, 4)
	if special {
		t.Fatal("did not expect special")
	}
	want := int64(1*16 + 2*4 + 3)
	if code != want {
		t.Fatalf("got %d want %d", code, want)
	}
}

func TestPrefixCodeHitsSpecial(t *testing.T) {
	src := &fakeSrc{codes: []byte{1, 2, 4, 0}, special: map[int]bool{2: true}}
	code, special := PrefixCode(src, 0, 3, 4)
	if !special {
		t.Fatal("expected special")
	}
	full := pow(4, 3)
	if code < full {
		t.Fatalf("short code %d collides with the full-length code range [0,%d)", code, full)
	}
}

// TestPrefixCodeShortDoesNotCollideWithFullLength reproduces the
// numofchars=4, prefixlength=2 case where a special-truncated "A..."
// prefix and the unrelated full-length prefix "AA" both encode their
// leading symbol as 0: the two must land in disjoint bucket codes.
func TestPrefixCodeShortDoesNotCollideWithFullLength(t *testing.T) {
	// "A<special>...": truncates after 1 valid symbol.
	shortSrc := &fakeSrc{codes: []byte{0, 4, 0, 0}, special: map[int]bool{1: true}}
	shortCode, special := PrefixCode(shortSrc, 0, 2, 4)
	if !special {
		t.Fatal("expected special")
	}
	// "AA...": full-length prefix, both symbols code to 0.
	fullSrc := &fakeSrc{codes: []byte{0, 0, 0, 0}, special: map[int]bool{}}
	fullCode, special := PrefixCode(fullSrc, 0, 2, 4)
	if special {
		t.Fatal("did not expect special")
	}
	if fullCode != 0 {
		t.Fatalf("full-length code of all-zero symbols should be 0, got %d", fullCode)
	}
	if shortCode == fullCode {
		t.Fatalf("short code %d collides with full-length code %d", shortCode, fullCode)
	}
}
