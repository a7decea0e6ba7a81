package bitpack

import "testing"

func TestSetGet(t *testing.T) {
	s := NewStore(10)
	vals := []byte{0, 1, 2, 3, 1, 0, 3, 2, 1, 1}
	for i, v := range vals {
		s.Set(i, v)
	}
	for i, v := range vals {
		if got := s.Get(i); got != v {
			t.Fatalf("pos %d: got %d, want %d", i, got, v)
		}
	}
}

func TestExtractForwardAligned(t *testing.T) {
	s := NewStore(SymbolsPerWord)
	for i := 0; i < SymbolsPerWord; i++ {
		s.Set(i, byte(i%4))
	}
	w := s.ExtractWord(0, true)
	for i := 0; i < SymbolsPerWord; i++ {
		got := byte((w >> uint((SymbolsPerWord-1-i)*2)) & 3)
		want := byte(i % 4)
		if got != want {
			t.Fatalf("symbol %d: got %d want %d", i, got, want)
		}
	}
}

func TestExtractReverseMirrorsForward(t *testing.T) {
	n := 50
	s := NewStore(n)
	for i := 0; i < n; i++ {
		s.Set(i, byte((i*7)%4))
	}
	pos := 40
	rev := s.ExtractWord(pos, false)
	for i := 0; i < SymbolsPerWord; i++ {
		p := pos - i
		var want byte
		if p >= 0 {
			want = s.Get(p)
		}
		got := byte((rev >> uint((SymbolsPerWord-1-i)*2)) & 3)
		if got != want {
			t.Fatalf("i=%d: got %d want %d", i, got, want)
		}
	}
}

func TestCommonPrefixSymbols(t *testing.T) {
	s1 := NewStore(SymbolsPerWord)
	s2 := NewStore(SymbolsPerWord)
	for i := 0; i < SymbolsPerWord; i++ {
		s1.Set(i, byte(i%4))
		s2.Set(i, byte(i%4))
	}
	// Diverge at symbol 10.
	s2.Set(10, (s1.Get(10)+1)%4)
	w1 := s1.ExtractWord(0, true)
	w2 := s2.ExtractWord(0, true)
	if got := CommonPrefixSymbols(w1, w2); got != 10 {
		t.Fatalf("got %d want 10", got)
	}
}

func TestCommonPrefixSymbolsIdentical(t *testing.T) {
	if got := CommonPrefixSymbols(0x1234, 0x1234); got != SymbolsPerWord {
		t.Fatalf("got %d want %d", got, SymbolsPerWord)
	}
}

func TestComplementWord(t *testing.T) {
	s := NewStore(SymbolsPerWord)
	codes := []byte{0, 1, 2, 3}
	for i := 0; i < SymbolsPerWord; i++ {
		s.Set(i, codes[i%4])
	}
	w := s.ExtractWord(0, true)
	cw := ComplementWord(w)
	for i := 0; i < SymbolsPerWord; i++ {
		got := byte((cw >> uint((SymbolsPerWord-1-i)*2)) & 3)
		want := 3 - codes[i%4]
		if got != want {
			t.Fatalf("symbol %d: got %d want %d", i, got, want)
		}
	}
}
