package specialrange

import "testing"

func TestBuilderSplitsAtPageBoundary(t *testing.T) {
	b := NewBuilder(Width8) // page size 256
	// A run of specials from 250 to 260 straddles the boundary at 256.
	b.AddRun(250, 10)
	tbl := b.Build(300)
	if tbl.NumRanges() != 2 {
		t.Fatalf("expected 2 ranges after split, got %d: %v", tbl.NumRanges(), tbl.Ranges())
	}
	r0, r1 := tbl.Ranges()[0], tbl.Ranges()[1]
	if r0.Start != 250 || r0.Length != 6 {
		t.Fatalf("unexpected first split range: %+v", r0)
	}
	if r1.Start != 256 || r1.Length != 4 {
		t.Fatalf("unexpected second split range: %+v", r1)
	}
	if err := tbl.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestTotalSpecialsInvariant(t *testing.T) {
	b := NewBuilder(Width16)
	b.AddRun(0, 3)
	b.AddRun(10, 5)
	b.AddRun(100, 2)
	tbl := b.Build(200)
	if tbl.TotalSpecials() != 10 {
		t.Fatalf("got %d want 10", tbl.TotalSpecials())
	}
	if err := tbl.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestContainsSpecialAndIsSpecial(t *testing.T) {
	b := NewBuilder(Width8)
	b.AddRun(5, 3)  // [5,8)
	b.AddRun(20, 1) // [20,21)
	tbl := b.Build(50)

	for _, p := range []int{5, 6, 7} {
		if !tbl.IsSpecial(p) {
			t.Fatalf("pos %d should be special", p)
		}
	}
	for _, p := range []int{0, 4, 8, 9, 19, 21} {
		if tbl.IsSpecial(p) {
			t.Fatalf("pos %d should not be special", p)
		}
	}
	if !tbl.ContainsSpecial(0, 6) {
		t.Fatal("span [0,6) should contain a special at 5")
	}
	if tbl.ContainsSpecial(0, 5) {
		t.Fatal("span [0,5) should not contain a special")
	}
	if !tbl.ContainsSpecial(6, 100) {
		t.Fatal("long span should contain special at 20")
	}
}

func TestScanStateForwardMatchesIsSpecial(t *testing.T) {
	b := NewBuilder(Width8)
	b.AddRun(5, 3)
	b.AddRun(20, 1)
	b.AddRun(40, 4)
	tbl := b.Build(60)

	ss := tbl.NewScanState(true)
	ss.Seek(0)
	for p := 0; p < 60; p++ {
		want := tbl.IsSpecial(p)
		got := ss.IsSpecialAt(p)
		if got != want {
			t.Fatalf("pos %d: scanstate=%v direct=%v", p, got, want)
		}
	}
}

func TestScanStateReverseMatchesIsSpecial(t *testing.T) {
	b := NewBuilder(Width8)
	b.AddRun(5, 3)
	b.AddRun(20, 1)
	b.AddRun(40, 4)
	tbl := b.Build(60)

	ss := tbl.NewScanState(false)
	ss.Seek(59)
	for p := 59; p >= 0; p-- {
		want := tbl.IsSpecial(p)
		got := ss.IsSpecialAt(p)
		if got != want {
			t.Fatalf("pos %d: scanstate=%v direct=%v", p, got, want)
		}
	}
}

func TestLeadingTrailingSpecialLength(t *testing.T) {
	b := NewBuilder(Width8)
	b.AddRun(0, 4)
	b.AddRun(10, 2)
	b.AddRun(18, 2)
	tbl := b.Build(20)
	if tbl.LeadingSpecialLength() != 4 {
		t.Fatalf("got %d want 4", tbl.LeadingSpecialLength())
	}
	if tbl.TrailingSpecialLength() != 2 {
		t.Fatalf("got %d want 2", tbl.TrailingSpecialLength())
	}
}

func TestRangeIterator(t *testing.T) {
	b := NewBuilder(Width8)
	b.AddRun(1, 1)
	b.AddRun(5, 1)
	b.AddRun(9, 1)
	tbl := b.Build(20)

	it := tbl.Iterator(true)
	var got []int
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, r.Start)
	}
	want := []int{1, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}

	it = tbl.Iterator(false)
	got = got[:0]
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, r.Start)
	}
	want = []int{9, 5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reverse: got %v want %v", got, want)
		}
	}
}

func TestChooseWidthPrefersSmallPagesForSmallSequences(t *testing.T) {
	// 200 symbols fit in one page at every width: Width8 costs
	// 2*1*5+4 = 14 bytes against 24 for Width16 and 44 for Width32.
	w := ChooseWidth(200, 5, 4)
	if w != Width8 {
		t.Fatalf("expected Width8 for a short sequence with few ranges, got %v", w)
	}
}
