package partsplit

import "testing"

func TestSplitCoversEveryWidth(t *testing.T) {
	counts := []int64{5, 0, 3, 0, 0, 7, 1, 2}
	parts := Split(counts, 3)
	var total int64
	for _, p := range parts {
		total += p.Width
	}
	var want int64
	for _, c := range counts {
		want += c
	}
	if total != want {
		t.Fatalf("parts cover %d suffixes, want %d", total, want)
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].Offset != parts[i-1].Offset+parts[i-1].Width {
			t.Fatalf("parts not contiguous: %+v then %+v", parts[i-1], parts[i])
		}
	}
}

func TestSplitDropsEmptyParts(t *testing.T) {
	counts := []int64{0, 0, 0}
	parts := Split(counts, 4)
	if len(parts) != 0 {
		t.Fatalf("expected no parts for all-empty counts, got %v", parts)
	}
}

func TestSplitSinglePart(t *testing.T) {
	counts := []int64{2, 3, 4}
	parts := Split(counts, 1)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].Width != 9 {
		t.Fatalf("got width %d want 9", parts[0].Width)
	}
}
