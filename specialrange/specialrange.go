// Copyright 2026, the gtsfx contributors.

// Package specialrange implements the side index that remembers the
// positions of wildcard / separator runs ("specials") that don't fit
// in encseq's 2-bit payload, per spec section 3/4.1. Three width
// variants (8/16/32-bit relative offsets) are supported; Table itself
// is width-agnostic in memory (it stores absolute positions) and only
// consults the width when estimating on-disk size or serializing.
package specialrange

import (
	"sort"

	"github.com/kshedden/gtsfx"
)

// Width is one of the three page-size choices for the ranges storage
// variants: a run's offset within its page, and its length minus one,
// are each stored in Width bits on disk.
type Width int

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// PageSize returns 2^w, the number of positions per page for width w.
func (w Width) PageSize() int64 { return int64(1) << uint(w) }

// BytesPerField returns the on-disk size, in bytes, of one of the two
// per-range fields (offset-in-page, length-minus-one) at this width.
func (w Width) BytesPerField() int {
	switch w {
	case Width8:
		return 1
	case Width16:
		return 2
	default:
		return 4
	}
}

// Range is a maximal run of specials, given as an absolute half-open
// start and a length (both within the owning encseq's total length).
type Range struct {
	Start  int
	Length int
}

func (r Range) End() int { return r.Start + r.Length }

// EstimateOverheadBytes implements spec section 4.1's "ranges
// overhead" closed-form: 2*sizeof(width)*#ranges + sizeof(Pos)*(N/pageSize + 1).
func EstimateOverheadBytes(w Width, totalLength int64, numRanges int, posSize int) int64 {
	pages := totalLength/w.PageSize() + 1
	return int64(2*w.BytesPerField()*numRanges) + int64(posSize)*pages
}

// ChooseWidth picks whichever of Width8/16/32 minimizes
// EstimateOverheadBytes for the observed totalLength/numRanges, the
// size heuristic named (but not formalized) in spec section 4.1.
func ChooseWidth(totalLength int64, numRanges int, posSize int) Width {
	best := Width8
	bestCost := EstimateOverheadBytes(Width8, totalLength, numRanges, posSize)
	for _, w := range []Width{Width16, Width32} {
		c := EstimateOverheadBytes(w, totalLength, numRanges, posSize)
		if c < bestCost {
			bestCost = c
			best = w
		}
	}
	return best
}

// Table is the finished, queryable side index: an ascending list of
// maximal special ranges plus, per page, a prefix-sum of how many
// ranges end on or before that page (invariant (d) of spec section 3).
type Table struct {
	width      Width
	pageSize   int64
	ranges     []Range
	endspecial []int64 // len == number of pages; endspecial[p] = #ranges with End() <= (p+1)*pageSize
	total      int     // sum of all range lengths; invariant (c)
	leadingLen int
	trailingLen int
	seqLen     int
}

// Builder accumulates maximal runs of specials in increasing order of
// start position (as produced by a single forward pass over a raw
// symbol producer) and splits any run that would straddle a page
// boundary, per invariant (b).
type Builder struct {
	width    Width
	pageSize int64
	ranges   []Range
}

// NewBuilder starts a Builder for the given width.
func NewBuilder(w Width) *Builder {
	return &Builder{width: w, pageSize: w.PageSize()}
}

// AddRun records a maximal run [start, start+length) of specials,
// splitting it at page boundaries, and splitting a run that covers a
// whole page once more inside that page, so that every stored Range is
// strictly shorter than the page size (invariant (b)). Runs must be
// added in non-decreasing start order.
func (b *Builder) AddRun(start, length int) {
	if length <= 0 {
		return
	}
	pos := int64(start)
	remaining := int64(length)
	for remaining > 0 {
		pageEnd := (pos/b.pageSize + 1) * b.pageSize
		chunk := pageEnd - pos
		if chunk >= b.pageSize {
			chunk = b.pageSize - 1
		}
		if chunk > remaining {
			chunk = remaining
		}
		b.ranges = append(b.ranges, Range{Start: int(pos), Length: int(chunk)})
		pos += chunk
		remaining -= chunk
	}
}

// Build finalizes the Table, computing the per-page endspecial
// prefix-sum counters. seqLen is the total encoded-sequence length,
// needed to size the endspecial table.
func (b *Builder) Build(seqLen int) *Table {
	t := &Table{width: b.width, pageSize: b.pageSize, ranges: b.ranges, seqLen: seqLen}
	numPages := int(int64(seqLen)/b.pageSize) + 1
	t.endspecial = make([]int64, numPages)
	var cum int64
	pageIdx := 0
	for _, r := range t.ranges {
		t.total += r.Length
		endPage := int(int64(r.End()-1) / b.pageSize)
		for pageIdx < endPage {
			t.endspecial[pageIdx] = cum
			pageIdx++
		}
		cum++
	}
	for pageIdx < numPages {
		t.endspecial[pageIdx] = cum
		pageIdx++
	}
	if len(t.ranges) > 0 {
		if t.ranges[0].Start == 0 {
			t.leadingLen = t.ranges[0].Length
		}
		last := t.ranges[len(t.ranges)-1]
		if last.End() == seqLen {
			t.trailingLen = last.Length
		}
	}
	return t
}

// Width reports the width variant this table was built with.
func (t *Table) Width() Width { return t.width }

// NumRanges returns the number of maximal special ranges.
func (t *Table) NumRanges() int { return len(t.ranges) }

// TotalSpecials returns the sum of all range lengths (invariant (c)).
func (t *Table) TotalSpecials() int { return t.total }

// LeadingSpecialLength and TrailingSpecialLength report the length of
// an all-specials prefix/suffix of the sequence, or 0 if there is none.
func (t *Table) LeadingSpecialLength() int  { return t.leadingLen }
func (t *Table) TrailingSpecialLength() int { return t.trailingLen }

// Ranges returns the ascending list of maximal special ranges. The
// returned slice must not be mutated by the caller.
func (t *Table) Ranges() []Range { return t.ranges }

// EndSpecial returns endspecial[page]: the number of ranges fully
// ended on or before page p (invariant (d)).
func (t *Table) EndSpecial(page int) int64 {
	if page < 0 {
		return 0
	}
	if page >= len(t.endspecial) {
		page = len(t.endspecial) - 1
	}
	return t.endspecial[page]
}

// rangeIndexAtOrAfter returns the index of the first range whose
// Start is >= pos (binary search), or len(ranges) if none.
func (t *Table) rangeIndexAtOrAfter(pos int) int {
	return sort.Search(len(t.ranges), func(i int) bool { return t.ranges[i].Start >= pos })
}

// ContainsSpecial reports whether any position within [from, from+length)
// (direction only affects how the caller frames "span", not the
// result) overlaps a special range. Cost O(log r).
func (t *Table) ContainsSpecial(from, length int) bool {
	if length <= 0 {
		return false
	}
	to := from + length
	i := t.rangeIndexAtOrAfter(from)
	// The range just before i may still overlap [from, to).
	if i > 0 && t.ranges[i-1].End() > from {
		return true
	}
	return i < len(t.ranges) && t.ranges[i].Start < to
}

// IsSpecial reports whether pos falls within a maximal special range.
// Cost O(log r); sequential scanning should prefer ScanState instead.
func (t *Table) IsSpecial(pos int) bool {
	i := t.rangeIndexAtOrAfter(pos + 1)
	if i == 0 {
		return false
	}
	r := t.ranges[i-1]
	return pos >= r.Start && pos < r.End()
}

// ScanState is a cursor over the special-range table that gives
// amortized O(1) IsSpecialAt when pos advances monotonically in the
// direction the scan state was created for, per spec section 4.1's
// scan-state algorithm: binary search to initialize, linear advance
// thereafter, adjacent ranges merged across page boundaries
// implicitly (they are already one logical Range after Build, or two
// consecutive stored Ranges with touching End()/Start which IsSpecialAt
// treats identically via index advancing).
type ScanState struct {
	t         *Table
	forward   bool
	idx       int // index of the "current" range under consideration
	exhausted bool
}

// NewScanState creates a fresh cursor. Its lifetime must not exceed
// the owning Table (spec section 4.1).
func (t *Table) NewScanState(forward bool) *ScanState {
	return &ScanState{t: t, forward: forward}
}

// Seek initializes (or re-initializes) the cursor near pos via binary
// search, as the first call into a fresh ScanState must do.
func (ss *ScanState) Seek(pos int) {
	ss.idx = ss.t.rangeIndexAtOrAfter(pos)
	if ss.forward {
		// idx now points at the first range with Start >= pos; the
		// range that might already contain pos is idx-1.
		if ss.idx > 0 && ss.t.ranges[ss.idx-1].End() > pos {
			ss.idx--
		}
	} else {
		if ss.idx == len(ss.t.ranges) || ss.t.ranges[ss.idx].Start > pos {
			ss.idx--
		}
	}
	ss.exhausted = false
}

// IsSpecialAt reports whether pos is special. Calls must present pos
// values that are non-decreasing (forward scan) or non-increasing
// (reverse scan); presenting pos out of order is undefined behaviour
// per spec section 4.1.
func (ss *ScanState) IsSpecialAt(pos int) bool {
	if ss.forward {
		for ss.idx < len(ss.t.ranges) && ss.t.ranges[ss.idx].End() <= pos {
			ss.idx++
		}
		if ss.idx >= len(ss.t.ranges) {
			ss.exhausted = true
			return false
		}
		r := ss.t.ranges[ss.idx]
		return pos >= r.Start && pos < r.End()
	}
	for ss.idx >= 0 && ss.t.ranges[ss.idx].Start > pos {
		ss.idx--
	}
	if ss.idx < 0 {
		ss.exhausted = true
		return false
	}
	r := ss.t.ranges[ss.idx]
	return pos >= r.Start && pos < r.End()
}

// Exhausted reports whether the cursor has passed the last (forward)
// or first (reverse) range and will report false for all further
// positions.
func (ss *ScanState) Exhausted() bool { return ss.exhausted }

// RangeIterator produces maximal special ranges in order.
type RangeIterator struct {
	ranges  []Range
	i       int
	forward bool
}

// Iterator returns a RangeIterator walking the table's ranges in the
// requested direction.
func (t *Table) Iterator(forward bool) *RangeIterator {
	it := &RangeIterator{ranges: t.ranges, forward: forward}
	if !forward {
		it.i = len(t.ranges) - 1
	}
	return it
}

// Next returns the next range and true, or a zero Range and false
// once exhausted.
func (it *RangeIterator) Next() (Range, bool) {
	if it.forward {
		if it.i >= len(it.ranges) {
			return Range{}, false
		}
		r := it.ranges[it.i]
		it.i++
		return r, true
	}
	if it.i < 0 {
		return Range{}, false
	}
	r := it.ranges[it.i]
	it.i--
	return r, true
}

// Validate checks invariants (b), (c) and (d) from spec section 3 and
// returns a *gtsfx.Error of kind Programming on the first violation.
// It is O(r) and meant for tests / SelfCheck, not the hot path.
func (t *Table) Validate() error {
	var sum int
	prevEnd := -1
	for i, r := range t.ranges {
		if r.Length <= 0 {
			return gtsfx.Newf(gtsfx.Programming, "range %d has non-positive length %d", i, r.Length)
		}
		if int64(r.Length) >= t.pageSize {
			// Only a genuine violation if the run wasn't itself split
			// across a page by construction; a legitimate single
			// range must stay under one page.
			return gtsfx.Newf(gtsfx.Programming, "range %d length %d not < page size %d", i, r.Length, t.pageSize)
		}
		if r.Start < prevEnd {
			return gtsfx.Newf(gtsfx.Programming, "range %d starts at %d before previous range ended at %d", i, r.Start, prevEnd)
		}
		prevEnd = r.End()
		sum += r.Length
	}
	if sum != t.total {
		return gtsfx.Newf(gtsfx.Programming, "sum of range lengths %d != total specials %d", sum, t.total)
	}
	for p := range t.endspecial {
		want := 0
		for _, r := range t.ranges {
			if int64(r.End()-1)/t.pageSize <= int64(p) {
				want++
			}
		}
		if int64(want) != t.endspecial[p] {
			return gtsfx.Newf(gtsfx.Programming, "endspecial[%d] = %d, want %d", p, t.endspecial[p], want)
		}
	}
	return nil
}
