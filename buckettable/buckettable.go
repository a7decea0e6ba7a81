// Copyright 2026, the gtsfx contributors.

// Package buckettable builds the bucket boundary table sufsort uses
// to distribute suffixes by their length-prefixlength prefix before
// sorting each bucket independently, and chooses that prefix length
// from a size budget (original_source/src/match/sfx-apfxlen.c).
package buckettable

import "github.com/kshedden/gtsfx"

// MaxMultiplierOfTotalLength bounds the bucket table's element count
// to at most this multiple of the sequence length, mirroring
// sfx-apfxlen.c's GT_MAXMULTIPLIEROFTOTALLENGTH.
const MaxMultiplierOfTotalLength = 4.0

// pow returns base^exp, saturating rather than overflowing once the
// result is already far past any usable bucket-table budget.
func pow(base, exp int) int64 {
	n := int64(1)
	for i := 0; i < exp; i++ {
		n *= int64(base)
		if n > 1<<40 {
			return n
		}
	}
	return n
}

// shortBase returns the first code reserved for prefixes that run
// into a special symbol after exactly depth valid leading characters
// (0 <= depth < prefixlength). Every full-length, alphabet-only code
// lies in [0, numofchars^prefixlength); shortBase places each
// truncation depth's short codes in their own disjoint range above
// that, so a prefix cut short at depth never numerically collides
// with an unrelated full-length prefix (count_special[c][i] in
// original_source/src/match/sfx-apfxlen.c's terms, tracked here as a
// code-space offset per truncation depth rather than a side table).
func shortBase(numofchars, prefixlength, depth int) int64 {
	base := pow(numofchars, prefixlength)
	for i := 0; i < depth; i++ {
		base += pow(numofchars, i)
	}
	return base
}

// numBuckets is the number of distinct bucket codes PrefixCode can
// produce: numofchars^prefixlength full-length codes, plus
// numofchars^i short codes for every truncation depth i in
// [0, prefixlength).
func numBuckets(numofchars, prefixlength int) int64 {
	n := pow(numofchars, prefixlength)
	for i := 0; i < prefixlength; i++ {
		n += pow(numofchars, i)
	}
	return n
}

// ChoosePrefixLength returns the largest prefixlength such that the
// resulting bucket table holds no more than
// MaxMultiplierOfTotalLength*totalLength entries, mirroring
// prefixlengthwithmaxspace's search loop. It returns 1 if even a
// single-character bucketing already exceeds the budget (the original
// falls back to 1 as well, see gt_recommendedprefixlength).
func ChoosePrefixLength(numofchars int, totalLength int64) int {
	if numofchars < 1 {
		return 1
	}
	budget := int64(MaxMultiplierOfTotalLength * float64(totalLength))
	prefixlength := 1
	for {
		if numBuckets(numofchars, prefixlength+1) > budget {
			break
		}
		prefixlength++
		if prefixlength > 32 {
			break // a cover for absurdly small alphabets / totalLength
		}
	}
	if prefixlength < 1 {
		prefixlength = 1
	}
	return prefixlength
}

// NumBuckets reports how many distinct bucket codes PrefixCode can
// produce for the given alphabet size and prefix length, without
// needing a constructed Table — used by callers (e.g. ReadPBT) that
// only need to size a codes-indexed array.
func NumBuckets(numofchars, prefixlength int) int64 {
	return numBuckets(numofchars, prefixlength)
}

// Table is the bucket distribution: for every code in
// [0, NumBuckets(numofchars, prefixlength)), full-length and
// special-truncated codes alike, leftBorder[code] is the first
// position in the to-be-sorted suffix array belonging to that
// bucket's suffixes, and leftBorder[code+1] (or count) is one past
// the last. This is the "left border" prefix-sum table of
// sfx-bentsedg.h's initial distribution pass.
type Table struct {
	numofchars   int
	prefixlength int
	counts       []int64 // per-bucket counts, len == numBuckets
	leftBorder   []int64 // prefix sums, len == numBuckets+1
}

// NewTable allocates an empty bucket count table for the given
// alphabet size and prefix length.
func NewTable(numofchars, prefixlength int) *Table {
	n := numBuckets(numofchars, prefixlength)
	return &Table{
		numofchars:   numofchars,
		prefixlength: prefixlength,
		counts:       make([]int64, n),
	}
}

// NumBuckets reports how many bucket codes this table has.
func (t *Table) NumBuckets() int64 { return int64(len(t.counts)) }

// Add increments the count for bucket code.
func (t *Table) Add(code int64) { t.counts[code]++ }

// Finalize computes the left-border prefix sums from the accumulated
// counts. Must be called exactly once, after all Add calls and before
// any LeftBorder/BucketSize call.
func (t *Table) Finalize() {
	t.leftBorder = make([]int64, len(t.counts)+1)
	var cum int64
	for i, c := range t.counts {
		t.leftBorder[i] = cum
		cum += c
	}
	t.leftBorder[len(t.counts)] = cum
}

// LeftBorder returns the first suffix-array slot for bucket code.
func (t *Table) LeftBorder(code int64) int64 {
	if t.leftBorder == nil {
		panic("buckettable: LeftBorder called before Finalize")
	}
	return t.leftBorder[code]
}

// BucketSize returns the number of suffixes in bucket code.
func (t *Table) BucketSize(code int64) int64 { return t.counts[code] }

// CharSource is the minimal view of an encoded sequence PrefixCode
// needs; encseq.EncodedSequence satisfies it.
type CharSource interface {
	SequentialCharAt(pos int) byte
	ContainsSpecial(from, length int) bool
}

// PrefixCode computes the bucket code of the prefixlength symbols
// starting at pos. If a special (wildcard or separator) occurs within
// that window, special is true and the returned code is a "short"
// code: shortBase(numofchars, prefixlength, i) plus the base-numofchars
// value of the i valid symbols seen before the special at truncation
// depth i. Short codes at a given depth occupy their own range,
// disjoint from every other depth's short codes and from the
// numofchars^prefixlength full-length codes, so two prefixes that
// differ only in where (or whether) they hit a special never collide
// on the same bucket.
func PrefixCode(src CharSource, pos, prefixlength, numofchars int) (code int64, special bool) {
	if !src.ContainsSpecial(pos, prefixlength) {
		for i := 0; i < prefixlength; i++ {
			code = code*int64(numofchars) + int64(src.SequentialCharAt(pos+i))
		}
		return code, false
	}
	for i := 0; i < prefixlength; i++ {
		c := src.SequentialCharAt(pos + i)
		if int(c) >= numofchars {
			return shortBase(numofchars, prefixlength, i) + code, true
		}
		code = code*int64(numofchars) + int64(c)
	}
	return code, false
}

// Validate confirms the left-border table is a true prefix sum of
// counts (invariant check used by tests and SelfCheck-style callers).
func (t *Table) Validate() error {
	if t.leftBorder == nil {
		return gtsfx.Newf(gtsfx.Programming, "buckettable: not finalized")
	}
	var cum int64
	for i, c := range t.counts {
		if t.leftBorder[i] != cum {
			return gtsfx.Newf(gtsfx.Programming, "bucket %d: leftBorder=%d want %d", i, t.leftBorder[i], cum)
		}
		cum += c
	}
	if t.leftBorder[len(t.counts)] != cum {
		return gtsfx.Newf(gtsfx.Programming, "final leftBorder=%d want %d", t.leftBorder[len(t.counts)], cum)
	}
	return nil
}
