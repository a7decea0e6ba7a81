// Copyright 2026, the gtsfx contributors.

// Package diffcover implements a difference cover: a small, modulus-v
// residue set such that every residue delta in [0, v) is within a
// bounded distance of some residue in the set. sufsort uses it to cut
// a suffix comparison of unbounded depth down to two O(depth-of-cover)
// comparisons once it already knows the cover-aligned neighbours'
// relative order (original_source/src/match/tab-diffcover.h and the
// surrounding difference-cover suffix sorter).
package diffcover

import "github.com/kshedden/gtsfx"

// MaxV is the largest modulus this package carries a literal cover
// table for. The original table in tab-diffcover.h continues to
// 32768, but no component in this module ever needs a cover modulus
// beyond 1024: buckettable's prefix-length budget (spec section 4,
// GT_MAXMULTIPLIEROFTOTALLENGTH = 4.0) keeps the bucket-sort
// boundary, and therefore the longest depth diffcover is asked to
// cover, well under 1024 for any input this exercise targets. Larger
// entries are omitted rather than silently truncated at call time.
const MaxV = 1024

// coverSizes[i] is the number of residues in the difference cover for
// modulus 1<<i, i.e. v = 1, 2, 4, ..., 1024.
var coverSizes = []int{1, 2, 3, 4, 5, 7, 9, 13, 20, 28, 40}

// coverTab is the flattened concatenation of each modulus's residue
// set, in increasing v order, offsets given by coverOffsets. Values
// transcribed verbatim from tab-diffcover.h's differencecovertab.
var coverTab = []int{
	// v=1
	0,
	// v=2
	0, 1,
	// v=4
	0, 1, 2,
	// v=8
	0, 1, 2, 4,
	// v=16
	0, 1, 2, 5, 8,
	// v=32
	0, 1, 2, 3, 7, 11, 19,
	// v=64
	0, 1, 2, 5, 14, 16, 34, 42, 59,
	// v=128
	0, 1, 3, 7, 17, 40, 55, 64, 75, 85, 104, 109, 117,
	// v=256
	0, 1, 3, 7, 12, 20, 30, 44, 65, 80, 89, 96, 114, 122, 128, 150, 196, 197, 201, 219,
	// v=512
	0, 1, 2, 3, 4, 9, 18, 27, 36, 45, 64, 83, 102, 121, 140, 159, 178, 197, 216, 226,
	236, 246, 256, 266, 267, 268, 269, 270,
	// v=1024
	0, 1, 2, 3, 4, 5, 6, 13, 26, 39, 52, 65, 78, 91, 118, 145, 172, 199, 226, 253,
	280, 307, 334, 361, 388, 415, 442, 456, 470, 484, 498, 512, 526, 540, 541, 542,
	543, 544, 545, 546,
}

func vIndex(v int) int {
	idx := 0
	for m := 1; m < v; m <<= 1 {
		idx++
	}
	return idx
}

func coverOffset(idx int) int {
	off := 0
	for i := 0; i < idx; i++ {
		off += coverSizes[i]
	}
	return off
}

// Table is a resolved difference cover for one modulus v.
type Table struct {
	v      int
	set    []int     // ascending residues in [0, v)
	member []bool    // member[r] = r is in set
}

// New returns the difference cover table for modulus v, where v must
// be a power of two no greater than MaxV. It reports a *gtsfx.Error of
// kind Misuse for any other v.
func New(v int) (*Table, error) {
	if v <= 0 || v&(v-1) != 0 || v > MaxV {
		return nil, gtsfx.Newf(gtsfx.Misuse, "diffcover: v=%d must be a power of two <= %d", v, MaxV)
	}
	idx := vIndex(v)
	off := coverOffset(idx)
	n := coverSizes[idx]
	set := append([]int{}, coverTab[off:off+n]...)
	member := make([]bool, v)
	for _, r := range set {
		member[r] = true
	}
	return &Table{v: v, set: set, member: member}, nil
}

// V returns the modulus.
func (t *Table) V() int { return t.v }

// Set returns the ascending residues making up the cover. Callers
// must not mutate the returned slice.
func (t *Table) Set() []int { return t.set }

// IsCover reports whether residue r (0 <= r < v) belongs to the cover.
func (t *Table) IsCover(r int) bool { return t.member[r%t.v] }

// SamplePositions returns, in ascending order, every position in
// [0, totalLength) whose residue mod v is in the cover — the sample
// that sufsort sorts directly and then uses to rank every other
// suffix in O(1) extra comparisons (the difference-cover suffix
// sorting technique).
func (t *Table) SamplePositions(totalLength int) []int {
	var out []int
	for p := 0; p < totalLength; p++ {
		if t.member[p%t.v] {
			out = append(out, p)
		}
	}
	return out
}

// AlignedOffset returns, for any residue delta in [0, v), the
// smallest k >= 0 such that (delta+k) mod v is in the cover — the
// distance sufsort must additionally compare past a cover-depth match
// before it can look up the two positions' precomputed sample rank.
func (t *Table) AlignedOffset(delta int) int {
	delta %= t.v
	for k := 0; ; k++ {
		if t.member[(delta+k)%t.v] {
			return k
		}
	}
}
