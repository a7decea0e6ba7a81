// Copyright 2026, the gtsfx contributors.

package diffcover

import (
	"sort"

	"github.com/kshedden/gtsfx/buckettable"
)

// Sampler holds a Table's sample positions together with their fully
// resolved relative suffix order (built by SortSample) and the
// inverse_sample rank lookup the outer sorter consults once a
// comparison has matched through a whole cover cycle. Grounded on the
// difference-cover suffix sorting technique the surrounding C sources
// implement around tab-diffcover.h's literal residue tables.
type Sampler struct {
	table    *Table
	n        int
	order    []int32 // sample positions, ascending by resolved suffix order
	rank     []int32 // size n; rank[p] = index into order, -1 if p is not a sample position
	deltaToD []int   // deltaToD[delta] = a cover residue d with (d+delta) mod v also in the cover

	src buckettable.CharSource // valid only during a SortSample call
}

// NewSampler returns a Sampler over every position in [0, totalLength)
// whose residue mod table.V() belongs to the cover, unsorted until
// SortSample is called.
func NewSampler(table *Table, totalLength int) *Sampler {
	pos := table.SamplePositions(totalLength)
	order := make([]int32, len(pos))
	for i, p := range pos {
		order[i] = int32(p)
	}
	return &Sampler{
		table:    table,
		n:        totalLength,
		order:    order,
		deltaToD: buildDeltaToD(table),
	}
}

// buildDeltaToD precomputes, for every residue difference delta in
// [0, v), a cover member d such that d+delta (mod v) is also a cover
// member. Such a d exists for every delta because a difference cover
// is, by definition, a set whose pairwise differences span every
// residue mod v; this table turns that existence proof into an O(1)
// lookup at Compare time instead of a per-call search.
func buildDeltaToD(t *Table) []int {
	v := t.V()
	set := t.Set()
	deltaToD := make([]int, v)
	found := make([]bool, v)
	for _, d1 := range set {
		for _, d2 := range set {
			delta := ((d2-d1)%v + v) % v
			if !found[delta] {
				deltaToD[delta] = d1
				found[delta] = true
			}
		}
	}
	return deltaToD
}

// V returns the cover modulus.
func (s *Sampler) V() int { return s.table.V() }

// Order returns the sample positions in resolved ascending suffix
// order. Callers must not mutate the returned slice.
func (s *Sampler) Order() []int32 { return s.order }

// interval is a still-ambiguous sub-range of s.order queued for
// refinement: every position in [lo, hi) is known to agree on every
// character up through depth, a multiple of V().
type interval struct {
	lo, hi, depth int
}

// SortSample resolves the sample's full relative suffix order in
// three stages: (1) bucket the sample by the outer sorter's
// prefixlength code (or treat the whole sample as one bucket when
// prefixlength is 0, per the resolved prefixlength==0 Open Question),
// (2) within each bucket, compare the remaining characters out to
// depth V() directly, queueing any sub-range still tied at that depth,
// (3) repeatedly drain the queue: each queued interval is re-ordered
// by the O(1) key inverse_sample[pos+depth] — valid because depth is
// always a multiple of V(), so pos+depth shares pos's residue and is
// therefore itself a sample position — re-queueing any remaining ties
// at double the depth and refreshing inverse_sample once per round,
// until no interval remains. A tie that survives past depth >
// totalLength (which would mean two distinct suffixes agree all the
// way to the end of the sequence, impossible once a unique trailing
// separator is in play) is resolved with one direct comparison as a
// backstop rather than looping forever.
func (s *Sampler) SortSample(src buckettable.CharSource, prefixlength, numofchars int) {
	s.src = src
	defer func() { s.src = nil }()
	v := s.V()
	var queue []interval
	switch {
	case len(s.order) < 2:
		// nothing to sort
	case prefixlength <= 0:
		s.sortWindow(s.order, 0, v)
		queue = s.splitTies(0, s.order, 0, v)
	default:
		queue = s.bucketAndSortToV(src, prefixlength, numofchars, v)
	}

	for len(queue) > 0 {
		s.buildRank()
		// Positions still tied share one rank, so equal keys below mean
		// equal prefixes of length 2*depth.
		for _, iv := range queue {
			for _, p := range s.order[iv.lo:iv.hi] {
				s.rank[p] = int32(iv.lo)
			}
		}
		var next []interval
		for _, iv := range queue {
			sub := s.order[iv.lo:iv.hi]
			depth := iv.depth
			sort.SliceStable(sub, func(i, j int) bool {
				return s.sampleKey(int(sub[i]), depth) < s.sampleKey(int(sub[j]), depth)
			})
			start := 0
			for i := 1; i <= len(sub); i++ {
				if i < len(sub) && s.sampleKey(int(sub[i-1]), depth) == s.sampleKey(int(sub[i]), depth) {
					continue
				}
				if i-start > 1 {
					nd := depth * 2
					lo, hi := iv.lo+start, iv.lo+i
					if nd > s.n {
						tied := s.order[lo:hi]
						sort.SliceStable(tied, func(a, b int) bool {
							return compareFull(src, int(tied[a]), int(tied[b]), s.n) < 0
						})
					} else {
						next = append(next, interval{lo, hi, nd})
					}
				}
				start = i
			}
		}
		queue = next
	}
	s.buildRank()
}

// bucketAndSortToV sorts the sample by its prefixlength bucket code,
// then within each resulting run of equal codes, directly compares
// the characters from prefixlength up to V() and queues any sub-run
// still tied at that depth.
func (s *Sampler) bucketAndSortToV(src buckettable.CharSource, prefixlength, numofchars, v int) []interval {
	n := len(s.order)
	codes := make([]int64, n)
	for i, p := range s.order {
		c, _ := buckettable.PrefixCode(src, int(p), prefixlength, numofchars)
		codes[i] = c
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return codes[idx[i]] < codes[idx[j]] })
	newOrder := make([]int32, n)
	newCodes := make([]int64, n)
	for i, ix := range idx {
		newOrder[i] = s.order[ix]
		newCodes[i] = codes[ix]
	}
	s.order = newOrder

	var queue []interval
	start := 0
	for i := 1; i <= n; i++ {
		if i < n && newCodes[i] == newCodes[i-1] {
			continue
		}
		if i-start > 1 {
			bucket := s.order[start:i]
			s.sortWindow(bucket, prefixlength, v)
			queue = append(queue, s.splitTies(start, bucket, prefixlength, v)...)
		}
		start = i
	}
	return queue
}

// sortWindow sorts a contiguous slice of s.order by the characters in
// [from, to) directly.
func (s *Sampler) sortWindow(bucket []int32, from, to int) {
	sort.SliceStable(bucket, func(i, j int) bool {
		return s.windowCompareCodes(bucket[i], bucket[j], from, to) < 0
	})
}

// splitTies scans an already-window-sorted slice (lo is its offset
// into s.order) and returns one interval per maximal run that is
// still tied across the whole [from, to) window, with depth set to to
// (the point the next refinement round must key off of).
func (s *Sampler) splitTies(lo int, sorted []int32, from, to int) []interval {
	var out []interval
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && s.windowCompareCodes(sorted[i-1], sorted[i], from, to) == 0 {
			continue
		}
		if i-start > 1 {
			out = append(out, interval{lo + start, lo + i, to})
		}
		start = i
	}
	return out
}

// windowCompareCodes compares sample positions a and b over the
// character window [from, to), treating a position that runs off the
// end of the sequence as smaller than one that still has characters
// left — the same convention sufsort's own comparePos uses for
// exhausted suffixes. Valid only while s.src is set (during
// SortSample).
func (s *Sampler) windowCompareCodes(a, b int32, from, to int) int {
	for i := from; i < to; i++ {
		pa, pb := int(a)+i, int(b)+i
		inA, inB := pa < s.n, pb < s.n
		if !inA && !inB {
			return 0
		}
		if !inA {
			return -1
		}
		if !inB {
			return 1
		}
		ca, cb := s.src.SequentialCharAt(pa), s.src.SequentialCharAt(pb)
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func compareFull(src buckettable.CharSource, a, b, n int) int {
	for {
		inA, inB := a < n, b < n
		if !inA && !inB {
			return 0
		}
		if !inA {
			return -1
		}
		if !inB {
			return 1
		}
		ca, cb := src.SequentialCharAt(a), src.SequentialCharAt(b)
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		a++
		b++
	}
}

// buildRank refreshes rank[p] = index of p in s.order for every
// sample position p, -1 for every non-sample position.
func (s *Sampler) buildRank() {
	if s.rank == nil {
		s.rank = make([]int32, s.n)
	}
	for i := range s.rank {
		s.rank[i] = -1
	}
	for i, p := range s.order {
		s.rank[p] = int32(i)
	}
}

// sampleKey returns the O(1) ordering key for position pos at the
// given cover-aligned depth: the rank of pos+depth in the sample's
// resolved order, or a sentinel smaller than any valid rank if
// pos+depth runs past the end of the sequence.
func (s *Sampler) sampleKey(pos, depth int) int32 {
	q := pos + depth
	if q >= s.n {
		return -1
	}
	if s.rank == nil {
		return -1
	}
	return s.rank[q]
}

// Compare reports the lexicographic ordering of the suffixes starting
// at arbitrary positions a and b (not necessarily sample positions),
// in at most V() direct character comparisons plus one O(1) rank
// lookup: the difference cover guarantees some offset k < V() aligns
// both a+k and b+k onto sample positions, at which point their
// relative order is exactly the relative order of those two sample
// ranks (SortSample must have been called first).
func (s *Sampler) Compare(src buckettable.CharSource, a, b int) int {
	if a == b {
		return 0
	}
	v := s.V()
	ra, rb := ((a%v)+v)%v, ((b%v)+v)%v
	delta := ((rb-ra)%v + v) % v
	d := s.deltaToD[delta]
	k := ((d-ra)%v + v) % v
	if c := s.directCompareWindow(src, a, b, k); c != 0 {
		return c
	}
	return cmpInt32(s.sampleKey0(a+k), s.sampleKey0(b+k))
}

// directCompareWindow compares the k leading characters of the
// suffixes at a and b, the portion Compare cannot skip because it
// precedes the cover-aligned offset.
func (s *Sampler) directCompareWindow(src buckettable.CharSource, a, b, k int) int {
	for i := 0; i < k; i++ {
		pa, pb := a+i, b+i
		inA, inB := pa < s.n, pb < s.n
		if !inA && !inB {
			return 0
		}
		if !inA {
			return -1
		}
		if !inB {
			return 1
		}
		ca, cb := src.SequentialCharAt(pa), src.SequentialCharAt(pb)
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (s *Sampler) sampleKey0(p int) int32 {
	if p >= s.n || s.rank == nil {
		return -1
	}
	return s.rank[p]
}

func cmpInt32(a, b int32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
