// Copyright 2026, the gtsfx contributors.

// Package maxpairs enumerates maximal pairs (non-extendable exact
// repeats) from a sorted suffix array and its companion LCP array, by
// sweeping LCP-intervals with a stack and bucketing each interval's
// members by left context, discarding pairs that share a left
// character (and so are not left-maximal at that length).
// Grounded on original_source/src/match/esa-maxpairs.c's interval
// sweep and test-maxpairs.c's suffix-prefix-match mode.
package maxpairs

import "github.com/kshedden/gtsfx/encseq"

// Pair is one maximal repeat: two starting positions and its shared
// length. Pos1 < Pos2 always.
type Pair struct {
	Pos1, Pos2 int
	Length     int
}

const boundaryBucket = -1

type lcpInterval struct {
	lcp    int
	lb, rb int
}

// Find enumerates all maximal pairs of length >= minLength from a
// sorted suftab/lcp pair (as produced by sufsort.Sort with WithLCP).
func Find(enc *encseq.EncodedSequence, suftab []int32, lcpAt func(i int) int, minLength int) []Pair {
	n := len(suftab)
	if n < 2 {
		return nil
	}

	var pairs []Pair
	stack := []lcpInterval{{lcp: 0, lb: 0}}

	process := func(iv lcpInterval) {
		if iv.lcp < minLength || iv.rb <= iv.lb {
			return
		}
		pairs = append(pairs, bucketAndPair(enc, suftab[iv.lb:iv.rb+1], iv.lcp)...)
	}

	for i := 1; i < n; i++ {
		cur := lcpAt(i)
		lb := i - 1
		for len(stack) > 0 && stack[len(stack)-1].lcp > cur {
			top := stack[len(stack)-1]
			top.rb = i - 1
			stack = stack[:len(stack)-1]
			process(top)
			lb = top.lb
		}
		if len(stack) == 0 || stack[len(stack)-1].lcp < cur {
			stack = append(stack, lcpInterval{lcp: cur, lb: lb})
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		top.rb = n - 1
		stack = stack[:len(stack)-1]
		process(top)
	}
	return pairs
}

// leftContext returns a bucket key: boundaryBucket if pos is the
// first symbol of its member sequence (nothing to its left to
// compare), or the resolved symbol one position to the left.
func leftContext(enc *encseq.EncodedSequence, pos int) int {
	if pos == 0 {
		return boundaryBucket
	}
	_, seqStart := enc.SeqnumOfPosition(pos)
	if pos == seqStart {
		return boundaryBucket
	}
	return int(enc.SequentialCharAt(pos - 1))
}

// bucketAndPair groups positions by left context and emits one Pair
// per cross-bucket combination, plus every combination within the
// boundary bucket (two left-absent suffixes are always left-maximal
// against each other).
func bucketAndPair(enc *encseq.EncodedSequence, positions []int32, length int) []Pair {
	buckets := make(map[int][]int32)
	for _, p := range positions {
		k := leftContext(enc, int(p))
		buckets[k] = append(buckets[k], p)
	}

	var pairs []Pair
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	for bi := 0; bi < len(keys); bi++ {
		for bj := bi; bj < len(keys); bj++ {
			ki, kj := keys[bi], keys[bj]
			if bi == bj && ki != boundaryBucket {
				continue // same non-boundary left context: not left-maximal here
			}
			for _, pi := range buckets[ki] {
				for _, pj := range buckets[kj] {
					if bi == bj && pi >= pj {
						continue
					}
					a, b := int(pi), int(pj)
					if a == b {
						continue
					}
					if a > b {
						a, b = b, a
					}
					pairs = append(pairs, Pair{Pos1: a, Pos2: b, Length: length})
				}
			}
		}
	}
	return pairs
}

// SuffixPrefixMatch implements -spm mode: it reports every pair
// (seqA, seqB, length) such that a suffix of member sequence seqA of
// length >= minLength equals a prefix of member sequence seqB
// (seqA != seqB), derived from the same LCP-interval sweep by
// checking, for each interval, whether any member position is exactly
// at the tail of its sequence (length used == its remaining length)
// and any other member position starts its sequence.
type SPMatch struct {
	SeqA, SeqB int
	Length     int
}

func SuffixPrefixMatch(enc *encseq.EncodedSequence, suftab []int32, lcpAt func(i int) int, minLength int) []SPMatch {
	n := len(suftab)
	if n < 2 {
		return nil
	}
	var out []SPMatch
	stack := []lcpInterval{{lcp: 0, lb: 0}}

	process := func(iv lcpInterval) {
		if iv.lcp < minLength || iv.rb <= iv.lb {
			return
		}
		members := suftab[iv.lb : iv.rb+1]
		var suffixEnds []int32
		var prefixStarts []int32
		for _, p := range members {
			pos := int(p)
			seqnum, seqStart := enc.SeqnumOfPosition(pos)
			remaining := sequenceEnd(enc, seqnum, seqStart) - pos
			if remaining == iv.lcp {
				suffixEnds = append(suffixEnds, p)
			}
			if pos == seqStart {
				prefixStarts = append(prefixStarts, p)
			}
		}
		for _, se := range suffixEnds {
			seqA, _ := enc.SeqnumOfPosition(int(se))
			for _, ps := range prefixStarts {
				seqB, _ := enc.SeqnumOfPosition(int(ps))
				if seqA != seqB {
					out = append(out, SPMatch{SeqA: seqA, SeqB: seqB, Length: iv.lcp})
				}
			}
		}
	}

	for i := 1; i < n; i++ {
		cur := lcpAt(i)
		lb := i - 1
		for len(stack) > 0 && stack[len(stack)-1].lcp > cur {
			top := stack[len(stack)-1]
			top.rb = i - 1
			stack = stack[:len(stack)-1]
			process(top)
			lb = top.lb
		}
		if len(stack) == 0 || stack[len(stack)-1].lcp < cur {
			stack = append(stack, lcpInterval{lcp: cur, lb: lb})
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		top.rb = n - 1
		stack = stack[:len(stack)-1]
		process(top)
	}
	return out
}

// sequenceEnd returns the absolute position one past the last symbol
// of the member sequence starting at seqStart (i.e. the separator
// position, or the encoded sequence's total length for the last
// member sequence).
func sequenceEnd(enc *encseq.EncodedSequence, seqnum, seqStart int) int {
	for p := seqStart; p < enc.TotalLength(); p++ {
		if enc.IsSeparator(p) {
			return p
		}
	}
	return enc.TotalLength()
}
