// Copyright 2026, the gtsfx contributors.

// Package partsplit divides the buckets of a buckettable.Table into a
// small number of contiguous, roughly equal-weight parts so sufsort's
// worker pool can sort each part concurrently without any bucket
// being split across two workers (original_source/src/match/
// sfx-partssuf.c's Suftabparts).
package partsplit

// Part is one contiguous run of bucket codes assigned to a single
// worker, plus the suffix-array offset range it owns.
type Part struct {
	FirstCode, LastCode int64 // inclusive bucket code range
	Offset, Width       int64 // suffix-array slice this part owns
}

// Split partitions numParts ways over the buckets described by counts
// (counts[code] = number of suffixes in that bucket), assigning
// contiguous code ranges so each part's total width is as close to
// totalWidth/numParts as a greedy single pass can make it, mirroring
// sfx-partssuf.c's removeemptyparts: parts with zero suffixes are
// dropped rather than returned empty.
func Split(counts []int64, numParts int) []Part {
	var total int64
	for _, c := range counts {
		total += c
	}
	if numParts < 1 {
		numParts = 1
	}
	target := total / int64(numParts)
	if target == 0 {
		target = 1
	}

	var parts []Part
	var curStart int64 = -1
	var curWidth int64
	var offset int64
	flush := func(lastCode int64) {
		if curStart < 0 || curWidth == 0 {
			return
		}
		parts = append(parts, Part{
			FirstCode: curStart,
			LastCode:  lastCode,
			Offset:    offset,
			Width:     curWidth,
		})
		offset += curWidth
		curWidth = 0
		curStart = -1
	}

	for code, c := range counts {
		if c == 0 {
			continue
		}
		if curStart < 0 {
			curStart = int64(code)
		}
		curWidth += c
		remainingParts := numParts - len(parts)
		if remainingParts > 1 && curWidth >= target {
			flush(int64(code))
		}
	}
	flush(int64(len(counts) - 1))
	return parts
}
