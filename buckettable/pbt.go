// Copyright 2026, the gtsfx contributors.

package buckettable

// PrecomputedBound is the ".pbt" table: for every prefix code of the
// depth it was built for (Depth; sufsort.PBTDepth when written by
// sufsort), the minimum and maximum LCP found among suffixes sharing
// that prefix, derived from a finalized Table plus the actual LCP
// array. cmd/gtmatch's match loop uses CannotReach to skip a seed
// whose prefix bucket cannot reach the -l minimum length, the same
// short-circuit src/match/pckbucket.c's depth-bounded lookup gives the
// teacher's original C matcher.
type PrecomputedBound struct {
	depth      int
	numofchars int
	min        []int32
	max        []int32
}

// BuildPrecomputedBound scans [lb, lb+width) ranges of a sorted suffix
// array's LCP values, one per bucket code at the given depth, and
// records the min/max LCP observed within each bucket.
func BuildPrecomputedBound(numofchars, depth int, bt *Table, lcpAt func(i int) int) *PrecomputedBound {
	n := numBuckets(numofchars, depth)
	pb := &PrecomputedBound{
		depth:      depth,
		numofchars: numofchars,
		min:        make([]int32, n),
		max:        make([]int32, n),
	}
	for code := int64(0); code < n && code < bt.NumBuckets(); code++ {
		lb := bt.LeftBorder(code)
		width := bt.BucketSize(code)
		if width == 0 {
			continue
		}
		minv, maxv := int32(1<<30), int32(-1)
		for i := lb; i < lb+width; i++ {
			if i == lb {
				continue // the bucket's first entry has no preceding-LCP value
			}
			l := int32(lcpAt(int(i)))
			if l < minv {
				minv = l
			}
			if l > maxv {
				maxv = l
			}
		}
		if maxv < 0 {
			minv, maxv = 0, 0
		}
		pb.min[code] = minv
		pb.max[code] = maxv
	}
	return pb
}

// NewPrecomputedBound reconstructs a PrecomputedBound from min/max
// slices already decoded from a ".pbt" file, for callers that persist
// the table rather than building it in-process.
func NewPrecomputedBound(numofchars, depth int, min, max []int32) *PrecomputedBound {
	return &PrecomputedBound{depth: depth, numofchars: numofchars, min: min, max: max}
}

// Depth reports how many leading symbols this table's codes cover.
func (pb *PrecomputedBound) Depth() int { return pb.depth }

// Bound returns the [min, max] LCP observed among suffixes sharing the
// given depth-symbol prefix code.
func (pb *PrecomputedBound) Bound(code int64) (min, max int) {
	return int(pb.min[code]), int(pb.max[code])
}

// CannotReach reports whether every suffix sharing this prefix code is
// guaranteed to fall short of minLength, letting a caller skip
// attempting an extension from any suffix in that bucket.
func (pb *PrecomputedBound) CannotReach(code int64, minLength int) bool {
	_, max := pb.Bound(code)
	return max < minLength
}
