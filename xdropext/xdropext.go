// Copyright 2026, the gtsfx contributors.

// Package xdropext extends a seed match in one direction using the
// X-drop heuristic: fill the dynamic-programming table one row at a
// time, prune any cell whose score has fallen more than a fixed
// threshold below the best score seen so far, and stop once a whole
// row has fallen that far. Grounded on
// spec.md's xdropext module description; original_source does not
// carry a standalone xdrop.c in this retrieval pack, so the scoring
// recurrence follows the textbook X-drop formulation (Zhang et al.)
// that spec.md itself describes, rather than a ported C file.
package xdropext

import "github.com/kshedden/gtsfx/alphabet"

// Scores holds the linear-gap scoring scheme.
type Scores struct {
	Match    int
	Mismatch int
	GapCost  int // subtracted per inserted/deleted symbol
}

// DefaultScores mirrors a typical DNA extension scheme.
var DefaultScores = Scores{Match: 2, Mismatch: -3, GapCost: 2}

// Result is one direction's extension outcome.
type Result struct {
	Extent int // symbols consumed at the best-scoring cell: the larger of u's and v's count
	Score  int
}

// Extend grows a seed match forward from u[0:], v[0:] using the
// X-drop heuristic with drop threshold xdrop (score units the best
// path is allowed to fall below the running maximum before a cell is
// pruned). u and v are read in the extension
// direction already (callers pass a reversed slice to extend
// leftward).
func Extend(u, v []alphabet.Symbol, a *alphabet.Alphabet, scores Scores, xdrop int) Result {
	maxLen := len(u)
	if len(v) < maxLen {
		maxLen = len(v)
	}
	// A dense DP over (i,j), one row of u at a time with two rolling
	// rows, which is simple and correct for the bounded
	// seed-extension lengths this module is used for (a few hundred
	// symbols), at the cost of the banded/antidiagonal-only speed the
	// original C algorithm achieves for longer extensions.
	n, m := len(u), len(v)
	const negInf = -1 << 30
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	prev[0] = 0
	for j := 1; j <= m; j++ {
		prev[j] = prev[j-1] - scores.GapCost
	}
	bestI, bestJ := 0, 0
	globalBest := 0

	for i := 1; i <= n; i++ {
		cur[0] = prev[0] - scores.GapCost
		rowBest := cur[0]
		for j := 1; j <= m; j++ {
			sub := prev[j-1]
			if u[i-1] == v[j-1] && !a.IsSpecial(u[i-1]) {
				sub += scores.Match
			} else {
				sub += scores.Mismatch
			}
			del := prev[j] - scores.GapCost
			ins := cur[j-1] - scores.GapCost
			best := sub
			if del > best {
				best = del
			}
			if ins > best {
				best = ins
			}
			if globalBest-best > xdrop {
				best = negInf
			}
			cur[j] = best
			if best > rowBest {
				rowBest = best
			}
			if best > globalBest {
				globalBest = best
				bestI, bestJ = i, j
			}
		}
		if rowBest < globalBest-xdrop {
			// The entire row has fallen past the drop threshold;
			// further rows can only do the same since scores are
			// bounded by Match per step.
			break
		}
		prev, cur = cur, prev
	}
	extent := bestI
	if bestJ > extent {
		extent = bestJ
	}
	return Result{Extent: extent, Score: globalBest}
}
