// Copyright 2026, the gtsfx contributors.

// Package greedyext extends a seed match using a banded greedy
// edit-distance alignment (band width bounded by maxDistance, as in
// the classic O(ND) greedy algorithms), then trims the extension back
// to the last point where recent alignment history was mostly
// matches — a uint64 bitmask of the last 64 columns' match/mismatch
// outcome drives that decision, avoiding an extension that wandered
// into noise just because the edit budget allowed one more
// substitution. Grounded on original_source/src/match/greedyedist.c's
// unit-cost greedy extender and its alignment-end "polishing" pass.
package greedyext

import "github.com/kshedden/gtsfx/alphabet"

// Result is one direction's extension outcome after trimming.
type Result struct {
	ExtentU, ExtentV int // symbols consumed from u and v respectively
	Distance         int // edit operations used to reach that point, pre-trim
}

const (
	historyWindow = 64
	trimThreshold = historyWindow * 3 / 4 // need >= 48 matches in the last 64 columns
)

type op int8

const (
	opMatch op = iota
	opMismatch
	opDel // consumes u only
	opIns // consumes v only
)

// Extend grows a seed match from u[0:], v[0:] using banded edit-
// distance alignment with unit costs and band half-width maxDistance,
// then trims the trailing run back to the last column whose 64-entry
// trailing history has at least trimThreshold matches.
func Extend(u, v []alphabet.Symbol, a *alphabet.Alphabet, maxDistance int) Result {
	n, m := len(u), len(v)
	if maxDistance < 1 {
		maxDistance = 1
	}

	// dist[i][j] for |i-j| <= maxDistance; use a map-free banded array
	// indexed by i and offset j-i+maxDistance.
	width := 2*maxDistance + 1
	const inf = 1 << 30
	dist := make([][]int, n+1)
	choice := make([][]op, n+1)
	for i := range dist {
		dist[i] = make([]int, width)
		choice[i] = make([]op, width)
		for k := range dist[i] {
			dist[i][k] = inf
		}
	}
	bandIdx := func(i, j int) int { return j - i + maxDistance }

	dist[0][bandIdx(0, 0)] = 0
	for i := 0; i <= n; i++ {
		loJ := i - maxDistance
		if loJ < 0 {
			loJ = 0
		}
		hiJ := i + maxDistance
		if hiJ > m {
			hiJ = m
		}
		for j := loJ; j <= hiJ; j++ {
			if i == 0 && j == 0 {
				continue
			}
			bi := bandIdx(i, j)
			best := inf
			var bestOp op
			if i > 0 && j > 0 {
				pbi := bandIdx(i-1, j-1)
				if pbi >= 0 && pbi < width && dist[i-1][pbi] < inf {
					cost := 1
					o := opMismatch
					if !a.IsSpecial(u[i-1]) && u[i-1] == v[j-1] {
						cost = 0
						o = opMatch
					}
					if dist[i-1][pbi]+cost < best {
						best = dist[i-1][pbi] + cost
						bestOp = o
					}
				}
			}
			if i > 0 {
				pbi := bandIdx(i-1, j)
				if pbi >= 0 && pbi < width && dist[i-1][pbi]+1 < best {
					best = dist[i-1][pbi] + 1
					bestOp = opDel
				}
			}
			if j > 0 {
				pbi := bandIdx(i, j-1)
				if pbi >= 0 && pbi < width && dist[i][pbi]+1 < best {
					best = dist[i][pbi] + 1
					bestOp = opIns
				}
			}
			dist[i][bi] = best
			choice[i][bi] = bestOp
		}
	}

	// Pick the (i,j) within the band whose distance stays within
	// maxDistance and that consumes the most symbols (largest i+j);
	// among equal i+j the first cell in row order wins.
	bestI, bestJ, bestD := 0, 0, 0
	for i := 0; i <= n; i++ {
		loJ := i - maxDistance
		if loJ < 0 {
			loJ = 0
		}
		hiJ := i + maxDistance
		if hiJ > m {
			hiJ = m
		}
		for j := loJ; j <= hiJ; j++ {
			bi := bandIdx(i, j)
			d := dist[i][bi]
			if d > maxDistance || d >= inf {
				continue
			}
			if i+j > bestI+bestJ {
				bestI, bestJ, bestD = i, j, d
			}
		}
	}

	ops := backtrace(choice, bandIdx, maxDistance, bestI, bestJ)
	return trim(ops, bestI, bestJ, bestD)
}

func backtrace(choice [][]op, bandIdx func(i, j int) int, maxDistance, i, j int) []op {
	var ops []op
	for i > 0 || j > 0 {
		bi := bandIdx(i, j)
		if bi < 0 || bi >= len(choice[i]) {
			break
		}
		o := choice[i][bi]
		ops = append(ops, o)
		switch o {
		case opMatch, opMismatch:
			i--
			j--
		case opDel:
			i--
		case opIns:
			j--
		}
	}
	for a, b := 0, len(ops)-1; a < b; a, b = a+1, b-1 {
		ops[a], ops[b] = ops[b], ops[a]
	}
	return ops
}

// trim walks the op list forward, maintaining a uint64 bitmask of the
// last up-to-64 columns (1 = match), and remembers the furthest
// (u,v)-consumption point at which the trailing window still met
// trimThreshold matches.
func trim(ops []op, fullI, fullJ, fullD int) Result {
	if len(ops) == 0 {
		return Result{Distance: fullD}
	}
	var history uint64
	count := 0
	i, j := 0, 0
	bestI, bestJ := 0, 0
	for _, o := range ops {
		history <<= 1
		switch o {
		case opMatch:
			history |= 1
			i++
			j++
		case opMismatch:
			i++
			j++
		case opDel:
			i++
		case opIns:
			j++
		}
		if count < historyWindow {
			count++
		}
		if count == historyWindow {
			if popcount64(history) >= trimThreshold {
				bestI, bestJ = i, j
			}
		} else {
			// Window not yet full: accept provisionally so short
			// extensions aren't discarded outright.
			bestI, bestJ = i, j
		}
	}
	return Result{ExtentU: bestI, ExtentV: bestJ, Distance: fullD}
}

func popcount64(x uint64) int {
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}
