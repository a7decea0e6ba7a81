// Copyright 2026, the gtsfx contributors.

// Package complexity scores a symbol run's dinucleotide diversity, a
// cheap low-complexity filter for seed regions (long homopolymer or
// short-period repeat stretches produce a flood of spurious maximal
// pairs that no alignment-quality filter downstream removes cheaply).
// Adapted from the teacher's utils.CountDinuc, generalized from a
// hard-coded ACGT/N encoding to any alphabet.Alphabet.
package complexity

import "github.com/kshedden/gtsfx/alphabet"

// DistinctDinucleotides counts how many of the (numofchars+1)^2
// adjacent-symbol pairs actually occur in seq (the +1 covers
// wildcard/separator, all folded into one "other" bucket). A run
// confined to a handful of pairs — an AT-repeat, a homopolymer — is
// low complexity; a run exercising most of the possible pairs is not.
func DistinctDinucleotides(seq []alphabet.Symbol, a *alphabet.Alphabet) int {
	buckets := a.Size + 1
	seen := make([]bool, buckets*buckets)
	n := 0
	for i := 1; i < len(seq); i++ {
		prev := bucket(seq[i-1], a)
		cur := bucket(seq[i], a)
		k := prev*buckets + cur
		if !seen[k] {
			seen[k] = true
			n++
		}
	}
	return n
}

func bucket(s alphabet.Symbol, a *alphabet.Alphabet) int {
	if a.IsSpecial(s) {
		return a.Size
	}
	return int(s)
}

// IsLowComplexity reports whether seq's distinct-dinucleotide count
// falls below minDistinct, the same threshold shape the teacher's
// read-screening pipeline used to reject near-homopolymer reads before
// spending a confirmation pass on them.
func IsLowComplexity(seq []alphabet.Symbol, a *alphabet.Alphabet, minDistinct int) bool {
	if len(seq) < 2 {
		return false
	}
	return DistinctDinucleotides(seq, a) < minDistinct
}
