// Copyright 2026, the gtsfx contributors.

package encseq

import "sort"

// sepIndex is a binary-searchable view of the sequence-separator
// positions that every storage variant shares (spec section 3: "number
// of sequences and sequence-separator positions"). It lets the
// bitaccess/ranges representations, which only track a generic
// "special" bit, tell a separator apart from a wildcard.
type sepIndex struct {
	positions []int // ascending, len == numSequences-1
}

func newSepIndex(positions []int) *sepIndex {
	return &sepIndex{positions: positions}
}

func (s *sepIndex) isSeparator(pos int) bool {
	i := sort.SearchInts(s.positions, pos)
	return i < len(s.positions) && s.positions[i] == pos
}

// seqnumOf returns which member sequence (0-based) contains pos, and
// the start offset of that sequence within the whole encoded
// sequence, via binary search over the separator positions.
func (s *sepIndex) seqnumOf(pos int) (seqnum, seqStart int) {
	i := sort.SearchInts(s.positions, pos)
	if i == 0 {
		return 0, 0
	}
	return i, s.positions[i-1] + 1
}
