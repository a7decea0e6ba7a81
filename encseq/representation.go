// Copyright 2026, the gtsfx contributors.

package encseq

import "github.com/kshedden/gtsfx/alphabet"

// Variant names the six storage representations of spec section 3.
// uchar-ranges, ushort-ranges and uint32-ranges are modelled by the
// single rangesRep type parameterized by specialrange.Width8/16/32 —
// the width only changes the page size and on-disk field widths, not
// the algorithm (spec section 4.1's design note calls this out as a
// size heuristic choice, not a behavioral one).
type Variant int

const (
	VariantDirect Variant = iota
	VariantByteCompress
	VariantBitAccess
	VariantRanges8
	VariantRanges16
	VariantRanges32
)

func (v Variant) String() string {
	switch v {
	case VariantDirect:
		return "direct"
	case VariantByteCompress:
		return "bytecompress"
	case VariantBitAccess:
		return "bitaccess"
	case VariantRanges8:
		return "uchar-ranges"
	case VariantRanges16:
		return "ushort-ranges"
	case VariantRanges32:
		return "uint32-ranges"
	default:
		return "unknown"
	}
}

// HasSpecialRangeTable reports whether this variant persists a
// special-range side table on disk (invariant (a) of spec section 3:
// direct and bytecompress never do).
func (v Variant) HasSpecialRangeTable() bool {
	return v != VariantDirect && v != VariantByteCompress
}

// specialIter is the shape special_range_iterator returns.
type specialIter interface {
	// Next returns the next maximal special range (absolute start,
	// length) in the iterator's direction, or ok=false when done.
	Next() (start, length int, ok bool)
}

// representation is the tagged-sum interface every storage variant
// implements; EncodedSequence dispatches to exactly one, bound once
// at construction (spec section 9's "representation variants as a
// tagged sum" design note).
type representation interface {
	variant() Variant

	// charAt returns the fully resolved symbol (an alphabet code, or
	// alphabet.Wildcard/Separator) at pos.
	charAt(pos int) alphabet.Symbol

	// extract2BitWord returns one machine word of 2-bit codes
	// (forward: starting at pos; reverse: ending at pos) and the
	// number of leading positions in that window that are
	// non-special and therefore trustworthy, per spec section 4.1.
	extract2BitWord(pos int, forward bool) (word uint64, nonSpecialCount int)

	// containsSpecial reports whether any position in [from, from+length)
	// is special.
	containsSpecial(from, length int) bool

	// specialIterator walks the maximal special ranges in order.
	specialIterator(forward bool) specialIter

	// sizeBytes estimates the payload+side-table size in bytes, for
	// the writer's variant-choosing heuristic and for diagnostics.
	sizeBytes() int64
}
