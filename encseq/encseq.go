// Copyright 2026, the gtsfx contributors.

// Package encseq is the encoded-sequence store: the 2-bit-packed,
// special-aware representation every other package in this module
// reads suffixes from. Spec section 3 names six on-disk storage
// variants; encseq models them as a closed tagged sum (the
// representation interface) bound once per EncodedSequence and never
// switched at runtime.
package encseq

import (
	"github.com/kshedden/gtsfx"
	"github.com/kshedden/gtsfx/alphabet"
)

// ReadMode selects the direction and strand a position is read in,
// matching spec section 4's four traversal modes used by sufsort and
// maxpairs.
type ReadMode int

const (
	Forward ReadMode = iota
	Reverse
	Complement
	ReverseComplement
)

// EncodedSequence is the read side of an encoded multi-sequence
// collection: one representation, the separator index shared by every
// variant, and the alphabet used to build it.
type EncodedSequence struct {
	rep   representation
	sep   *sepIndex
	alpha *alphabet.Alphabet
	total int // total length including separators
}

// NumSequences returns the number of member sequences.
func (e *EncodedSequence) NumSequences() int { return len(e.sep.positions) + 1 }

// TotalLength returns the length of the encoded sequence, separators
// included.
func (e *EncodedSequence) TotalLength() int { return e.total }

// Variant reports which of the six storage representations backs this
// sequence.
func (e *EncodedSequence) Variant() Variant { return e.rep.variant() }

// Alphabet returns the alphabet this sequence was encoded with.
func (e *EncodedSequence) Alphabet() *alphabet.Alphabet { return e.alpha }

// resolvePos maps a logical (mode, pos) pair to the underlying
// absolute forward position and whether the code read there must be
// complemented before returning it.
func (e *EncodedSequence) resolvePos(mode ReadMode, pos int) (absPos int, complement bool) {
	switch mode {
	case Forward:
		return pos, false
	case Reverse:
		return e.total - 1 - pos, false
	case Complement:
		return pos, true
	case ReverseComplement:
		return e.total - 1 - pos, true
	default:
		return pos, false
	}
}

// CharAt returns the symbol at logical position pos under mode. It
// panics if pos is out of range, matching the teacher's convention
// that out-of-bounds access is a programming error, not a recoverable
// one (see gtsfx.Programming).
func (e *EncodedSequence) CharAt(mode ReadMode, pos int) alphabet.Symbol {
	abs, comp := e.resolvePos(mode, pos)
	sym := e.rep.charAt(abs)
	if comp && !e.alpha.IsSpecial(sym) {
		sym = e.alpha.Complement(sym)
	}
	return sym
}

// SequentialCharAt is CharAt without mode dispatch, for hot loops that
// already know they are reading forward (the common case in sufsort's
// inner comparison loop).
func (e *EncodedSequence) SequentialCharAt(pos int) alphabet.Symbol {
	return e.rep.charAt(pos)
}

// ExtractSubstring copies length resolved symbols starting at pos
// under mode into a freshly allocated slice. Intended for reporting
// and test assertions, not the sufsort hot path (use Extract2BitWord
// there).
func (e *EncodedSequence) ExtractSubstring(mode ReadMode, pos, length int) []alphabet.Symbol {
	out := make([]alphabet.Symbol, length)
	for i := 0; i < length; i++ {
		out[i] = e.CharAt(mode, pos+i)
	}
	return out
}

// Extract2BitWord returns one machine word (32 symbols) of 2-bit
// codes for the forward-complement-free case used by sufsort's direct
// comparison fast path, plus how many leading symbols in that word are
// guaranteed non-special. forward selects the direction within the
// underlying representation. The word is never complemented here;
// bitpack.ComplementWord flips all of a word's codes at once, and
// sufsort's comparison uses the word uncomplemented.
func (e *EncodedSequence) Extract2BitWord(pos int, forward bool) (word uint64, nonSpecialCount int) {
	return e.rep.extract2BitWord(pos, forward)
}

// ContainsSpecial reports whether [from, from+length) contains a
// wildcard or separator.
func (e *EncodedSequence) ContainsSpecial(from, length int) bool {
	return e.rep.containsSpecial(from, length)
}

// SpecialRangeIterator walks the maximal special ranges of the whole
// encoded sequence in the given direction.
func (e *EncodedSequence) SpecialRangeIterator(forward bool) specialIter {
	return e.rep.specialIterator(forward)
}

// SeqnumOfPosition returns which member sequence (0-based) contains
// the absolute forward position pos, and that sequence's start offset.
func (e *EncodedSequence) SeqnumOfPosition(pos int) (seqnum, start int) {
	return e.sep.seqnumOf(pos)
}

// IsSeparator reports whether the absolute forward position pos holds
// a sequence-separator symbol (as opposed to an in-alphabet or
// wildcard symbol).
func (e *EncodedSequence) IsSeparator(pos int) bool {
	return e.sep.isSeparator(pos)
}

// SequenceBounds returns the [start, end) half-open range of absolute
// forward positions belonging to member sequence seqnum, separator
// excluded.
func (e *EncodedSequence) SequenceBounds(seqnum int) (start, end int) {
	if seqnum == 0 {
		start = 0
	} else {
		start = e.sep.positions[seqnum-1] + 1
	}
	if seqnum < len(e.sep.positions) {
		end = e.sep.positions[seqnum]
	} else {
		end = e.total
	}
	return start, end
}

// SelfCheck walks the representation's forward special iterator and
// cross-checks each reported range against containsSpecial and charAt
// (positions outside the reported ranges are not checked), returning a *gtsfx.Error of kind Programming on the first
// inconsistency. It is never invoked automatically (decided in
// SPEC_FULL.md's open-questions section); callers opt in explicitly,
// e.g. from a CLI "-selfcheck" debug flag.
func (e *EncodedSequence) SelfCheck(level int) error {
	it := e.SpecialRangeIterator(true)
	count := 0
	for {
		start, length, ok := it.Next()
		if !ok {
			break
		}
		for p := start; p < start+length; p++ {
			sym := e.rep.charAt(p)
			if !e.alpha.IsSpecial(sym) {
				return gtsfx.Newf(gtsfx.Programming, "position %d reported special by iterator but charAt returned in-alphabet code %d", p, sym)
			}
		}
		count += length
		if !e.ContainsSpecial(start, length) {
			return gtsfx.Newf(gtsfx.Programming, "range [%d,%d) reported by iterator but containsSpecial denies it", start, start+length)
		}
	}
	return nil
}
