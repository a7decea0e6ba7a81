// Copyright 2026, the gtsfx contributors.

package encseq

import "github.com/kshedden/gtsfx/alphabet"

// directRep stores one fully resolved symbol per byte, including
// Wildcard and Separator codes inline. It carries no special-range
// table (invariant (a)): containsSpecial and specialIterator fall
// back to a linear scan of the payload.
type directRep struct {
	payload           []byte
	wildcard, separator alphabet.Symbol
}

func newDirectRep(payload []byte, a *alphabet.Alphabet) *directRep {
	return &directRep{payload: payload, wildcard: a.Wildcard, separator: a.Separator}
}

func (r *directRep) variant() Variant { return VariantDirect }

func (r *directRep) charAt(pos int) alphabet.Symbol {
	return alphabet.Symbol(r.payload[pos])
}

func (r *directRep) isSpecialByte(b byte) bool {
	return b == r.wildcard || b == r.separator
}

func (r *directRep) extract2BitWord(pos int, forward bool) (uint64, int) {
	var word uint64
	nonSpecial := 0
	counting := true
	for i := 0; i < 32; i++ {
		var p int
		if forward {
			p = pos + i
		} else {
			p = pos - i
		}
		var code byte
		if p >= 0 && p < len(r.payload) && !r.isSpecialByte(r.payload[p]) {
			code = r.payload[p] & 3
			if counting {
				nonSpecial++
			}
		} else {
			counting = false
		}
		word = word<<2 | uint64(code)
	}
	return word, nonSpecial
}

func (r *directRep) containsSpecial(from, length int) bool {
	to := from + length
	if to > len(r.payload) {
		to = len(r.payload)
	}
	for p := from; p < to; p++ {
		if r.isSpecialByte(r.payload[p]) {
			return true
		}
	}
	return false
}

func (r *directRep) specialIterator(forward bool) specialIter {
	return &directSpecialIter{r: r, forward: forward, pos: startPos(forward, len(r.payload))}
}

func (r *directRep) sizeBytes() int64 { return int64(len(r.payload)) }

type directSpecialIter struct {
	r       *directRep
	forward bool
	pos     int
}

func startPos(forward bool, n int) int {
	if forward {
		return 0
	}
	return n - 1
}

func (it *directSpecialIter) Next() (int, int, bool) {
	n := len(it.r.payload)
	if it.forward {
		for it.pos < n && !it.r.isSpecialByte(it.r.payload[it.pos]) {
			it.pos++
		}
		if it.pos >= n {
			return 0, 0, false
		}
		start := it.pos
		for it.pos < n && it.r.isSpecialByte(it.r.payload[it.pos]) {
			it.pos++
		}
		return start, it.pos - start, true
	}
	for it.pos >= 0 && !it.r.isSpecialByte(it.r.payload[it.pos]) {
		it.pos--
	}
	if it.pos < 0 {
		return 0, 0, false
	}
	end := it.pos + 1
	for it.pos >= 0 && it.r.isSpecialByte(it.r.payload[it.pos]) {
		it.pos--
	}
	start := it.pos + 1
	return start, end - start, true
}
