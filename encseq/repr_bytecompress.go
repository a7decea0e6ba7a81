// Copyright 2026, the gtsfx contributors.

package encseq

import "github.com/kshedden/gtsfx/alphabet"

// bytecompressRep packs one symbol per field of ceil(log2(sigma+2))
// bits — tighter than direct's whole byte when sigma is small, still
// self-describing (no separate special-range table, invariant (a)),
// at the cost of losing 2-bit-word alignment: extract2BitWord must
// decode field by field rather than via a raw shift.
type bytecompressRep struct {
	arr                 *packedArray
	wildcard, separator alphabet.Symbol
}

func newBytecompressRep(n int, sigma int, a *alphabet.Alphabet) *bytecompressRep {
	width := bitsForSymbols(sigma + 2)
	return &bytecompressRep{
		arr:       newPackedArray(n, width),
		wildcard:  a.Wildcard,
		separator: a.Separator,
	}
}

func (r *bytecompressRep) set(pos int, sym alphabet.Symbol) {
	r.arr.Set(pos, uint32(sym))
}

func (r *bytecompressRep) variant() Variant { return VariantByteCompress }

func (r *bytecompressRep) charAt(pos int) alphabet.Symbol {
	return alphabet.Symbol(r.arr.Get(pos))
}

func (r *bytecompressRep) isSpecial(sym alphabet.Symbol) bool {
	return sym == r.wildcard || sym == r.separator
}

func (r *bytecompressRep) extract2BitWord(pos int, forward bool) (uint64, int) {
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
		if p >= 0 && p < r.arr.Len() {
			sym := r.charAt(p)
			if !r.isSpecial(sym) {
				code = byte(sym) & 3
				if counting {
					nonSpecial++
				}
			} else {
				counting = false
			}
		} else {
			counting = false
		}
		word = word<<2 | uint64(code)
	}
	return word, nonSpecial
}

func (r *bytecompressRep) containsSpecial(from, length int) bool {
	to := from + length
	if to > r.arr.Len() {
		to = r.arr.Len()
	}
	for p := from; p < to; p++ {
		if r.isSpecial(r.charAt(p)) {
			return true
		}
	}
	return false
}

func (r *bytecompressRep) specialIterator(forward bool) specialIter {
	return &bytecompressSpecialIter{r: r, forward: forward, pos: startPos(forward, r.arr.Len())}
}

func (r *bytecompressRep) sizeBytes() int64 { return r.arr.SizeBytes() }

type bytecompressSpecialIter struct {
	r       *bytecompressRep
	forward bool
	pos     int
}

func (it *bytecompressSpecialIter) Next() (int, int, bool) {
	n := it.r.arr.Len()
	if it.forward {
		for it.pos < n && !it.r.isSpecial(it.r.charAt(it.pos)) {
			it.pos++
		}
		if it.pos >= n {
			return 0, 0, false
		}
		start := it.pos
		for it.pos < n && it.r.isSpecial(it.r.charAt(it.pos)) {
			it.pos++
		}
		return start, it.pos - start, true
	}
	for it.pos >= 0 && !it.r.isSpecial(it.r.charAt(it.pos)) {
		it.pos--
	}
	if it.pos < 0 {
		return 0, 0, false
	}
	end := it.pos + 1
	for it.pos >= 0 && it.r.isSpecial(it.r.charAt(it.pos)) {
		it.pos--
	}
	start := it.pos + 1
	return start, end - start, true
}
