// Copyright 2026, the gtsfx contributors.

package encseq

import (
	"github.com/golang-collections/go-datastructures/bitarray"
	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/bitpack"
)

// bitaccessRep stores one 2-bit code per position in a bitpack.Store
// (so extract2BitWord is a single aligned word read, spec section
// 4.1's fast path) plus a separate bitarray.BitArray marking which
// positions are special. Because the 2-bit code can't distinguish
// Wildcard from Separator, charAt and the special iterator consult
// the shared sepIndex to tell them apart.
type bitaccessRep struct {
	codes    *bitpack.Store
	specials bitarray.BitArray
	sep      *sepIndex
	wildcard, separator alphabet.Symbol
}

func newBitaccessRep(n int, sep *sepIndex, a *alphabet.Alphabet) *bitaccessRep {
	return &bitaccessRep{
		codes:     bitpack.NewStore(n),
		specials:  bitarray.NewBitArray(uint64(n)),
		sep:       sep,
		wildcard:  a.Wildcard,
		separator: a.Separator,
	}
}

func (r *bitaccessRep) setCode(pos int, code byte) { r.codes.Set(pos, code) }

func (r *bitaccessRep) markSpecial(pos int) {
	_ = r.specials.SetBit(uint64(pos))
}

func (r *bitaccessRep) isSpecial(pos int) bool {
	ok, err := r.specials.GetBit(uint64(pos))
	return err == nil && ok
}

func (r *bitaccessRep) variant() Variant { return VariantBitAccess }

func (r *bitaccessRep) charAt(pos int) alphabet.Symbol {
	if r.isSpecial(pos) {
		if r.sep.isSeparator(pos) {
			return r.separator
		}
		return r.wildcard
	}
	return alphabet.Symbol(r.codes.Get(pos))
}

func (r *bitaccessRep) extract2BitWord(pos int, forward bool) (uint64, int) {
	word := r.codes.ExtractWord(pos, forward)
	nonSpecial := 0
	for i := 0; i < bitpack.SymbolsPerWord; i++ {
		var p int
		if forward {
			p = pos + i
		} else {
			p = pos - i
		}
		if p < 0 || p >= r.codes.Len() || r.isSpecial(p) {
			break
		}
		nonSpecial++
	}
	return word, nonSpecial
}

func (r *bitaccessRep) containsSpecial(from, length int) bool {
	to := from + length
	if to > r.codes.Len() {
		to = r.codes.Len()
	}
	for p := from; p < to; p++ {
		if r.isSpecial(p) {
			return true
		}
	}
	return false
}

func (r *bitaccessRep) specialIterator(forward bool) specialIter {
	return &bitaccessSpecialIter{r: r, forward: forward, pos: startPos(forward, r.codes.Len())}
}

func (r *bitaccessRep) sizeBytes() int64 {
	return int64(r.codes.Len())/4 + int64(r.codes.Len())/8 + 1
}

type bitaccessSpecialIter struct {
	r       *bitaccessRep
	forward bool
	pos     int
}

func (it *bitaccessSpecialIter) Next() (int, int, bool) {
	n := it.r.codes.Len()
	if it.forward {
		for it.pos < n && !it.r.isSpecial(it.pos) {
			it.pos++
		}
		if it.pos >= n {
			return 0, 0, false
		}
		start := it.pos
		for it.pos < n && it.r.isSpecial(it.pos) {
			it.pos++
		}
		return start, it.pos - start, true
	}
	for it.pos >= 0 && !it.r.isSpecial(it.pos) {
		it.pos--
	}
	if it.pos < 0 {
		return 0, 0, false
	}
	end := it.pos + 1
	for it.pos >= 0 && it.r.isSpecial(it.pos) {
		it.pos--
	}
	start := it.pos + 1
	return start, end - start, true
}
