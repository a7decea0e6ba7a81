// Copyright 2026, the gtsfx contributors.

package encseq

import (
	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/bitpack"
	"github.com/kshedden/gtsfx/specialrange"
)

// rangesRep is the single implementation behind the uchar-ranges,
// ushort-ranges and uint32-ranges variants of spec section 3: a 2-bit
// payload plus a specialrange.Table, differing only in the table's
// page width. The variant tag carries which of the three it is so
// that on-disk serialization picks the matching field width.
type rangesRep struct {
	codes               *bitpack.Store
	table               *specialrange.Table
	width               specialrange.Width
	sep                 *sepIndex
	wildcard, separator alphabet.Symbol
}

func newRangesRep(n int, w specialrange.Width, table *specialrange.Table, sep *sepIndex, a *alphabet.Alphabet) *rangesRep {
	return &rangesRep{
		codes:     bitpack.NewStore(n),
		table:     table,
		width:     w,
		sep:       sep,
		wildcard:  a.Wildcard,
		separator: a.Separator,
	}
}

func (r *rangesRep) setCode(pos int, code byte) { r.codes.Set(pos, code) }

func (r *rangesRep) variant() Variant {
	switch r.width {
	case specialrange.Width8:
		return VariantRanges8
	case specialrange.Width16:
		return VariantRanges16
	default:
		return VariantRanges32
	}
}

func (r *rangesRep) charAt(pos int) alphabet.Symbol {
	if r.table.IsSpecial(pos) {
		if r.sep.isSeparator(pos) {
			return r.separator
		}
		return r.wildcard
	}
	return alphabet.Symbol(r.codes.Get(pos))
}

func (r *rangesRep) extract2BitWord(pos int, forward bool) (uint64, int) {
	word := r.codes.ExtractWord(pos, forward)
	nonSpecial := 0
	for i := 0; i < bitpack.SymbolsPerWord; i++ {
		var p int
		if forward {
			p = pos + i
		} else {
			p = pos - i
		}
		if p < 0 || p >= r.codes.Len() || r.table.IsSpecial(p) {
			break
		}
		nonSpecial++
	}
	return word, nonSpecial
}

func (r *rangesRep) containsSpecial(from, length int) bool {
	return r.table.ContainsSpecial(from, length)
}

func (r *rangesRep) specialIterator(forward bool) specialIter {
	return &rangesSpecialIter{it: r.table.Iterator(forward)}
}

func (r *rangesRep) sizeBytes() int64 {
	return int64(r.codes.Len())/4 + int64(r.table.NumRanges())*int64(2*r.width.BytesPerField())
}

type rangesSpecialIter struct {
	it *specialrange.RangeIterator
}

func (it *rangesSpecialIter) Next() (int, int, bool) {
	rg, ok := it.it.Next()
	if !ok {
		return 0, 0, false
	}
	return rg.Start, rg.Length, true
}
