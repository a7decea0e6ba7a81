// Copyright 2026, the gtsfx contributors.

package encseq

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kshedden/gtsfx"
	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/specialrange"
)

// WriteOptions controls how Build chooses and tunes a storage
// variant, mirroring the -force64/-dir style flags of spec section 6.
type WriteOptions struct {
	// Variant, if non-nil, forces a specific storage variant instead
	// of running the size-estimate heuristic of spec section 4.1.
	Variant *Variant

	// WithDescriptions, when true, collects each member sequence's
	// description line into the .des side table.
	WithDescriptions bool
}

// Build consumes a RawSymbolProducer end to end and returns a fully
// populated in-memory EncodedSequence, choosing (unless overridden by
// opts.Variant) the storage variant with chooseVariant: bytecompress
// for alphabets larger than four symbols, direct when there are no
// specials, ranges when its estimated size does not exceed
// bitaccess's, bitaccess otherwise.
func Build(prod RawSymbolProducer, a *alphabet.Alphabet, opts WriteOptions) (*EncodedSequence, []string, error) {
	var allSymbols []alphabet.Symbol
	var seps []int
	var descs []string
	for prod.Next() {
		if prod.Err() != nil {
			return nil, nil, gtsfx.Wrap(gtsfx.IO, prod.Err(), "reading raw symbols")
		}
		if len(allSymbols) > 0 {
			allSymbols = append(allSymbols, a.Separator)
			seps = append(seps, len(allSymbols)-1)
		}
		allSymbols = append(allSymbols, prod.Symbols()...)
		if opts.WithDescriptions {
			descs = append(descs, prod.Description())
		}
	}
	if err := prod.Err(); err != nil {
		return nil, nil, gtsfx.Wrap(gtsfx.IO, err, "reading raw symbols")
	}
	if len(allSymbols) == 0 {
		return nil, nil, gtsfx.Newf(gtsfx.Misuse, "no input sequences")
	}

	n := len(allSymbols)
	sep := newSepIndex(seps)

	// Gather specials (wildcards and separators) as maximal runs for
	// the ranges-variant estimate and for bitaccess/ranges construction.
	var runs []specialrange.Range
	runStart := -1
	for i, s := range allSymbols {
		if a.IsSpecial(s) {
			if runStart < 0 {
				runStart = i
			}
		} else if runStart >= 0 {
			runs = append(runs, specialrange.Range{Start: runStart, Length: i - runStart})
			runStart = -1
		}
	}
	if runStart >= 0 {
		runs = append(runs, specialrange.Range{Start: runStart, Length: n - runStart})
	}

	variant := chooseVariant(n, a.Size, runs, opts)

	var rep representation
	switch variant {
	case VariantDirect:
		payload := make([]byte, n)
		for i, s := range allSymbols {
			payload[i] = byte(s)
		}
		rep = newDirectRep(payload, a)
	case VariantByteCompress:
		bc := newBytecompressRep(n, a.Size, a)
		for i, s := range allSymbols {
			bc.set(i, s)
		}
		rep = bc
	case VariantBitAccess:
		ba := newBitaccessRep(n, sep, a)
		for i, s := range allSymbols {
			if a.IsSpecial(s) {
				ba.markSpecial(i)
			} else {
				ba.setCode(i, s)
			}
		}
		rep = ba
	default:
		w := rangesWidthOf(variant)
		b := specialrange.NewBuilder(w)
		for _, r := range runs {
			b.AddRun(r.Start, r.Length)
		}
		table := b.Build(n)
		rr := newRangesRep(n, w, table, sep, a)
		for i, s := range allSymbols {
			if !a.IsSpecial(s) {
				rr.setCode(i, s)
			}
		}
		rep = rr
	}

	return &EncodedSequence{rep: rep, sep: sep, alpha: a, total: n}, descs, nil
}

func rangesWidthOf(v Variant) specialrange.Width {
	switch v {
	case VariantRanges8:
		return specialrange.Width8
	case VariantRanges16:
		return specialrange.Width16
	default:
		return specialrange.Width32
	}
}

// chooseVariant implements the storage-variant heuristic: if
// opts.Variant is set, honor it unconditionally. Otherwise an alphabet
// of more than four symbols (sigma) always gets bytecompress, since
// the 2-bit variants cannot hold its codes; a sequence without
// specials gets direct; and the rest get the ranges variant at its
// cheapest width when its estimated size does not exceed bitaccess's,
// bitaccess otherwise. The sizes of direct and bytecompress are not
// estimated.
func chooseVariant(n, sigma int, runs []specialrange.Range, opts WriteOptions) Variant {
	if opts.Variant != nil {
		return *opts.Variant
	}
	if sigma > 4 {
		return VariantByteCompress
	}
	if len(runs) == 0 {
		return VariantDirect
	}
	bestW := specialrange.ChooseWidth(int64(n), len(runs), 8)
	rangesCost := specialrange.EstimateOverheadBytes(bestW, int64(n), len(runs), 8) + int64(n)/4
	bitaccessCost := int64(n)/4 + int64(n)/8 + 1
	if rangesCost <= bitaccessCost {
		switch bestW {
		case specialrange.Width8:
			return VariantRanges8
		case specialrange.Width16:
			return VariantRanges16
		default:
			return VariantRanges32
		}
	}
	return VariantBitAccess
}

// WriteFiles persists the encoded sequence and its side tables to
// <indexname>.esq/.prj/.des/.ssp, following the on-disk layout of
// spec section 6. Construction is not streamed: Build above holds the
// whole input in memory, and WriteFiles writes the finished
// in-memory EncodedSequence.
func WriteFiles(indexname string, e *EncodedSequence, descs []string) error {
	checksum, err := writeESQ(indexname+".esq", e)
	if err != nil {
		return err
	}
	if err := writePRJ(indexname+".prj", e, checksum); err != nil {
		return err
	}
	if len(descs) > 0 {
		if err := writeDES(indexname+".des", descs); err != nil {
			return err
		}
	}
	if err := writeSSP(indexname+".ssp", e); err != nil {
		return err
	}
	return nil
}

// writeESQ streams the resolved-symbol payload to disk and, in the
// same pass over buf, folds it through the buzhash32 checksum so the
// .prj manifest can record payloadchecksum without re-reading the
// payload a second time.
func writeESQ(path string, e *EncodedSequence) (uint32, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, gtsfx.Wrap(gtsfx.IO, err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	buf := make([]byte, e.total)
	for i := 0; i < e.total; i++ {
		buf[i] = byte(e.rep.charAt(i))
	}
	if _, err := w.Write(buf); err != nil {
		return 0, gtsfx.Wrap(gtsfx.IO, err, "writing %s", path)
	}
	if err := w.Flush(); err != nil {
		return 0, gtsfx.Wrap(gtsfx.IO, err, "writing %s", path)
	}
	return bufChecksum(buf), nil
}

func writePRJ(path string, e *EncodedSequence, checksum uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "totallength=%d\n", e.total)
	fmt.Fprintf(w, "numofsequences=%d\n", e.NumSequences())
	fmt.Fprintf(w, "alphabetsize=%d\n", e.alpha.Size)
	fmt.Fprintf(w, "representation=%s\n", e.rep.variant())
	fmt.Fprintf(w, "integersize=64\n")
	fmt.Fprintf(w, "littleendian=1\n")
	fmt.Fprintf(w, "payloadchecksum=%08x\n", checksum)
	return w.Flush()
}

func writeDES(path string, descs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, d := range descs {
		fmt.Fprintln(w, d)
	}
	return w.Flush()
}

func writeSSP(path string, e *EncodedSequence) error {
	f, err := os.Create(path)
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, p := range e.sep.positions {
		fmt.Fprintln(w, p)
	}
	return w.Flush()
}
