// Copyright 2026, the gtsfx contributors.

package sufsort

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/kshedden/gtsfx"
	"github.com/kshedden/gtsfx/buckettable"
	"github.com/kshedden/gtsfx/encseq"
)

// PBTDepth is the fixed short prefix depth the .pbt table covers,
// matching original_source/src/match/pckbucket.c's small fixed-depth
// convention (depth 3 keeps the table tiny even for a 20-letter
// protein alphabet).
const PBTDepth = 3

// WritePBT builds and writes the depth-pbtDepth precomputed LCP bound
// table to <indexname>.pbt, as pairs of little-endian uint32 (min,
// max) per bucket code. Requires the LCP array (opts.WithLCP must have
// been set when Sort produced r).
func (r *Result) WritePBT(indexname string, enc *encseq.EncodedSequence) error {
	if r.LCP == nil {
		return gtsfx.Newf(gtsfx.Misuse, "WritePBT: result has no LCP array")
	}
	numofchars := enc.Alphabet().Size
	bt := buckettable.NewTable(numofchars, PBTDepth)
	for _, pos := range r.Suftab {
		code, _ := buckettable.PrefixCode(enc, int(pos), PBTDepth, numofchars)
		bt.Add(code)
	}
	bt.Finalize()
	pb := buckettable.BuildPrecomputedBound(numofchars, PBTDepth, bt, r.LCPAt)

	f, err := os.Create(indexname + ".pbt")
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s.pbt", indexname)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	var buf [8]byte
	for code := int64(0); code < bt.NumBuckets(); code++ {
		minv, maxv := pb.Bound(code)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(minv))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(maxv))
		if _, err := w.Write(buf[:]); err != nil {
			return gtsfx.Wrap(gtsfx.IO, err, "writing %s.pbt", indexname)
		}
	}
	return w.Flush()
}

// ReadPBT loads a ".pbt" file written by WritePBT back into a
// *buckettable.PrecomputedBound, rebuilding its min/max slices from the
// little-endian uint32 pairs on disk. It reports os.IsNotExist-wrapped
// errors unchanged so a caller can treat a missing .pbt as "this index
// was built without -lcp" rather than a fatal condition.
func ReadPBT(indexname string, numofchars int) (*buckettable.PrecomputedBound, error) {
	f, err := os.Open(indexname + ".pbt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n := buckettable.NumBuckets(numofchars, PBTDepth)
	min := make([]int32, n)
	max := make([]int32, n)
	r := bufio.NewReader(f)
	var buf [8]byte
	for code := int64(0); code < n; code++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, gtsfx.Wrap(gtsfx.Format, err, "reading %s.pbt entry %d", indexname, code)
		}
		min[code] = int32(binary.LittleEndian.Uint32(buf[0:4]))
		max[code] = int32(binary.LittleEndian.Uint32(buf[4:8]))
	}
	return buckettable.NewPrecomputedBound(numofchars, PBTDepth, min, max), nil
}

// WriteSuf writes the suffix array to <indexname>.suf, one little-endian
// uint64 position per entry, matching the .prj manifest's
// integersize=64/littleendian=1 declaration.
func (r *Result) WriteSuf(indexname string) error {
	return writeUint64Slice(indexname+".suf", r.Suftab)
}

// WriteLCP writes the LCP array to <indexname>.lcp (one byte per
// entry, 255 meaning "see .llv") and, if any value overflowed, the
// exception table to <indexname>.llv as sorted (index, value) pairs of
// little-endian uint64s.
func (r *Result) WriteLCP(indexname string) error {
	if r.LCP == nil {
		return nil
	}
	f, err := os.Create(indexname + ".lcp")
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s.lcp", indexname)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(r.LCP); err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "writing %s.lcp", indexname)
	}
	if err := w.Flush(); err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "flushing %s.lcp", indexname)
	}
	if len(r.Exceptions) == 0 {
		return nil
	}
	lf, err := os.Create(indexname + ".llv")
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s.llv", indexname)
	}
	defer lf.Close()
	lw := bufio.NewWriter(lf)
	indices := make([]int, 0, len(r.Exceptions))
	for idx := range r.Exceptions {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	var buf [8]byte
	for _, idx := range indices {
		binary.LittleEndian.PutUint64(buf[:], uint64(idx))
		if _, err := lw.Write(buf[:]); err != nil {
			return gtsfx.Wrap(gtsfx.IO, err, "writing %s.llv", indexname)
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Exceptions[idx]))
		if _, err := lw.Write(buf[:]); err != nil {
			return gtsfx.Wrap(gtsfx.IO, err, "writing %s.llv", indexname)
		}
	}
	return lw.Flush()
}

// WriteBWT writes the Burrows-Wheeler transform byte stream to
// <indexname>.bwt: position i holds encseq.CharAt(suf[i]-1), or the
// alphabet's separator marker when suf[i]==0, since the BWT is the
// column of characters immediately preceding each sorted suffix.
// Grounded on original_source/src/match/eis-voiditf.c's reading of the
// suffix array as a rotation index rather than a second data
// structure: the BWT byte at rank i is always derivable from the
// suffix array and the encoded sequence alone.
func (r *Result) WriteBWT(indexname string, enc *encseq.EncodedSequence) error {
	f, err := os.Create(indexname + ".bwt")
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s.bwt", indexname)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	buf := make([]byte, len(r.Suftab))
	for i, p := range r.Suftab {
		if p == 0 {
			buf[i] = byte(enc.Alphabet().Separator)
			continue
		}
		buf[i] = byte(enc.SequentialCharAt(int(p) - 1))
	}
	if _, err := w.Write(buf); err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "writing %s.bwt", indexname)
	}
	return w.Flush()
}

func writeUint64Slice(path string, vals []int32) error {
	f, err := os.Create(path)
	if err != nil {
		return gtsfx.Wrap(gtsfx.IO, err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		if _, err := w.Write(buf[:]); err != nil {
			return gtsfx.Wrap(gtsfx.IO, err, "writing %s", path)
		}
	}
	return w.Flush()
}
