// Copyright 2026, the gtsfx contributors.

package encseq

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/kshedden/gtsfx"
	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/specialrange"
	"golang.org/x/sys/unix"
)

// manifest is the parsed .prj side table (spec section 6).
type manifest struct {
	totalLength    int
	numSequences   int
	alphabetSize   int
	representation string
	integerSize    int
	littleEndian   bool
	payloadChecksum    uint32
	hasPayloadChecksum bool
}

func readManifest(path string) (*manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "opening %s", path)
	}
	defer f.Close()
	m := &manifest{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, val := kv[0], kv[1]
		switch key {
		case "totallength":
			m.totalLength, err = strconv.Atoi(val)
		case "numofsequences":
			m.numSequences, err = strconv.Atoi(val)
		case "alphabetsize":
			m.alphabetSize, err = strconv.Atoi(val)
		case "representation":
			m.representation = val
		case "integersize":
			m.integerSize, err = strconv.Atoi(val)
		case "littleendian":
			var v int
			v, err = strconv.Atoi(val)
			m.littleEndian = v != 0
		case "payloadchecksum":
			var v uint64
			v, err = strconv.ParseUint(val, 16, 32)
			m.payloadChecksum = uint32(v)
			m.hasPayloadChecksum = true
		}
		if err != nil {
			return nil, gtsfx.Wrap(gtsfx.Format, err, "parsing %s line %q", path, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "reading %s", path)
	}
	if m.integerSize != 64 {
		return nil, gtsfx.Newf(gtsfx.Format, "%s: unsupported integersize %d", path, m.integerSize)
	}
	if !m.littleEndian {
		return nil, gtsfx.Newf(gtsfx.Format, "%s: big-endian manifests are not supported", path)
	}
	return m, nil
}

func readSSP(path string) ([]int, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "opening %s", path)
	}
	defer f.Close()
	var seps []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, gtsfx.Wrap(gtsfx.Format, err, "parsing %s", path)
		}
		seps = append(seps, v)
	}
	return seps, sc.Err()
}

// mappedFile holds an mmap'd .esq payload; Close must be called to
// munmap it. Using a real mmap (spec section 9's mmaprange
// component) rather than reading the whole file into a []byte lets
// the OS page cache, rather than the Go heap, own multi-gigabyte
// encoded sequences.
type mappedFile struct {
	data []byte
	f    *os.File
}

func mapFile(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "opening %s", path)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, gtsfx.Wrap(gtsfx.IO, err, "stat %s", path)
	}
	if fi.Size() == 0 {
		f.Close()
		return nil, gtsfx.Newf(gtsfx.Format, "%s is empty", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, gtsfx.Wrap(gtsfx.IO, err, "mmap %s", path)
	}
	return &mappedFile{data: data, f: f}, nil
}

func (m *mappedFile) Close() error {
	err := unix.Munmap(m.data)
	m.f.Close()
	return err
}

// Open loads a previously written encoded sequence from
// <indexname>.prj/.esq/.ssp. The .esq payload is memory-mapped rather
// than copied, so the returned EncodedSequence must not outlive the
// caller's use of it without also calling the returned close function.
func Open(indexname string, a *alphabet.Alphabet) (*EncodedSequence, func() error, error) {
	m, err := readManifest(indexname + ".prj")
	if err != nil {
		return nil, nil, err
	}
	seps, err := readSSP(indexname + ".ssp")
	if err != nil {
		return nil, nil, err
	}
	mf, err := mapFile(indexname + ".esq")
	if err != nil {
		return nil, nil, err
	}
	if len(mf.data) != m.totalLength {
		mf.Close()
		return nil, nil, gtsfx.Newf(gtsfx.Format, "%s: .esq length %d does not match manifest totallength %d", indexname, len(mf.data), m.totalLength)
	}

	sep := newSepIndex(seps)
	variant, err := parseVariant(m.representation)
	if err != nil {
		mf.Close()
		return nil, nil, err
	}

	rep, err := rebuildRepresentation(variant, mf.data, sep, a)
	if err != nil {
		mf.Close()
		return nil, nil, err
	}

	e := &EncodedSequence{rep: rep, sep: sep, alpha: a, total: m.totalLength}

	if m.hasPayloadChecksum {
		if got := payloadChecksum(e); got != m.payloadChecksum {
			mf.Close()
			return nil, nil, gtsfx.Newf(gtsfx.Format, "%s: payload checksum mismatch (.esq corrupt or truncated): manifest %08x, computed %08x", indexname, m.payloadChecksum, got)
		}
	}

	return e, mf.Close, nil
}

func parseVariant(s string) (Variant, error) {
	for _, v := range []Variant{VariantDirect, VariantByteCompress, VariantBitAccess, VariantRanges8, VariantRanges16, VariantRanges32} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, gtsfx.Newf(gtsfx.Format, "unrecognized representation %q", s)
}

// rebuildRepresentation reconstructs the chosen variant's in-memory
// structures from the resolved-symbol byte payload that WriteFiles
// always writes to .esq, regardless of which variant produced it
// (invariant: .esq is variant-independent on disk, spec section 6).
func rebuildRepresentation(variant Variant, payload []byte, sep *sepIndex, a *alphabet.Alphabet) (representation, error) {
	n := len(payload)
	switch variant {
	case VariantDirect:
		return newDirectRep(payload, a), nil
	case VariantByteCompress:
		bc := newBytecompressRep(n, a.Size, a)
		for i, b := range payload {
			bc.set(i, alphabet.Symbol(b))
		}
		return bc, nil
	case VariantBitAccess:
		ba := newBitaccessRep(n, sep, a)
		for i, b := range payload {
			s := alphabet.Symbol(b)
			if a.IsSpecial(s) {
				ba.markSpecial(i)
			} else {
				ba.setCode(i, s)
			}
		}
		return ba, nil
	default:
		w := rangesWidthOf(variant)
		b := specialrange.NewBuilder(w)
		runStart := -1
		for i, by := range payload {
			if a.IsSpecial(alphabet.Symbol(by)) {
				if runStart < 0 {
					runStart = i
				}
			} else if runStart >= 0 {
				b.AddRun(runStart, i-runStart)
				runStart = -1
			}
		}
		if runStart >= 0 {
			b.AddRun(runStart, n-runStart)
		}
		table := b.Build(n)
		rr := newRangesRep(n, w, table, sep, a)
		for i, by := range payload {
			s := alphabet.Symbol(by)
			if !a.IsSpecial(s) {
				rr.setCode(i, s)
			}
		}
		return rr, nil
	}
}
