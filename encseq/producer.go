// Copyright 2026, the gtsfx contributors.

package encseq

import "github.com/kshedden/gtsfx/alphabet"

// RawSymbolProducer streams the already-alphabet-encoded symbols of
// the concatenated input sequences, one member sequence at a time.
// It follows the teacher's Next()-bool iteration idiom (see
// utils/fastq.go's Scanner) rather than returning a slice up front.
// Build reads it one member sequence at a time but accumulates every
// symbol in memory before choosing a storage variant.
type RawSymbolProducer interface {
	// Next advances to the next member sequence and reports whether
	// one was available.
	Next() bool

	// Symbols returns the current member sequence's alphabet codes
	// (no trailing separator; the writer inserts those).
	Symbols() []alphabet.Symbol

	// Description returns the current member sequence's description
	// line (the ".des" side table), or "" if none was recorded.
	Description() string

	// Err returns the first error encountered, if any.
	Err() error
}

// sliceProducer is the simplest RawSymbolProducer, used by tests and
// by callers that already hold every sequence in memory.
type sliceProducer struct {
	seqs []sliceSeq
	idx  int
}

type sliceSeq struct {
	symbols []alphabet.Symbol
	desc    string
}

// NewSliceProducer builds a RawSymbolProducer from in-memory symbol
// slices, in order.
func NewSliceProducer(seqs [][]alphabet.Symbol, descs []string) RawSymbolProducer {
	p := &sliceProducer{idx: -1}
	for i, s := range seqs {
		d := ""
		if i < len(descs) {
			d = descs[i]
		}
		p.seqs = append(p.seqs, sliceSeq{symbols: s, desc: d})
	}
	return p
}

func (p *sliceProducer) Next() bool {
	p.idx++
	return p.idx < len(p.seqs)
}

func (p *sliceProducer) Symbols() []alphabet.Symbol { return p.seqs[p.idx].symbols }
func (p *sliceProducer) Description() string        { return p.seqs[p.idx].desc }
func (p *sliceProducer) Err() error                  { return nil }

// reEncodeProducer replays an already-built EncodedSequence's member
// sequences as a RawSymbolProducer, letting cmd/gtmatch fold a loaded
// index's sequences and a fresh query producer into one combined
// sequence for joint suffix sorting (maxpairs only finds pairs within
// a single encseq; there is no cross-encseq variant).
type reEncodeProducer struct {
	e    *EncodedSequence
	n    int
	idx  int
	desc func(int) string
}

// NewReEncodeProducer builds a RawSymbolProducer over e's existing
// member sequences, resolving descriptions via descOf (which may
// return "" when none are known, e.g. after encseq.Open, which does
// not reload the .des side table).
func NewReEncodeProducer(e *EncodedSequence, descOf func(seqnum int) string) RawSymbolProducer {
	return &reEncodeProducer{e: e, n: e.NumSequences(), idx: -1, desc: descOf}
}

func (p *reEncodeProducer) Next() bool {
	p.idx++
	return p.idx < p.n
}

func (p *reEncodeProducer) Symbols() []alphabet.Symbol {
	start, end := p.e.SequenceBounds(p.idx)
	return p.e.ExtractSubstring(Forward, start, end-start)
}

func (p *reEncodeProducer) Description() string {
	if p.desc == nil {
		return ""
	}
	return p.desc(p.idx)
}

func (p *reEncodeProducer) Err() error { return nil }

// chainProducer concatenates several RawSymbolProducers into one,
// exhausting each in order. Used by cmd/gtmatch to present a loaded
// target index plus a freshly streamed query file as a single producer
// for joint suffix sorting.
type chainProducer struct {
	producers []RawSymbolProducer
	cur       int
}

// ChainProducers returns a RawSymbolProducer that yields every member
// sequence of producers[0], then producers[1], and so on.
func ChainProducers(producers ...RawSymbolProducer) RawSymbolProducer {
	return &chainProducer{producers: producers}
}

func (p *chainProducer) Next() bool {
	for p.cur < len(p.producers) {
		if p.producers[p.cur].Next() {
			return true
		}
		p.cur++
	}
	return false
}

func (p *chainProducer) Symbols() []alphabet.Symbol { return p.producers[p.cur].Symbols() }
func (p *chainProducer) Description() string        { return p.producers[p.cur].Description() }

func (p *chainProducer) Err() error {
	for _, pr := range p.producers {
		if err := pr.Err(); err != nil {
			return err
		}
	}
	return nil
}
