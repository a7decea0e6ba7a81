// Copyright 2026, the gtsfx contributors.

package gtsfx_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/encseq"
	"github.com/kshedden/gtsfx/maxpairs"
	"github.com/kshedden/gtsfx/report"
	"github.com/kshedden/gtsfx/sufsort"
)

func encode(t *testing.T, a *alphabet.Alphabet, s string) []alphabet.Symbol {
	t.Helper()
	out := make([]alphabet.Symbol, len(s))
	for i := range s {
		c, ok := a.Encode(s[i])
		if !ok {
			t.Fatalf("bad char %q", s[i])
		}
		out[i] = c
	}
	return out
}

// TestScenarioIndexWriteAndReopen drives scenario 1: build a small
// multi-sequence DNA collection, write it out, reopen it, and confirm
// every symbol round-trips and the payload checksum validates.
func TestScenarioIndexWriteAndReopen(t *testing.T) {
	a := alphabet.DNA()
	seqs := [][]alphabet.Symbol{
		encode(t, a, "ACGTACGTTTGGCCAANNACGT"),
		encode(t, a, "TTTTGGGGCCCCAAAA"),
		encode(t, a, "ACGTACGTACGTACGTACGT"),
	}
	descs := []string{"seq1", "seq2", "seq3"}

	prod := encseq.NewSliceProducer(seqs, descs)
	e, gotDescs, err := encseq.Build(prod, a, encseq.WriteOptions{WithDescriptions: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e.NumSequences() != 3 {
		t.Fatalf("NumSequences = %d, want 3", e.NumSequences())
	}

	dir := t.TempDir()
	indexname := filepath.Join(dir, "idx")
	if err := encseq.WriteFiles(indexname, e, gotDescs); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}

	reopened, closer, err := encseq.Open(indexname, a)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer()

	if reopened.TotalLength() != e.TotalLength() {
		t.Fatalf("reopened length %d, want %d", reopened.TotalLength(), e.TotalLength())
	}
	for i := 0; i < e.TotalLength(); i++ {
		if reopened.CharAt(encseq.Forward, i) != e.CharAt(encseq.Forward, i) {
			t.Fatalf("position %d: reopened symbol %v, want %v", i, reopened.CharAt(encseq.Forward, i), e.CharAt(encseq.Forward, i))
		}
	}
}

// TestScenarioPayloadChecksumCatchesCorruption drives scenario 1's
// error path: a truncated/corrupted .esq must be rejected at Open
// rather than silently handed to the suffix sorter.
func TestScenarioPayloadChecksumCatchesCorruption(t *testing.T) {
	a := alphabet.DNA()
	seqs := [][]alphabet.Symbol{encode(t, a, "ACGTACGTACGTGGGGCCCCTTTT")}
	prod := encseq.NewSliceProducer(seqs, nil)
	e, descs, err := encseq.Build(prod, a, encseq.WriteOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	dir := t.TempDir()
	indexname := filepath.Join(dir, "idx")
	if err := encseq.WriteFiles(indexname, e, descs); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}

	esqPath := indexname + ".esq"
	data, err := os.ReadFile(esqPath)
	if err != nil {
		t.Fatalf("reading .esq: %v", err)
	}
	corrupt := bytes.Clone(data)
	corrupt[0] ^= 0xff
	if err := os.WriteFile(esqPath, corrupt, 0o644); err != nil {
		t.Fatalf("writing corrupted .esq: %v", err)
	}

	if _, _, err := encseq.Open(indexname, a); err == nil {
		t.Fatal("Open of a corrupted .esq succeeded, want a checksum mismatch error")
	}
}

// TestScenarioSuffixSortAndMaximalPairs drives scenarios 2-3: sort the
// suffixes of a small self-repetitive DNA sequence and confirm
// maxpairs.Find recovers the known maximal repeat.
func TestScenarioSuffixSortAndMaximalPairs(t *testing.T) {
	a := alphabet.DNA()
	seqs := [][]alphabet.Symbol{encode(t, a, "ACGTACGTNNNNACGTACGT")}
	prod := encseq.NewSliceProducer(seqs, nil)
	e, _, err := encseq.Build(prod, a, encseq.WriteOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	res, err := sufsort.Sort(e, sufsort.Options{NumWorkers: 2, WithLCP: true})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if len(res.Suftab) != e.TotalLength() {
		t.Fatalf("Suftab length %d, want %d", len(res.Suftab), e.TotalLength())
	}
	for i := 1; i < len(res.Suftab); i++ {
		if !suffixLess(e, res.Suftab[i-1], res.Suftab[i]) {
			t.Fatalf("Suftab not sorted at index %d: %d, %d", i, res.Suftab[i-1], res.Suftab[i])
		}
	}

	pairs := maxpairs.Find(e, res.Suftab, res.LCPAt, 8)
	found := false
	for _, p := range pairs {
		if p.Length >= 8 {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one maximal pair of length >= 8 for the repeated ACGTACGT flanks")
	}
}

func suffixLess(e *encseq.EncodedSequence, posA, posB int32) bool {
	for i := 0; ; i++ {
		pa, pb := int(posA)+i, int(posB)+i
		aDone := pa >= e.TotalLength()
		bDone := pb >= e.TotalLength()
		if aDone || bDone {
			return aDone && !bDone || (aDone == bDone && posA < posB)
		}
		ca, cb := e.CharAt(encseq.Forward, pa), e.CharAt(encseq.Forward, pb)
		if ca != cb {
			return ca < cb
		}
	}
}

// TestScenarioTargetQueryMatching drives scenario 4: a query matches
// a known substring of a target, reported through the same
// combined-sort-and-filter approach cmd/gtmatch uses.
func TestScenarioTargetQueryMatching(t *testing.T) {
	a := alphabet.DNA()
	target := encode(t, a, "GGGGACGTACGTACGTACGTTTTTCCCC")
	query := encode(t, a, "ACGTACGTACGTACGT")

	targetProd := encseq.NewSliceProducer([][]alphabet.Symbol{target}, []string{"target1"})
	targetSeq, _, err := encseq.Build(targetProd, a, encseq.WriteOptions{})
	if err != nil {
		t.Fatalf("Build target: %v", err)
	}

	targetProducer := encseq.NewReEncodeProducer(targetSeq, func(int) string { return "target1" })
	queryProducer := encseq.NewSliceProducer([][]alphabet.Symbol{query}, []string{"query1"})
	combined, _, err := encseq.Build(encseq.ChainProducers(targetProducer, queryProducer), a, encseq.WriteOptions{})
	if err != nil {
		t.Fatalf("Build combined: %v", err)
	}

	res, err := sufsort.Sort(combined, sufsort.Options{NumWorkers: 2, WithLCP: true})
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}

	targetStart, targetEnd := combined.SequenceBounds(0)
	queryStart, _ := combined.SequenceBounds(1)

	pairs := maxpairs.Find(combined, res.Suftab, res.LCPAt, 10)
	reporter := report.NewReporter(16, 0.01)
	for _, p := range pairs {
		pos1, pos2 := p.Pos1, p.Pos2
		inTarget1 := pos1 >= targetStart && pos1 < targetEnd
		inTarget2 := pos2 >= targetStart && pos2 < targetEnd
		if inTarget1 == inTarget2 {
			continue // both in target or both in query: not a cross match
		}
		targetPos, queryPos := pos1, pos2
		if !inTarget1 {
			targetPos, queryPos = pos2, pos1
		}
		reporter.Add(report.Match{
			QueryName:    "query1",
			QueryStart:   queryPos - queryStart,
			TargetSeqnum: 0,
			TargetStart:  targetPos - targetStart,
			Length:       p.Length,
			Score:        2 * p.Length,
		})
	}

	if reporter.Len() == 0 {
		t.Fatal("expected at least one target/query cross match")
	}

	var buf bytes.Buffer
	if err := reporter.WriteSorted(&buf); err != nil {
		t.Fatalf("WriteSorted: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("WriteSorted produced no output")
	}
}
