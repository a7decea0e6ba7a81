// Copyright 2026, the gtsfx contributors.

// Package report formats query-match records in canonical order and
// suppresses duplicate reports (the same match can be rediscovered
// from more than one seed, or from both strands of a query) with a
// Bloom filter front door before the exact final check, the same
// probabilistic-prefilter-then-confirm shape muscato/muscato.go uses
// when screening reads against a k-mer database, repurposed here from
// read screening to match-record deduplication.
package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/willf/bloom"
)

// Match is one reported alignment between a query and the index.
type Match struct {
	QueryName    string
	QueryStart   int
	TargetSeqnum int
	TargetStart  int
	Length       int
	Score        int
	Reverse      bool
}

func (m Match) key() []byte {
	return []byte(fmt.Sprintf("%s|%d|%d|%d|%d|%v", m.QueryName, m.QueryStart, m.TargetSeqnum, m.TargetStart, m.Length, m.Reverse))
}

// Less orders matches canonically: by query name, then query start,
// then target sequence, then target start — the order spec section 8
// requires reports to be stable under for reproducible test fixtures.
func (m Match) Less(o Match) bool {
	if m.QueryName != o.QueryName {
		return m.QueryName < o.QueryName
	}
	if m.QueryStart != o.QueryStart {
		return m.QueryStart < o.QueryStart
	}
	if m.TargetSeqnum != o.TargetSeqnum {
		return m.TargetSeqnum < o.TargetSeqnum
	}
	return m.TargetStart < o.TargetStart
}

// Reporter accumulates matches, deduplicates them via a Bloom-filter
// prefilter backed by an exact confirm set (so the filter's false
// positives never cause a real match to be dropped, only an
// occasional redundant exact-set lookup), and writes them out sorted.
type Reporter struct {
	filter  *bloom.BloomFilter
	seen    map[string]bool
	matches []Match
}

// NewReporter sizes its Bloom filter for an expected number of raw
// match candidates (before dedup) at the given false-positive rate,
// mirroring muscato_combine_filter/main.go's
// bloom.EstimateParameters(...) sizing convention.
func NewReporter(expectedMatches int, falsePositiveRate float64) *Reporter {
	if expectedMatches < 1 {
		expectedMatches = 1
	}
	m, k := bloom.EstimateParameters(uint(expectedMatches), falsePositiveRate)
	return &Reporter{
		filter: bloom.New(m, k),
		seen:   make(map[string]bool),
	}
}

// Add records a match if it has not been seen before. It returns
// false if the match was a duplicate.
func (r *Reporter) Add(m Match) bool {
	k := m.key()
	if !r.filter.Test(k) {
		r.filter.Add(k)
		r.seen[string(k)] = true
		r.matches = append(r.matches, m)
		return true
	}
	// The filter said "maybe seen": confirm against the exact set
	// before trusting that, since a false positive here would
	// silently drop a genuine match.
	if r.seen[string(k)] {
		return false
	}
	r.filter.Add(k)
	r.seen[string(k)] = true
	r.matches = append(r.matches, m)
	return true
}

// Len returns the number of distinct matches recorded so far.
func (r *Reporter) Len() int { return len(r.matches) }

// WriteSorted writes every recorded match to w in canonical order, one
// per line, tab-separated: query name, query start, target sequence
// number, target start, length, score, strand.
func (r *Reporter) WriteSorted(w io.Writer) error {
	sort.Slice(r.matches, func(i, j int) bool { return r.matches[i].Less(r.matches[j]) })
	bw := bufio.NewWriter(w)
	for _, m := range r.matches {
		strand := "+"
		if m.Reverse {
			strand = "-"
		}
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			m.QueryName, m.QueryStart, m.TargetSeqnum, m.TargetStart, m.Length, m.Score, strand); err != nil {
			return err
		}
	}
	return bw.Flush()
}
