// Copyright 2026, the gtsfx contributors.

// gtmatch loads a gtsfx index built by gtindex and reports maximal
// matches between it and one or more query FASTA files, given as
// positional arguments. Its flag set follows spec section 6's
// reporter-tool surface; the
// JSON-config-overlay convention follows cmd/muscato/main.go's
// handleArgs pattern.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/buckettable"
	"github.com/kshedden/gtsfx/complexity"
	"github.com/kshedden/gtsfx/encseq"
	"github.com/kshedden/gtsfx/gtconfig"
	"github.com/kshedden/gtsfx/greedyext"
	"github.com/kshedden/gtsfx/maxpairs"
	"github.com/kshedden/gtsfx/report"
	"github.com/kshedden/gtsfx/sufsort"
	"github.com/kshedden/gtsfx/xdropext"
	"github.com/pkg/profile"
)

// defaultXdrop is the x-drop frontier's "below" threshold, spec
// section 4.8's documented default.
const defaultXdrop = 5

func main() {
	var (
		minlen        = flag.Int("l", 20, "minimum reported match length")
		forward       = flag.Bool("f", false, "report forward-strand matches")
		reverse       = flag.Bool("r", false, "report reverse-complement matches")
		seedlength    = flag.Int("seedlength", 14, "minimum seed length for the maximal-pair scan")
		errPercent    = flag.Int("err", 10, "maximum error rate (percent) for an extended match")
		maxalilendiff = flag.Int("maxalilendiff", 30, "greedy extension diagonal-lag prune threshold")
		extendXdrop   = flag.Bool("extendxdrop", false, "extend seeds with the x-drop extender")
		extendGreedy  = flag.Bool("extendgreedy", false, "extend seeds with the trimmed greedy extender")
		samples       = flag.Int("samples", 0, "difference-cover sample modulus (0: full sort)")
		spm           = flag.Bool("spm", false, "suffix-prefix match mode instead of maximal-pair mode")
		scan          = flag.Bool("scan", false, "recorded in the configuration only; the index is always memory-mapped")
		minComplexity = flag.Int("mincomplexity", 0, "reject seeds whose flanking region has fewer than this many distinct dinucleotides (0: disabled)")
		ii            = flag.String("ii", "", "index name to load (required)")
		protein       = flag.Bool("protein", false, "the index and queries use the protein alphabet")
		verbose       = flag.Bool("v", false, "verbose logging to stderr")
		profileRun    = flag.Bool("profile", false, "enable CPU profiling for this run")
		configFile    = flag.String("ConfigFileName", "", "optional JSON config file overlaying these flags")
	)
	flag.Parse()
	queries := flag.Args()

	cfg := gtconfig.MatchConfig{
		IndexName:     *ii,
		Queries:       queries,
		MinLength:     *minlen,
		Forward:       *forward,
		Reverse:       *reverse,
		SeedLength:    *seedlength,
		ErrPercent:    *errPercent,
		MaxAliLenDiff: *maxalilendiff,
		ExtendXdrop:   *extendXdrop,
		ExtendGreedy:  *extendGreedy,
		Samples:       *samples,
		SPM:           *spm,
		Scan:          *scan,
		MinComplexity: *minComplexity,
		Verbose:       *verbose,
	}
	if *configFile != "" {
		gtconfig.ReadJSON(*configFile, &cfg)
	}

	if cfg.IndexName == "" {
		fmt.Fprintln(os.Stderr, "gtmatch: -ii is required")
		os.Exit(2)
	}
	if len(cfg.Queries) == 0 {
		fmt.Fprintln(os.Stderr, "gtmatch: at least one query file is required")
		os.Exit(2)
	}
	if cfg.ExtendXdrop && cfg.ExtendGreedy {
		fmt.Fprintln(os.Stderr, "gtmatch: -extendxdrop and -extendgreedy are mutually exclusive")
		os.Exit(2)
	}
	if !cfg.Forward && !cfg.Reverse {
		cfg.Forward = true
		cfg.Reverse = true
	}

	if *profileRun {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	logger := log.New(os.Stderr, "gtmatch: ", log.Ltime)

	a := alphabet.DNA()
	if *protein {
		a = alphabet.Protein()
	}

	enc, closeFn, err := encseq.Open(cfg.IndexName, a)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeFn()
	targetSeqs := enc.NumSequences()

	pbt, err := sufsort.ReadPBT(cfg.IndexName, a.Size)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatal(err)
		}
		pbt = nil // index was built without -lcp: no pruning table to load
	} else if cfg.Verbose {
		logger.Printf("loaded %s.pbt (depth %d)", cfg.IndexName, pbt.Depth())
	}

	queryProd := encseq.NewFastaProducer(cfg.Queries, a)
	queryDescs, querySeqs, err := collectQueries(queryProd)
	if err != nil {
		logger.Fatal(err)
	}
	if cfg.Verbose {
		logger.Printf("loaded index %q (%d sequences), %d query records", cfg.IndexName, targetSeqs, len(querySeqs))
	}

	reporter := report.NewReporter(1024, 0.001)

	if cfg.Forward {
		if err := runPass(enc, pbt, targetSeqs, querySeqs, queryDescs, a, cfg, reporter, false, logger); err != nil {
			logger.Fatal(err)
		}
	}
	if cfg.Reverse && a.IsDNA() {
		rcSeqs := make([][]alphabet.Symbol, len(querySeqs))
		for i, s := range querySeqs {
			rcSeqs[i] = reverseComplement(s, a)
		}
		if err := runPass(enc, pbt, targetSeqs, rcSeqs, queryDescs, a, cfg, reporter, true, logger); err != nil {
			logger.Fatal(err)
		}
	}

	if err := reporter.WriteSorted(os.Stdout); err != nil {
		logger.Fatal(err)
	}
	if cfg.Verbose {
		logger.Printf("reported %d matches", reporter.Len())
	}
}

func collectQueries(prod encseq.RawSymbolProducer) ([]string, [][]alphabet.Symbol, error) {
	var descs []string
	var seqs [][]alphabet.Symbol
	for prod.Next() {
		descs = append(descs, prod.Description())
		syms := make([]alphabet.Symbol, len(prod.Symbols()))
		copy(syms, prod.Symbols())
		seqs = append(seqs, syms)
	}
	return descs, seqs, prod.Err()
}

func reverseComplement(s []alphabet.Symbol, a *alphabet.Alphabet) []alphabet.Symbol {
	out := make([]alphabet.Symbol, len(s))
	n := len(s)
	for i, sym := range s {
		c := sym
		if !a.IsSpecial(sym) {
			c = a.Complement(sym)
		}
		out[n-1-i] = c
	}
	return out
}

// runPass builds one combined encseq of the target index's sequences
// followed by querySeqs, sorts it, finds maximal pairs (or
// suffix-prefix matches) across the target/query boundary, extends
// them if requested, and reports them. When pbt is non-nil, it prunes
// a seed before attempting extension whenever the target position's
// depth-pbt.Depth() bucket cannot possibly reach the remaining length
// -l still requires — positions in enc's own coordinate space equal
// positions in combined's target region, since combined's target
// portion is enc replayed verbatim by encseq.NewReEncodeProducer.
func runPass(enc *encseq.EncodedSequence, pbt *buckettable.PrecomputedBound, targetSeqs int, querySeqs [][]alphabet.Symbol, queryDescs []string,
	a *alphabet.Alphabet, cfg gtconfig.MatchConfig, reporter *report.Reporter, reverseStrand bool, logger *log.Logger) error {

	targetProd := encseq.NewReEncodeProducer(enc, func(int) string { return "" })
	queryProd := encseq.NewSliceProducer(querySeqs, queryDescs)
	combined, _, err := encseq.Build(encseq.ChainProducers(targetProd, queryProd), a, encseq.WriteOptions{})
	if err != nil {
		return err
	}

	sortOpts := sufsort.Options{NumWorkers: 4, WithLCP: true, Samples: cfg.Samples}
	res, err := sufsort.Sort(combined, sortOpts)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.Printf("pass (reverse=%v): combined length %d, %d target sequences", reverseStrand, combined.TotalLength(), targetSeqs)
	}

	if cfg.SPM {
		return reportSPM(combined, res, targetSeqs, queryDescs, cfg, reporter, reverseStrand)
	}

	pairs := maxpairs.Find(combined, res.Suftab, res.LCPAt, cfg.SeedLength)
	queryBoundary := targetEnd(combined, targetSeqs)

	for _, p := range pairs {
		pos1, pos2, length := p.Pos1, p.Pos2, p.Length
		if pos1 >= queryBoundary && pos2 >= queryBoundary {
			continue // both sides fall in the query set, not a target hit
		}
		if pos1 < queryBoundary && pos2 < queryBoundary {
			continue // both sides fall in the target, not a query hit
		}
		targetPos, queryPos := pos1, pos2
		if targetPos >= queryBoundary {
			targetPos, queryPos = pos2, pos1
		}

		targetSeqnum, targetSeqStart := combined.SeqnumOfPosition(targetPos)
		queryGlobalSeqnum, queryGlobalStart := combined.SeqnumOfPosition(queryPos)
		querySeqnum := queryGlobalSeqnum - targetSeqs
		if querySeqnum < 0 || querySeqnum >= len(querySeqs) {
			continue
		}
		if cfg.MinComplexity > 0 {
			seed := combined.ExtractSubstring(encseq.Forward, targetPos, length)
			if complexity.IsLowComplexity(seed, a, cfg.MinComplexity) {
				continue
			}
		}

		if pbt != nil {
			if remaining := cfg.MinLength - length; remaining > 0 && targetPos+pbt.Depth() <= queryBoundary {
				code, special := buckettable.PrefixCode(enc, targetPos, pbt.Depth(), a.Size)
				if !special && pbt.CannotReach(code, remaining) {
					continue
				}
			}
		}

		score, distance, extLen := extendSeed(combined, a, cfg, targetPos, queryPos, length)
		if extLen < cfg.MinLength {
			continue
		}
		if cfg.ErrPercent > 0 && distance >= 0 {
			rate := 200 * distance / maxInt(extLen, 1)
			if rate > cfg.ErrPercent {
				continue
			}
		}

		m := report.Match{
			QueryName:    queryDescs[querySeqnum],
			QueryStart:   queryPos - queryGlobalStart,
			TargetSeqnum: targetSeqnum,
			TargetStart:  targetPos - targetSeqStart,
			Length:       extLen,
			Score:        score,
			Reverse:      reverseStrand,
		}
		reporter.Add(m)
	}
	return nil
}

// reportSPM reports -spm mode matches: a suffix of one member sequence
// equalling a prefix of another member sequence, restricted to
// seqA/seqB pairs that cross the target/query boundary (a suffix of
// the target matching a prefix of a query, or vice versa).
func reportSPM(combined *encseq.EncodedSequence, res *sufsort.Result, targetSeqs int, queryDescs []string, cfg gtconfig.MatchConfig, reporter *report.Reporter, reverseStrand bool) error {
	for _, m := range maxpairs.SuffixPrefixMatch(combined, res.Suftab, res.LCPAt, cfg.SeedLength) {
		if m.Length < cfg.MinLength {
			continue
		}
		aIsTarget := m.SeqA < targetSeqs
		bIsTarget := m.SeqB < targetSeqs
		if aIsTarget == bIsTarget {
			continue // both target or both query: not a query hit
		}
		targetSeqnum, querySeqnum := m.SeqA, m.SeqB-targetSeqs
		if !aIsTarget {
			targetSeqnum, querySeqnum = m.SeqB, m.SeqA-targetSeqs
		}
		if querySeqnum < 0 || querySeqnum >= len(queryDescs) {
			continue
		}
		reporter.Add(report.Match{
			QueryName:    queryDescs[querySeqnum],
			TargetSeqnum: targetSeqnum,
			Length:       m.Length,
			Score:        2 * m.Length,
			Reverse:      reverseStrand,
		})
	}
	return nil
}

// targetEnd returns the first absolute position belonging to the
// combined sequence's (targetSeqs)th member, i.e. one past the last
// target position.
func targetEnd(e *encseq.EncodedSequence, targetSeqs int) int {
	if targetSeqs >= e.NumSequences() {
		return e.TotalLength()
	}
	start, _ := e.SequenceBounds(targetSeqs)
	return start
}

// extendSeed extends a seed pair left and right (when an extension
// mode is requested) and returns its score, distance (-1 if not
// computed), and total aligned length.
func extendSeed(e *encseq.EncodedSequence, a *alphabet.Alphabet, cfg gtconfig.MatchConfig, targetPos, queryPos, seedLen int) (score, distance, length int) {
	if !cfg.ExtendXdrop && !cfg.ExtendGreedy {
		return 2 * seedLen, -1, seedLen
	}

	tSeqnum, tStart := e.SeqnumOfPosition(targetPos)
	_, tEnd := e.SequenceBounds(tSeqnum)
	qSeqnum, qStart := e.SeqnumOfPosition(queryPos)
	_, qEnd := e.SequenceBounds(qSeqnum)

	leftBoundT, leftBoundQ := targetPos-tStart, queryPos-qStart
	leftBound := minInt(leftBoundT, leftBoundQ)
	rightBoundT, rightBoundQ := tEnd-(targetPos+seedLen), qEnd-(queryPos+seedLen)
	rightBound := minInt(rightBoundT, rightBoundQ)

	leftU := reverseSymbols(e.ExtractSubstring(encseq.Forward, targetPos-leftBound, leftBound))
	leftV := reverseSymbols(e.ExtractSubstring(encseq.Forward, queryPos-leftBound, leftBound))
	rightU := e.ExtractSubstring(encseq.Forward, targetPos+seedLen, rightBound)
	rightV := e.ExtractSubstring(encseq.Forward, queryPos+seedLen, rightBound)

	if cfg.ExtendXdrop {
		scores := xdropext.DefaultScores
		left := xdropext.Extend(leftU, leftV, a, scores, defaultXdrop)
		right := xdropext.Extend(rightU, rightV, a, scores, defaultXdrop)
		total := seedLen*scores.Match + left.Score + right.Score
		return total, -1, left.Extent + seedLen + right.Extent
	}

	left := greedyext.Extend(leftU, leftV, a, cfg.MaxAliLenDiff)
	right := greedyext.Extend(rightU, rightV, a, cfg.MaxAliLenDiff)
	totalLen := left.ExtentU + seedLen + right.ExtentU
	totalDist := left.Distance + right.Distance
	return 2 * (totalLen - totalDist), totalDist, totalLen
}

func reverseSymbols(s []alphabet.Symbol) []alphabet.Symbol {
	out := make([]alphabet.Symbol, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
