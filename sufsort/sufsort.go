// Copyright 2026, the gtsfx contributors.

// Package sufsort builds the suffix array (and, optionally, the LCP
// array) of an encseq.EncodedSequence: bucket distribution by a
// chosen prefix length (buckettable), concurrent per-bucket sorting
// via a worker pool (the channel-semaphore pattern of
// muscato_confirm/muscato_screen), and a final Kasai LCP pass. Each
// bucket is itself sorted by a size-dispatched tier (insertion sort,
// counting-sort/radix distribution, or a Bentley-Sedgewick ternary
// split), falling back past a depth budget to a difference-cover
// Sampler's O(depth-of-cover) comparator when one was requested.
// Grounded on original_source/src/match/sfx-bentsedg.c (ternary-split
// bucket sort and its size-based dispatch), sfx-suffixer.c (overall
// two-pass pipeline), and esa-maxpairs.c's LCP side-channel convention
// (values >= 255 spill into an exception table instead of widening
// every entry).
package sufsort

import (
	"sort"
	"sync"

	"github.com/kshedden/gtsfx"
	"github.com/kshedden/gtsfx/bitpack"
	"github.com/kshedden/gtsfx/buckettable"
	"github.com/kshedden/gtsfx/diffcover"
	"github.com/kshedden/gtsfx/encseq"
	"github.com/kshedden/gtsfx/partsplit"
)

// Options controls the sort.
type Options struct {
	// NumWorkers bounds how many buckets are sorted concurrently; <=0
	// means sequential (1 worker).
	NumWorkers int

	// WithLCP requests the companion LCP array.
	WithLCP bool

	// PrefixLength overrides buckettable.ChoosePrefixLength's budget
	// estimate; 0 means let it choose.
	PrefixLength int

	// Samples, if non-zero, is the difference-cover modulus (a power
	// of two, see diffcover.New) each bucket's sort falls back to once
	// it has recursed sortmaxdepth characters deep without resolving a
	// tie — the -samples flag's documented "difference-cover sample
	// modulus (0: full sort)" behavior.
	Samples int
}

// Result holds the sorted suffix array and, if requested, the LCP
// array in the teacher's "exception table for rare large values"
// shape: LCP[i] is min(actual lcp, 255), and Exceptions[i] holds the
// true value whenever LCP[i] == 255 (spec's ".llv" side file, carried
// in memory here and written to <indexname>.llv by WriteLCP).
type Result struct {
	Suftab     []int32
	LCP        []byte
	Exceptions map[int]int
}

const lcpOverflow = 255

// Sort builds the suffix array of enc.
func Sort(enc *encseq.EncodedSequence, opts Options) (*Result, error) {
	n := enc.TotalLength()
	numofchars := enc.Alphabet().Size

	prefixlength := opts.PrefixLength
	if prefixlength == 0 {
		prefixlength = buckettable.ChoosePrefixLength(numofchars, int64(n))
	}

	var sampler *diffcover.Sampler
	if opts.Samples != 0 {
		table, err := diffcover.New(opts.Samples)
		if err != nil {
			return nil, gtsfx.Wrap(gtsfx.Misuse, err, "sufsort: building difference cover")
		}
		sampler = diffcover.NewSampler(table, n)
		sampler.SortSample(enc, prefixlength, numofchars)
	}

	bt := buckettable.NewTable(numofchars, prefixlength)
	codes := make([]int64, n)
	for pos := 0; pos < n; pos++ {
		code, _ := buckettable.PrefixCode(enc, pos, prefixlength, numofchars)
		codes[pos] = code
		bt.Add(code)
	}
	bt.Finalize()

	suftab := make([]int32, n)
	cursor := make([]int64, bt.NumBuckets())
	for code := int64(0); code < bt.NumBuckets(); code++ {
		cursor[code] = bt.LeftBorder(code)
	}
	for pos := 0; pos < n; pos++ {
		c := codes[pos]
		suftab[cursor[c]] = int32(pos)
		cursor[c]++
	}

	counts := make([]int64, bt.NumBuckets())
	for code := int64(0); code < bt.NumBuckets(); code++ {
		counts[code] = bt.BucketSize(code)
	}
	numWorkers := opts.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	parts := partsplit.Split(counts, numWorkers)

	limit := make(chan bool, numWorkers)
	var wg sync.WaitGroup
	for _, p := range parts {
		if p.Width < 2 {
			continue
		}
		wg.Add(1)
		limit <- true
		go func(p partsplit.Part) {
			defer wg.Done()
			defer func() { <-limit }()
			dispatchSort(enc, suftab[p.Offset:p.Offset+p.Width], prefixlength, sampler)
		}(p)
	}
	wg.Wait()

	res := &Result{Suftab: suftab}
	if opts.WithLCP {
		lcp, exc := computeLCP(enc, suftab)
		res.LCP = lcp
		res.Exceptions = exc
	}
	return res, nil
}

const (
	// insertionSortThreshold is the small-bucket cutoff below which
	// insertion sort's low constant factor beats any partitioning
	// scheme's setup cost (sfx-bentsedg.h's ushortsort tier).
	insertionSortThreshold = 12

	// countingSortThreshold is the cutoff above which a bucket
	// dispatches to the ternary Bentley-Sedgewick split instead of a
	// flat counting-sort (radix) distribution pass: the recursive
	// counting sort revisits every member at every depth, acceptable
	// for modest buckets but wasteful once a bucket is large enough
	// that most comparisons agree on the sampled pivot early.
	countingSortThreshold = 512

	// sortmaxdepth bounds how many characters the counting-sort and
	// Bentley-Sedgewick tiers will recurse through one symbol at a
	// time before handing a still-unresolved tie to the bucket's full
	// comparator — comparePos, or a difference-cover Sampler's
	// O(depth-of-cover) Compare when -samples requested one. Without
	// this cutoff a long tandem repeat would force character-at-a-time
	// recursion all the way down its period.
	sortmaxdepth = 64

	endedKey = -1 // charKeyAt's sentinel for "suffix ran out of symbols here"
)

// dispatchSort routes a bucket to the sort tier appropriate for its
// size, matching spec's insertion-sort/counting-sort/Bentley-Sedgewick
// dispatch: every member of bucket is already known to agree on its
// first depth symbols (the caller's bucket-table prefix, or an outer
// dispatchSort call's own partition), so only characters from depth
// onward remain to be compared.
func dispatchSort(enc *encseq.EncodedSequence, bucket []int32, depth int, sampler *diffcover.Sampler) {
	n := len(bucket)
	if n < 2 {
		return
	}
	if n <= insertionSortThreshold || depth >= sortmaxdepth {
		insertionSort(enc, bucket, sampler, depth >= sortmaxdepth)
		return
	}
	if n <= countingSortThreshold {
		countingSortDispatch(enc, bucket, depth, sampler)
		return
	}
	bentleySedgewick(enc, bucket, depth, sampler)
}

// insertionSort is the small-bucket tier: it never repartitions
// the slice, just walks it once doing adjacent swaps, which is both
// correct and cheap once a bucket is down to a handful of elements.
// useSampler switches the pairwise comparator from comparePos (a
// fresh, from-scratch lexicographic compare) to sampler.Compare (the
// O(depth-of-cover) difference-cover comparator) once dispatchSort has
// already recursed past sortmaxdepth characters looking for a
// resolution — the point at which re-scanning from the start of the
// suffix is more wasteful than the cover lookup.
func insertionSort(enc *encseq.EncodedSequence, bucket []int32, sampler *diffcover.Sampler, useSampler bool) {
	for i := 1; i < len(bucket); i++ {
		for j := i; j > 0 && bucketCompare(enc, sampler, useSampler, bucket[j-1], bucket[j]) > 0; j-- {
			bucket[j-1], bucket[j] = bucket[j], bucket[j-1]
		}
	}
}

func bucketCompare(enc *encseq.EncodedSequence, sampler *diffcover.Sampler, useSampler bool, a, b int32) int {
	if useSampler && sampler != nil {
		return sampler.Compare(enc, int(a), int(b))
	}
	cmp, _ := comparePos(enc, int(a), int(b))
	return cmp
}

// charKeyAt returns the ordering key for bucket[i]'s symbol at
// pos+depth: the symbol's code, or endedKey if the suffix has already
// run out of symbols there (sorting first, the same out-of-range
// convention comparePos uses).
func charKeyAt(enc *encseq.EncodedSequence, pos, depth int) int {
	p := pos + depth
	if p >= enc.TotalLength() {
		return endedKey
	}
	return int(enc.SequentialCharAt(p))
}

// countingSortDispatch is the mid-size tier: one counting-sort
// (stable radix) pass distributes bucket by the symbol at depth, then
// dispatchSort recurses into each resulting run at depth+1 (runs at
// the "ended" key need no further sorting — every member there is
// identical, a suffix that terminated at exactly this depth).
func countingSortDispatch(enc *encseq.EncodedSequence, bucket []int32, depth int, sampler *diffcover.Sampler) {
	groups := make(map[int][]int32)
	var keys []int
	for _, p := range bucket {
		k := charKeyAt(enc, int(p), depth)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], p)
	}
	sort.Ints(keys)
	i := 0
	for _, k := range keys {
		g := groups[k]
		copy(bucket[i:i+len(g)], g)
		i += len(g)
	}
	i = 0
	for _, k := range keys {
		width := len(groups[k])
		sub := bucket[i : i+width]
		if k != endedKey {
			dispatchSort(enc, sub, depth+1, sampler)
		}
		i += width
	}
}

// bentleySedgewick is the large-bucket tier: a ternary (3-way)
// multikey quicksort partitioning on the symbol at depth, the
// technique from Bentley & Sedgewick's "Fast algorithms for sorting
// and searching strings" that sfx-bentsedg.c's bucket sorter
// implements. The "<" and ">" partitions re-enter dispatchSort at the
// same depth (they may now be small enough for a cheaper tier); the
// "=" partition recurses at depth+1.
func bentleySedgewick(enc *encseq.EncodedSequence, bucket []int32, depth int, sampler *diffcover.Sampler) {
	if len(bucket) < 2 {
		return
	}
	pivot := charKeyAt(enc, int(bucket[len(bucket)/2]), depth)
	lt, gt, i := 0, len(bucket)-1, 0
	for i <= gt {
		k := charKeyAt(enc, int(bucket[i]), depth)
		switch {
		case k < pivot:
			bucket[lt], bucket[i] = bucket[i], bucket[lt]
			lt++
			i++
		case k > pivot:
			bucket[i], bucket[gt] = bucket[gt], bucket[i]
			gt--
		default:
			i++
		}
	}
	dispatchSort(enc, bucket[:lt], depth, sampler)
	if pivot != endedKey {
		dispatchSort(enc, bucket[lt:gt+1], depth+1, sampler)
	}
	dispatchSort(enc, bucket[gt+1:], depth, sampler)
}

// comparePos returns (-1/0/1, lcp) comparing the suffixes starting at
// a and b. It compares 32-symbol words at a time via
// EncodedSequence.Extract2BitWord's bit-word primitive, falling back
// to one CharAt comparison per symbol once either suffix runs into a
// special (wildcard/separator) or the sequence end, since specials
// compare by alphabet rank rather than 2-bit code.
func comparePos(enc *encseq.EncodedSequence, a, b int) (int, int) {
	if a == b {
		return 0, enc.TotalLength() - a
	}
	total := 0
	for {
		wa, na := enc.Extract2BitWord(a+total, true)
		wb, nb := enc.Extract2BitWord(b+total, true)
		limit := na
		if nb < limit {
			limit = nb
		}
		if limit > 0 {
			// Compare only the trustworthy leading symbols of this word.
			shift := uint(64 - 2*limit)
			ta := wa >> shift
			tb := wb >> shift
			if ta != tb {
				cp := bitpack.CommonPrefixSymbols(ta<<shift, tb<<shift)
				return cmpUint64(ta, tb), total + cp
			}
			total += limit
			if limit == bitpack.SymbolsPerWord {
				continue
			}
		}
		// Fell off the fast path: compare symbol by symbol until a
		// mismatch or until both suffixes leave the sequence/enter a
		// special symbol whose rank differs.
		for {
			pa, pb := a+total, b+total
			inA := pa < enc.TotalLength()
			inB := pb < enc.TotalLength()
			if !inA && !inB {
				return 0, total
			}
			if !inA {
				return -1, total
			}
			if !inB {
				return 1, total
			}
			ca, cb := enc.SequentialCharAt(pa), enc.SequentialCharAt(pb)
			if ca != cb {
				if ca < cb {
					return -1, total
				}
				return 1, total
			}
			total++
			if !enc.Alphabet().IsSpecial(ca) {
				// Give the fast path another chance once we're back
				// in plain-symbol territory.
				break
			}
		}
	}
}

func cmpUint64(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// computeLCP runs Kasai's algorithm: rank[suftab[i]] = i, then walk
// positions in text order extending the previous LCP value by at most
// one comparison step per position (amortized O(n) total).
func computeLCP(enc *encseq.EncodedSequence, suftab []int32) ([]byte, map[int]int) {
	n := len(suftab)
	rank := make([]int32, n)
	for i, p := range suftab {
		rank[p] = int32(i)
	}
	lcp := make([]byte, n)
	exceptions := make(map[int]int)
	h := 0
	for i := 0; i < n; i++ {
		if rank[i] == 0 {
			h = 0
			continue
		}
		j := int(suftab[rank[i]-1])
		for i+h < n && j+h < n && enc.SequentialCharAt(i+h) == enc.SequentialCharAt(j+h) {
			h++
		}
		idx := int(rank[i])
		if h >= lcpOverflow {
			lcp[idx] = lcpOverflow
			exceptions[idx] = h
		} else {
			lcp[idx] = byte(h)
		}
		if h > 0 {
			h--
		}
	}
	return lcp, exceptions
}

// LCPAt returns the true LCP value at suffix-array index i, resolving
// the exception table transparently.
func (r *Result) LCPAt(i int) int {
	if r.LCP == nil {
		return -1
	}
	if v := r.LCP[i]; v == lcpOverflow {
		if ev, ok := r.Exceptions[i]; ok {
			return ev
		}
		return int(lcpOverflow)
	} else {
		return int(v)
	}
}
