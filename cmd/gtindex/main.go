// Copyright 2026, the gtsfx contributors.

// gtindex builds a gtsfx encoded-sequence index from one or more
// FASTA files. Its flag set and JSON-config-overlay convention follow
// cmd/muscato/main.go's handleArgs pattern.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/encseq"
	"github.com/kshedden/gtsfx/gtconfig"
	"github.com/kshedden/gtsfx/sufsort"
	"github.com/pkg/profile"
)

func main() {
	var (
		indexname  = flag.String("indexname", "", "name of the index to create (required)")
		dir        = flag.String("dir", "auto", "storage variant: direct, bytecompress, bitaccess, uchar-ranges, ushort-ranges, uint32-ranges, or auto")
		prefixlen  = flag.Int("pl", 0, "bucket prefix length, 0 selects automatically")
		protein    = flag.Bool("protein", false, "build a protein index (default: DNA)")
		withLCP    = flag.Bool("lcp", false, "also build the LCP array")
		withBWT    = flag.Bool("bwt", false, "also build the Burrows-Wheeler transform")
		workers    = flag.Int("workers", 4, "number of concurrent bucket-sort workers")
		verbose    = flag.Bool("v", false, "verbose logging to stderr")
		profileRun = flag.Bool("profile", false, "enable CPU profiling for this run")
		configFile = flag.String("ConfigFileName", "", "optional JSON config file overlaying these flags")
	)
	flag.Parse()
	dbfiles := flag.Args()

	cfg := gtconfig.IndexConfig{
		DBFiles:      dbfiles,
		IndexName:    *indexname,
		StorageHint:  *dir,
		PrefixLength: *prefixlen,
		WithLCP:      *withLCP,
		WithBWT:      *withBWT,
		Alphabet:     "dna",
	}
	if *protein {
		cfg.Alphabet = "protein"
	}
	if *configFile != "" {
		gtconfig.ReadJSON(*configFile, &cfg)
	}

	if cfg.IndexName == "" {
		fmt.Fprintln(os.Stderr, "gtindex: -indexname is required")
		os.Exit(2)
	}
	if len(cfg.DBFiles) == 0 {
		fmt.Fprintln(os.Stderr, "gtindex: at least one input FASTA file is required")
		os.Exit(2)
	}

	if *profileRun {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	logger := log.New(os.Stderr, "gtindex: ", log.Ltime)
	if !*verbose {
		logger.SetOutput(os.Stderr)
	}

	var a *alphabet.Alphabet
	if cfg.Alphabet == "protein" {
		a = alphabet.Protein()
	} else {
		a = alphabet.DNA()
	}

	prod := encseq.NewFastaProducer(cfg.DBFiles, a)
	opts := encseq.WriteOptions{WithDescriptions: true}
	if cfg.StorageHint != "" && cfg.StorageHint != "auto" {
		v, err := parseVariant(cfg.StorageHint)
		if err != nil {
			logger.Fatal(err)
		}
		opts.Variant = &v
	}

	e, descs, err := encseq.Build(prod, a, opts)
	if err != nil {
		logger.Fatal(err)
	}
	if err := encseq.WriteFiles(cfg.IndexName, e, descs); err != nil {
		logger.Fatal(err)
	}
	if *verbose {
		logger.Printf("built index %s: %d symbols, %d sequences, variant %s",
			cfg.IndexName, e.TotalLength(), e.NumSequences(), e.Variant())
	}

	sortOpts := sufsort.Options{
		NumWorkers:   *workers,
		WithLCP:      cfg.WithLCP || cfg.WithBWT,
		PrefixLength: cfg.PrefixLength,
	}
	res, err := sufsort.Sort(e, sortOpts)
	if err != nil {
		logger.Fatal(err)
	}
	if err := res.WriteSuf(cfg.IndexName); err != nil {
		logger.Fatal(err)
	}
	if cfg.WithLCP {
		if err := res.WriteLCP(cfg.IndexName); err != nil {
			logger.Fatal(err)
		}
		if err := res.WritePBT(cfg.IndexName, e); err != nil {
			logger.Fatal(err)
		}
	}
	if cfg.WithBWT {
		if err := res.WriteBWT(cfg.IndexName, e); err != nil {
			logger.Fatal(err)
		}
	}
	if *verbose {
		logger.Printf("wrote suffix array (%d entries) for %s", len(res.Suftab), cfg.IndexName)
	}
}

func parseVariant(s string) (encseq.Variant, error) {
	for _, v := range []encseq.Variant{
		encseq.VariantDirect, encseq.VariantByteCompress, encseq.VariantBitAccess,
		encseq.VariantRanges8, encseq.VariantRanges16, encseq.VariantRanges32,
	} {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("gtindex: unrecognized -dir value %q", s)
}
