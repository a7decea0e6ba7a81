// Copyright 2017, Kerby Shedden and the Muscato contributors.
// Copyright 2026, the gtsfx contributors.

// Package gtconfig holds the flat configuration structs shared by
// cmd/gtindex and cmd/gtmatch, filled from command line flags and then
// overlaid with an optional JSON file, in the manner of the teacher's
// utils.Config / utils.ReadConfig.
package gtconfig

import (
	"encoding/json"
	"os"
)

// IndexConfig configures the writer path (cmd/gtindex).
type IndexConfig struct {
	// Input FASTA files, in the order they are concatenated into the
	// index.
	DBFiles []string

	// "dna" or "protein".
	Alphabet string

	// Base name (directory + prefix) for the on-disk index files.
	IndexName string

	// Storage variant hint: "auto", "direct", "bytecompress",
	// "bitaccess", "uchar-ranges", "ushort-ranges", "uint32-ranges".
	StorageHint string

	// Prefix length for the bucket table, or 0 to auto-choose.
	PrefixLength int

	// If true, also emit the .lcp / .llv side files while sorting.
	WithLCP bool

	// If true, also emit the .bwt file.
	WithBWT bool

	// Not read by the index writer: positions are always written as
	// 64-bit, whatever this holds.
	Force64 bool
}

// MatchConfig configures the reporter path (cmd/gtmatch), mirroring
// spec section 6's CLI surface.
type MatchConfig struct {
	IndexName string   // -ii
	Queries   []string // positional arguments
	MinLength int       // -l
	Forward   bool      // -f
	Reverse   bool      // -r
	SeedLength int      // -seedlength
	ErrPercent int       // -err
	MaxAliLenDiff int    // -maxalilendiff
	ExtendXdrop   bool   // -extendxdrop
	ExtendGreedy  bool   // -extendgreedy
	Samples       int    // -samples
	SPM           bool   // -spm
	Scan          bool   // -scan
	MinComplexity int    // -mincomplexity
	Verbose       bool   // -v
}

// ReadJSON decodes a JSON configuration file into dst, panicking on
// any I/O or decode failure, matching utils.ReadConfig's contract:
// callers (the cmd/* flag handlers) are expected to have already
// validated that the file exists before wiring this in as an
// overlay source.
func ReadJSON(filename string, dst any) {
	fid, err := os.Open(filename)
	if err != nil {
		panic(err)
	}
	defer fid.Close()
	dec := json.NewDecoder(fid)
	if err := dec.Decode(dst); err != nil {
		panic(err)
	}
}
