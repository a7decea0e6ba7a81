// Copyright 2026, the gtsfx contributors.

//go:build integration

// Command integration drives the end-to-end scenarios of spec
// section 9.4 against a TOML case list, the same getTests/compare
// shape the teacher's tests/test.go used to drive muscato end to
// end — generalized here from diffing snappy-compressed text lines to
// diffing the .suf/.lcp byte streams a real index produces.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kshedden/gtsfx/alphabet"
	"github.com/kshedden/gtsfx/encseq"
	"github.com/kshedden/gtsfx/sufsort"
)

// caseList is the decoded shape of tests/cases.toml.
type caseList struct {
	Case []testCase `toml:"case"`
}

// testCase names one scenario: a FASTA file to index and the .suf/.lcp
// fixture bytes a correct build must reproduce exactly.
type testCase struct {
	Name        string `toml:"name"`
	Fasta       string `toml:"fasta"`
	Protein     bool   `toml:"protein"`
	PrefixLen   int    `toml:"prefix_length"`
	ExpectedSuf string `toml:"expected_suf"`
	ExpectedLCP string `toml:"expected_lcp"`
}

func main() {
	casesFile := flag.String("cases", "tests/cases.toml", "TOML file listing integration test cases")
	update := flag.Bool("update", false, "overwrite expected_suf/expected_lcp fixtures with this run's output instead of comparing")
	flag.Parse()

	var cl caseList
	if _, err := toml.DecodeFile(*casesFile, &cl); err != nil {
		log.Fatalf("decoding %s: %v", *casesFile, err)
	}

	failures := 0
	for _, c := range cl.Case {
		if err := runCase(c, *update); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", c.Name, err)
			failures++
			continue
		}
		fmt.Printf("ok   %s\n", c.Name)
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func runCase(c testCase, update bool) error {
	a := alphabet.DNA()
	if c.Protein {
		a = alphabet.Protein()
	}

	prod := encseq.NewFastaProducer([]string{c.Fasta}, a)
	e, _, err := encseq.Build(prod, a, encseq.WriteOptions{})
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	res, err := sufsort.Sort(e, sufsort.Options{NumWorkers: 4, WithLCP: true, PrefixLength: c.PrefixLen})
	if err != nil {
		return fmt.Errorf("sorting: %w", err)
	}

	gotSuf := encodeSuf(res.Suftab)
	gotLCP := res.LCP

	if update {
		if err := os.WriteFile(c.ExpectedSuf, gotSuf, 0o644); err != nil {
			return err
		}
		return os.WriteFile(c.ExpectedLCP, gotLCP, 0o644)
	}

	wantSuf, err := os.ReadFile(c.ExpectedSuf)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", c.ExpectedSuf, err)
	}
	if !bytes.Equal(gotSuf, wantSuf) {
		return fmt.Errorf(".suf mismatch against %s", filepath.Base(c.ExpectedSuf))
	}

	wantLCP, err := os.ReadFile(c.ExpectedLCP)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", c.ExpectedLCP, err)
	}
	if !bytes.Equal(gotLCP, wantLCP) {
		return fmt.Errorf(".lcp mismatch against %s", filepath.Base(c.ExpectedLCP))
	}
	return nil
}

func encodeSuf(suftab []int32) []byte {
	buf := make([]byte, 8*len(suftab))
	for i, p := range suftab {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(p))
	}
	return buf
}
