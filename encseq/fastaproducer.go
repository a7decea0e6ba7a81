// Copyright 2026, the gtsfx contributors.

package encseq

import (
	"bufio"
	"os"
	"strings"

	"github.com/kshedden/gtsfx"
	"github.com/kshedden/gtsfx/alphabet"
)

// FastaProducer is a RawSymbolProducer reading one or more FASTA
// files, adapting utils/fastq.go's Next()-bool scanning idiom
// (4-lines-per-record there; here, a '>' description line followed
// by one or more sequence lines until the next '>' or EOF) to a
// sequential, low-memory producer suitable for streaming index
// construction.
type FastaProducer struct {
	files   []string
	fileIdx int
	file    *os.File
	scanner *bufio.Scanner
	alpha   *alphabet.Alphabet

	curDesc string
	curSeq  []alphabet.Symbol
	pending string // a '>' line already read while scanning the previous record
	err     error
	done    bool
}

// NewFastaProducer opens the first of files lazily; files are
// consumed in order as Next advances past each one's last record.
func NewFastaProducer(files []string, a *alphabet.Alphabet) *FastaProducer {
	return &FastaProducer{files: files, alpha: a}
}

func (p *FastaProducer) openNext() bool {
	for p.fileIdx < len(p.files) {
		f, err := os.Open(p.files[p.fileIdx])
		p.fileIdx++
		if err != nil {
			p.err = gtsfx.Wrap(gtsfx.IO, err, "opening %s", p.files[p.fileIdx-1])
			return false
		}
		p.file = f
		sc := bufio.NewScanner(f)
		buf := make([]byte, 0, 64*1024)
		sc.Buffer(buf, 16*1024*1024)
		p.scanner = sc
		return true
	}
	return false
}

// Next advances to the next FASTA record across the file list.
func (p *FastaProducer) Next() bool {
	if p.done || p.err != nil {
		return false
	}
	for {
		if p.scanner == nil {
			if !p.openNext() {
				p.done = true
				return false
			}
		}
		var descLine string
		if p.pending != "" {
			descLine = p.pending
			p.pending = ""
		} else {
			if !p.scanner.Scan() {
				if err := p.scanner.Err(); err != nil {
					p.err = gtsfx.Wrap(gtsfx.IO, err, "reading %s", p.files[p.fileIdx-1])
					return false
				}
				p.file.Close()
				p.scanner = nil
				continue
			}
			descLine = p.scanner.Text()
		}
		if !strings.HasPrefix(descLine, ">") {
			continue
		}
		p.curDesc = strings.TrimPrefix(descLine, ">")
		p.curSeq = p.curSeq[:0]
		for p.scanner.Scan() {
			line := p.scanner.Text()
			if strings.HasPrefix(line, ">") {
				p.pending = line
				break
			}
			for i := 0; i < len(line); i++ {
				c, ok := p.alpha.Encode(line[i])
				if !ok {
					p.err = gtsfx.Newf(gtsfx.Format, "%s: unrecognized symbol %q in sequence %q", p.files[p.fileIdx-1], line[i], p.curDesc)
					return false
				}
				p.curSeq = append(p.curSeq, c)
			}
		}
		if err := p.scanner.Err(); err != nil {
			p.err = gtsfx.Wrap(gtsfx.IO, err, "reading %s", p.files[p.fileIdx-1])
			return false
		}
		return true
	}
}

func (p *FastaProducer) Symbols() []alphabet.Symbol { return p.curSeq }
func (p *FastaProducer) Description() string        { return p.curDesc }
func (p *FastaProducer) Err() error                 { return p.err }
