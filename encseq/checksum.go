// Copyright 2026, the gtsfx contributors.

package encseq

import (
	"math/rand"

	"github.com/chmduquesne/rollinghash/buzhash32"
)

// payloadHashTable is the fixed byte-to-uint32 table buzhash32 mixes
// over the packed symbol stream. It must be the same at write time and
// at any later recompute, so it is built once from a fixed seed rather
// than per-process random state the way the teacher's genTables built
// a fresh table for each Bloom sketch run.
var payloadHashTable = buildPayloadHashTable()

func buildPayloadHashTable() [256]uint32 {
	var tab [256]uint32
	r := rand.New(rand.NewSource(0x67747366))
	seen := make(map[uint32]bool, 256)
	for i := range tab {
		for {
			x := r.Uint32()
			if !seen[x] {
				tab[i] = x
				seen[x] = true
				break
			}
		}
	}
	return tab
}

// bufChecksum runs a buzhash32 rolling hash over an already-resolved
// symbol buffer, the same construction the teacher used to fingerprint
// read windows for its Bloom sketch, repurposed here as a cheap
// corruption check recorded in .prj rather than a dedup key.
func bufChecksum(buf []byte) uint32 {
	h := buzhash32.NewFromUint32Array(payloadHashTable)
	h.Write(buf)
	return h.Sum32()
}

// payloadChecksum re-derives the same checksum from a live
// EncodedSequence, used by Open to verify a manifest's recorded value
// against the mapped .esq payload.
func payloadChecksum(e *EncodedSequence) uint32 {
	buf := make([]byte, e.total)
	for i := 0; i < e.total; i++ {
		buf[i] = byte(e.rep.charAt(i))
	}
	return bufChecksum(buf)
}
