// Copyright 2026, the gtsfx contributors.

// Package alphabet is the minimal symbol-mapping table that encseq
// and its neighbours need. Full alphabet definition and text-format
// readers are an external collaborator per spec section 1; this
// package implements only the interface shape encseq actually
// consumes: symbol count, the two out-of-alphabet markers, and (for
// DNA) a complement table.
package alphabet

// Symbol is an alphabet code in [0, Size), or one of Wildcard/Separator.
type Symbol = byte

// Alphabet describes a small symbol set such as {A,C,G,T} or the 20
// amino acids, plus the two special markers every encseq needs.
type Alphabet struct {
	Size      int    // sigma: number of real alphabet characters
	Wildcard  Symbol // the "any base" marker, >= Size
	Separator Symbol // the sequence delimiter marker, >= Size, != Wildcard

	// charToCode maps an input byte (e.g. 'A') to its code in [0, Size),
	// or to Wildcard/Separator, or to 255 if the byte is unrecognized.
	charToCode [256]Symbol
	codeToChar []byte

	// complement[c] is the Watson-Crick complement code of c, defined
	// only when DNA is true. Specials complement to themselves.
	dna        bool
	complement []Symbol
}

const unmapped Symbol = 255

// DNA returns the standard {A,C,G,T} alphabet with wildcard 'N' and a
// '$' sequence separator, codes 0..3 in that order, and a complement
// table (A<->T, C<->G).
func DNA() *Alphabet {
	a := &Alphabet{Size: 4}
	for i := range a.charToCode {
		a.charToCode[i] = unmapped
	}
	chars := []byte{'A', 'C', 'G', 'T'}
	for i, c := range chars {
		a.charToCode[c] = Symbol(i)
		a.charToCode[c+32] = Symbol(i) // lower case
	}
	a.Wildcard = Symbol(a.Size)
	a.Separator = Symbol(a.Size + 1)
	a.charToCode['N'] = a.Wildcard
	a.charToCode['n'] = a.Wildcard
	a.charToCode['X'] = a.Wildcard
	a.charToCode['x'] = a.Wildcard
	a.charToCode['$'] = a.Separator
	a.codeToChar = append(append([]byte{}, chars...), 'N', '$')
	a.dna = true
	a.complement = make([]Symbol, a.Size+2)
	a.complement[0] = 3 // A <-> T
	a.complement[3] = 0
	a.complement[1] = 2 // C <-> G
	a.complement[2] = 1
	a.complement[a.Wildcard] = a.Wildcard
	a.complement[a.Separator] = a.Separator
	return a
}

// Protein returns the 20 standard amino-acid single-letter codes,
// with wildcard 'X' and separator '$'. Complement is undefined.
func Protein() *Alphabet {
	const letters = "ACDEFGHIKLMNPQRSTVWY"
	a := &Alphabet{Size: len(letters)}
	for i := range a.charToCode {
		a.charToCode[i] = unmapped
	}
	for i := 0; i < len(letters); i++ {
		a.charToCode[letters[i]] = Symbol(i)
		a.charToCode[letters[i]+32] = Symbol(i)
	}
	a.Wildcard = Symbol(a.Size)
	a.Separator = Symbol(a.Size + 1)
	a.charToCode['X'] = a.Wildcard
	a.charToCode['x'] = a.Wildcard
	a.charToCode['$'] = a.Separator
	a.codeToChar = append([]byte(letters), 'X', '$')
	return a
}

// IsDNA reports whether complement operations are defined.
func (a *Alphabet) IsDNA() bool { return a.dna }

// Encode maps a raw input byte to its symbol code. ok is false if the
// byte is not recognized by this alphabet at all (distinct from being
// a valid wildcard).
func (a *Alphabet) Encode(b byte) (Symbol, bool) {
	c := a.charToCode[b]
	return c, c != unmapped
}

// Decode maps a symbol code back to its display byte.
func (a *Alphabet) Decode(s Symbol) byte {
	if int(s) >= len(a.codeToChar) {
		return '?'
	}
	return a.codeToChar[s]
}

// IsSpecial reports whether s is the wildcard or separator marker
// rather than a code in [0, Size).
func (a *Alphabet) IsSpecial(s Symbol) bool {
	return s == a.Wildcard || s == a.Separator
}

// Complement returns the Watson-Crick complement of s. Specials map
// to themselves. Panics if the alphabet is not DNA; callers must
// check IsDNA first, matching spec 4.1's "complement is only defined
// on DNA" contract.
func (a *Alphabet) Complement(s Symbol) Symbol {
	if !a.dna {
		panic("alphabet: Complement is only defined for DNA")
	}
	return a.complement[s]
}
