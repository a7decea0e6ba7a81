// Copyright 2017, Kerby Shedden and the Muscato contributors.
// Copyright 2026, the gtsfx contributors.

// Package gtsfx provides the shared error type used across the
// bitpack, specialrange, encseq, buckettable, partsplit, sufsort,
// diffcover, mmaprange, maxpairs, xdropext, greedyext and report
// packages.
package gtsfx

import "fmt"

// Kind classifies a failure the way spec section 7 enumerates them.
type Kind int

const (
	// IO covers open/read/write/mmap failures.
	IO Kind = iota
	// Format covers header mismatches, truncated sections, implausible field values.
	Format
	// OutOfMemory covers refused allocations.
	OutOfMemory
	// Overflow covers a size that would exceed the platform's Pos representation.
	Overflow
	// Misuse covers an out-of-range caller-supplied parameter.
	Misuse
	// Programming covers a mid-computation invariant violation.
	Programming
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case Format:
		return "format"
	case OutOfMemory:
		return "out-of-memory"
	case Overflow:
		return "overflow"
	case Misuse:
		return "misuse"
	case Programming:
		return "programming"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every public entry point in
// this module. Programming-kind errors are not meant to be recovered
// from by library callers. The CLI frontends report every error kind
// the same way: they log it and exit with status 1.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Newf constructs an *Error of the given kind.
func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind around an existing error.
func Wrap(k Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
