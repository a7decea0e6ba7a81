// Copyright 2017, Kerby Shedden and the Muscato contributors.
// Copyright 2026, the gtsfx contributors.

// Package gtlog is a thin wrapper around log.Logger that standardizes
// a per-session log file, in the manner of the teacher's setupLog
// helpers. cmd/gtindex and cmd/gtmatch do not use it; they log to
// stderr.
package gtlog

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// New creates (or truncates) logname inside dir and returns a logger
// writing to it with a time-only prefix, matching the teacher's
// `log.New(fid, "", log.Ltime)` convention. If dir is empty, logname
// is used as-is.
func New(dir, logname string) (*log.Logger, *os.File, error) {
	pa := logname
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
		pa = filepath.Join(dir, logname)
	}
	fid, err := os.Create(pa)
	if err != nil {
		return nil, nil, err
	}
	return log.New(fid, "", log.Ltime), fid, nil
}

// Discard returns a logger that writes nowhere, for callers that did
// not ask for progress output. No library package of this module
// takes a logger.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// OrDiscard returns l if non-nil, else Discard().
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
