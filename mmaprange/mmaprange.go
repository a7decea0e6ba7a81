// Copyright 2026, the gtsfx contributors.

// Package mmaprange manages large scratch and result tables as either
// real memory-mapped files or plain in-memory slices, mirroring the
// mmap-vs-sequential-read choice original_source/src/match/esa-map.c
// makes for encoded-sequence and suffix-array tables depending on
// available memory and access pattern (-scan mode in spec section
// 6 asks for the sequential path explicitly).
package mmaprange

import (
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/kshedden/gtsfx"
)

// Mode selects how a Range's backing storage is accessed.
type Mode int

const (
	// Mapped backs the range with a real mmap of a file, for random
	// access without paging the whole table into the Go heap.
	Mapped Mode = iota
	// Sequential streams the range from disk without mmap, for a
	// caller that only ever walks forward. The -scan flag does not
	// select it.
	Sequential
)

// Range is a byte-addressable scratch table, either memory-mapped or
// backed by an in-process buffer read sequentially.
type Range struct {
	mode Mode
	data []byte
	f    *os.File
	path string
}

// Manager creates and tracks the temporary files a multi-pass sort or
// match run needs, naming each with a fresh UUID the way
// muscato_confirm names its scratch directories, and cleans them up on
// Close.
type Manager struct {
	dir   string
	files []string
}

// NewManager creates a Manager whose temp files live under dir (dir
// must already exist).
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// tempPath returns a fresh UUID-named path under the manager's
// directory, following muscato_confirm's temp-naming convention of
// never reusing a name within a run.
func (m *Manager) tempPath(suffix string) string {
	name := uuid.NewString() + suffix
	p := m.dir + string(os.PathSeparator) + name
	m.files = append(m.files, p)
	return p
}

// CreateMapped allocates a new file of the given size and maps it
// read-write, for a scratch table the caller will fill in place (e.g.
// an out-of-core bucket's suffix array slice).
func (m *Manager) CreateMapped(sizeBytes int64, suffix string) (*Range, error) {
	path := m.tempPath(suffix)
	f, err := os.Create(path)
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "creating scratch file %s", path)
	}
	if err := f.Truncate(sizeBytes); err != nil {
		f.Close()
		return nil, gtsfx.Wrap(gtsfx.IO, err, "truncating scratch file %s", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(sizeBytes), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, gtsfx.Wrap(gtsfx.IO, err, "mmap scratch file %s", path)
	}
	return &Range{mode: Mapped, data: data, f: f, path: path}, nil
}

// OpenSequential opens path for forward-only reads without mmap, the
// -scan mode access pattern.
func OpenSequential(path string) (*Range, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "opening %s", path)
	}
	return &Range{mode: Sequential, f: f, path: path}, nil
}

// Data returns the backing byte slice for a Mapped range. Calling
// this on a Sequential range is a programming error.
func (r *Range) Data() []byte {
	if r.mode != Mapped {
		panic("mmaprange: Data called on a Sequential range")
	}
	return r.data
}

// Reader returns an io.Reader for a Sequential range, positioned
// wherever the last read left off.
func (r *Range) Reader() io.Reader {
	if r.mode != Sequential {
		panic("mmaprange: Reader called on a Mapped range")
	}
	return r.f
}

// Close unmaps (or closes) the range. It does not remove the backing
// file; use Manager.Close for that.
func (r *Range) Close() error {
	if r.mode == Mapped && r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			r.f.Close()
			return gtsfx.Wrap(gtsfx.IO, err, "munmap %s", r.path)
		}
	}
	return r.f.Close()
}

// WriteCompressed snappy-compresses src and writes it to a fresh
// UUID-named file under the manager's directory, for cold tables that
// are written once and read at most once later (muscato_screen's wire
// compression, repurposed here for spilled scratch tables rather than
// network payloads). It returns the path so the caller can hand it to
// ReadCompressed later.
func (m *Manager) WriteCompressed(src []byte, suffix string) (string, error) {
	path := m.tempPath(suffix)
	f, err := os.Create(path)
	if err != nil {
		return "", gtsfx.Wrap(gtsfx.IO, err, "creating compressed scratch file %s", path)
	}
	defer f.Close()
	compressed := snappy.Encode(nil, src)
	if _, err := f.Write(compressed); err != nil {
		return "", gtsfx.Wrap(gtsfx.IO, err, "writing compressed scratch file %s", path)
	}
	return path, nil
}

// ReadCompressed reads and snappy-decompresses a file written by
// WriteCompressed.
func ReadCompressed(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.IO, err, "reading compressed scratch file %s", path)
	}
	out, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, gtsfx.Wrap(gtsfx.Format, err, "snappy-decoding %s", path)
	}
	return out, nil
}

// Close removes every temp file this manager created.
func (m *Manager) Close() error {
	var firstErr error
	for _, p := range m.files {
		if err := os.Remove(p); err != nil && firstErr == nil && !os.IsNotExist(err) {
			firstErr = gtsfx.Wrap(gtsfx.IO, err, "removing scratch file %s", p)
		}
	}
	m.files = nil
	return firstErr
}
