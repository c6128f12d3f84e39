package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/schema"
)

// Opener lazily produces the next file in a MultiReader's sequence: a
// random-access view of its bytes, its size, and (optionally) a Closer to
// release once the MultiReader moves past it. Opener is called at most
// once per index, only once the previous file has been fully consumed, so
// at most one file's worth of open handles is held at a time.
type Opener func() (io.ReaderAt, int64, io.Closer, error)

// MultiReader concatenates row iteration across a sequence of files:
// iterating [F1, F2] yields exactly the concatenation of iterating F1 then
// F2, per §4.9/§8. Files are opened one at a time, in order; a file is not
// opened until the previous one is exhausted.
type MultiReader struct {
	openers []Opener
	options []Option

	idx        int
	cur        *Reader
	curCloser  io.Closer
	curFile    *File
	projection []*schema.Node // first file's projected leaves, for the cross-file compatibility check

	closed bool
	err    error
}

// NewMultiReader builds a MultiReader over openers, applying options to
// every file it opens (so Config.Columns, Config.Codecs, etc. apply
// uniformly across the sequence).
func NewMultiReader(openers []Opener, options ...Option) *MultiReader {
	return &MultiReader{openers: openers, options: options}
}

// OpenFiles is the common-case convenience over NewMultiReader: it opens
// each path with os.Open and os.Stat as its Reader reaches it, closing the
// previous file's handle first.
func OpenFiles(paths []string, options ...Option) *MultiReader {
	openers := make([]Opener, len(paths))
	for i, p := range paths {
		p := p
		openers[i] = func() (io.ReaderAt, int64, io.Closer, error) {
			f, err := os.Open(p)
			if err != nil {
				return nil, 0, nil, fmt.Errorf("parquet: opening %s: %w: %w", p, errs.Io, err)
			}
			info, err := f.Stat()
			if err != nil {
				f.Close()
				return nil, 0, nil, fmt.Errorf("parquet: statting %s: %w: %w", p, errs.Io, err)
			}
			return f, info.Size(), f, nil
		}
	}
	return NewMultiReader(openers, options...)
}

// Next advances to the next row, transparently opening the next file in
// the sequence once the current one is exhausted.
func (m *MultiReader) Next() bool {
	if m.closed || m.err != nil {
		return false
	}
	for {
		if m.cur == nil {
			if !m.openNext() {
				return false
			}
		}
		if m.cur.Next() {
			return true
		}
		if err := m.cur.Err(); err != nil {
			m.err = err
			return false
		}
		m.closeCurrent()
	}
}

func (m *MultiReader) openNext() bool {
	if m.idx >= len(m.openers) {
		return false
	}
	r, size, closer, err := m.openers[m.idx]()
	m.idx++
	if err != nil {
		m.err = err
		return false
	}

	f, err := OpenFile(r, size, m.options...)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		m.err = fmt.Errorf("parquet: file %d of multi-file sequence: %w", m.idx-1, err)
		return false
	}

	leaves, err := schema.Project(f.root, f.config.Columns)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		m.err = err
		return false
	}
	if m.projection == nil {
		m.projection = leaves
	} else if err := checkCompatible(m.projection, leaves); err != nil {
		if closer != nil {
			closer.Close()
		}
		m.err = fmt.Errorf("parquet: file %d of multi-file sequence: %w", m.idx-1, err)
		return false
	}

	reader, err := NewReader(f)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		m.err = err
		return false
	}

	m.curFile = f
	m.curCloser = closer
	m.cur = reader
	return true
}

// checkCompatible verifies that want and got, the same projection resolved
// against two files' schemas, name the same physical type in the same
// order, per spec.md's "mutually compatible on the columns the caller
// reads" assumption: this module turns the assumption into an explicit,
// column-by-column check instead of trusting it silently.
func checkCompatible(want, got []*schema.Node) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: projected column count %d, want %d", errs.Malformed, len(got), len(want))
	}
	for i := range want {
		if want[i].Type != got[i].Type {
			return fmt.Errorf("%w: column %v is %v, want %v", errs.Malformed, got[i].Path, got[i].Type, want[i].Type)
		}
	}
	return nil
}

func (m *MultiReader) closeCurrent() {
	if m.cur != nil {
		m.cur.Close()
	}
	if m.curCloser != nil {
		m.curCloser.Close()
	}
	m.cur = nil
	m.curFile = nil
	m.curCloser = nil
}

// Row returns the row the most recent successful Next call positioned the
// cursor on.
func (m *MultiReader) Row() Row { return m.cur.Row() }

// Err returns the first error encountered while loading rows, or nil on a
// clean end of stream.
func (m *MultiReader) Err() error { return m.err }

// Close stops iteration and releases the currently open file, if any.
// Files already fully consumed (and thus already closed) are unaffected.
func (m *MultiReader) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.closeCurrent()
	return nil
}
