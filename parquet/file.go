package parquet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rionmonster/hardwood-sub002/column"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/schema"
)

const magic = "PAR1"

// File represents an opened Parquet file: its decoded footer metadata and
// reconstructed schema tree, ready to build Readers from. The layout of a
// Parquet file is magic bytes, row groups and their column chunks, the
// footer, the footer length, and the closing magic bytes.
type File struct {
	reader   io.ReaderAt
	size     int64
	metadata *format.FileMetaData
	root     *schema.Node
	leaves   []*schema.Node
	config   *Config
}

// OpenFile reads and validates the magic bytes and footer of a Parquet file
// occupying bytes [0, size) of r, and reconstructs its schema tree.
//
// Only the magic bytes and footer are read; column chunks and pages are
// left untouched, so successfully opening a file does not validate that its
// pages have valid checksums (see Config.VerifyChecksums for that).
func OpenFile(r io.ReaderAt, size int64, options ...FileOption) (*File, error) {
	cfg := DefaultConfig()
	cfg.Apply(options...)

	if size < int64(len(magic))*2+4 {
		return nil, fmt.Errorf("parquet: file is too small to contain a footer (%d bytes): %w", size, errs.InvalidFormat)
	}

	head := make([]byte, len(magic))
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, fmt.Errorf("parquet: reading magic header: %w: %w", errs.Io, err)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("parquet: invalid magic header %q: %w", head, errs.InvalidFormat)
	}

	tail := make([]byte, len(magic)+4)
	if _, err := r.ReadAt(tail, size-int64(len(tail))); err != nil {
		return nil, fmt.Errorf("parquet: reading magic footer: %w: %w", errs.Io, err)
	}
	if string(tail[4:]) != magic {
		return nil, fmt.Errorf("parquet: invalid magic footer %q: %w", tail[4:], errs.InvalidFormat)
	}

	footerLength := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerLength < 0 || footerLength > size-int64(len(tail)) {
		return nil, fmt.Errorf("parquet: footer length %d is out of bounds for a %d byte file: %w", footerLength, size, errs.InvalidFormat)
	}

	footerOffset := size - int64(len(tail)) - footerLength
	footer := make([]byte, footerLength)
	if _, err := r.ReadAt(footer, footerOffset); err != nil {
		return nil, fmt.Errorf("parquet: reading footer: %w: %w", errs.Io, err)
	}

	metadata, err := format.ReadFileMetaData(footer)
	if err != nil {
		return nil, err
	}
	if len(metadata.Schema) == 0 {
		return nil, fmt.Errorf("parquet: file has no schema root: %w", errs.InvalidFormat)
	}

	root, err := schema.FromFlatElements(metadata.Schema)
	if err != nil {
		return nil, err
	}
	leaves := root.Leaves()

	for i := range metadata.RowGroups {
		if n := len(metadata.RowGroups[i].Columns); n != len(leaves) {
			return nil, fmt.Errorf("parquet: row group %d declares %d columns, schema has %d leaves: %w",
				i, n, len(leaves), errs.Malformed)
		}
	}

	return &File{
		reader:   r,
		size:     size,
		metadata: metadata,
		root:     root,
		leaves:   leaves,
		config:   cfg,
	}, nil
}

// Schema returns the file's reconstructed schema tree.
func (f *File) Schema() *schema.Node { return f.root }

// NumRows returns the total row count declared in the footer.
func (f *File) NumRows() int64 { return f.metadata.NumRows }

// NumRowGroups returns the number of row groups in the file.
func (f *File) NumRowGroups() int { return len(f.metadata.RowGroups) }

// CreatedBy returns the optional writer-identifying string from the footer.
func (f *File) CreatedBy() (string, bool) { return f.metadata.CreatedBy, f.metadata.HasCreatedBy }

// Lookup returns the value associated with key in the file's free-form
// key/value metadata.
func (f *File) Lookup(key string) (string, bool) { return f.metadata.Lookup(key) }

// Size returns the file's byte length, as given to OpenFile.
func (f *File) Size() int64 { return f.size }

// columnSources builds the per-row-group column.Source sequence for the
// schema leaf at leafIndex, spanning every row group in file order.
func columnSources(f *File, leafIndex int) []column.Source {
	out := make([]column.Source, len(f.metadata.RowGroups))
	for i := range f.metadata.RowGroups {
		out[i] = column.Source{
			File:     f.reader,
			FileSize: f.size,
			Chunk:    f.metadata.RowGroups[i].Columns[leafIndex].MetaData,
		}
	}
	return out
}
