package parquet

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rionmonster/hardwood-sub002/column"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	bitsutil "github.com/rionmonster/hardwood-sub002/internal/bits"
	"github.com/rionmonster/hardwood-sub002/pages"
	"github.com/rionmonster/hardwood-sub002/record"
	"github.com/rionmonster/hardwood-sub002/schema"
)

// Reader coordinates one Iterator per projected leaf column and exposes a
// has_next/next-style row cursor over the result, per §4.9's contract.
//
// A Reader is not safe for concurrent use: the row cursor, like the
// teacher's own row-group readers, is driven from a single caller
// goroutine, even though the column iterators behind it each run their own
// background prefetch goroutine (see column.Iterator).
type Reader struct {
	file   *File
	cfg    *Config
	leaves []*schema.Node // projected leaves, in caller order
	flat   bool           // every leaf: MaxDefinitionLevel<=1 && MaxRepetitionLevel==0
	pool   *column.Pool   // bounds concurrently-running column.Iterator goroutines to cfg.ThreadCount

	iters []*column.Iterator // flat path only, one per leaf

	closed int32

	// flat-path batch state
	batches   []*column.Batch
	batchLen  int
	batchDone bool

	// nested-path (record assembler) state, materialized one row group at
	// a time so a repeated element is never split across a batch boundary
	// (see DESIGN.md's note on this scope decision)
	rowGroupIdx   int
	assembled     []record.Value
	assembledNext int

	cursor int
	row    Row
	err    error
}

// NewReader opens a row iterator over f, projecting the columns named by
// Config.Columns (every leaf, if unset). On the flat path the column
// iterators are started here and begin scanning and decoding pages in the
// background at once; on the nested path no page is read until the first
// call to Next.
func NewReader(f *File, options ...ReaderOption) (*Reader, error) {
	cfg := f.config.clone()
	cfg.Apply(options...)

	leaves, err := schema.Project(f.root, cfg.Columns)
	if err != nil {
		return nil, err
	}

	bitsutil.SetSIMDEnabled(cfg.EnableSIMD)

	r := &Reader{
		file:   f,
		cfg:    cfg,
		leaves: leaves,
		flat:   isFlat(leaves),
		pool:   column.NewPool(cfg.ThreadCount),
	}

	if r.flat {
		if err := r.startFlat(cfg); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func isFlat(leaves []*schema.Node) bool {
	for _, l := range leaves {
		if l.MaxDefinitionLevel > 1 || l.MaxRepetitionLevel != 0 {
			return false
		}
	}
	return true
}

func (r *Reader) startFlat(cfg *Config) error {
	rowWidth := 0
	for _, l := range r.leaves {
		rowWidth += column.RowWidth(l.Type, l.TypeLength)
	}
	batchSize := column.BatchSizeTarget(rowWidth, cfg.BatchMemoryTarget)

	r.iters = make([]*column.Iterator, len(r.leaves))
	for i, l := range r.leaves {
		leafIndex := leafPosition(r.file.leaves, l)
		sources := columnSources(r.file, leafIndex)
		r.iters[i] = column.NewIterator(sources, l.MaxDefinitionLevel, l.MaxRepetitionLevel, l.TypeLength, batchSize, cfg.Codecs, cfg.VerifyChecksums, r.pool)
	}
	return nil
}

// leafPosition finds l's index in the file's full leaf list; Project
// always returns nodes drawn from that same list, so this never misses.
func leafPosition(all []*schema.Node, l *schema.Node) int {
	for i, n := range all {
		if n == l {
			return i
		}
	}
	return -1
}

// Next advances the row cursor to the next row, loading another batch (or
// row group, on the nested path) as needed. It returns false once every
// projected column is exhausted or the reader has been closed; callers
// should check Err after a false return to distinguish end-of-stream from
// failure.
func (r *Reader) Next() bool {
	if r.isClosed() || r.err != nil {
		return false
	}
	if r.flat {
		return r.nextFlat()
	}
	return r.nextNested()
}

// Err returns the first error encountered while loading rows, or nil on a
// clean end of stream.
func (r *Reader) Err() error { return r.err }

// Row returns the row the most recent successful Next call positioned the
// cursor on.
func (r *Reader) Row() Row { return r.row }

// Close stops every background column iterator. Pending prefetched
// batches are discarded; no error is surfaced for the cancellation itself.
func (r *Reader) Close() error {
	if !atomic.CompareAndSwapInt32(&r.closed, 0, 1) {
		return nil
	}
	for _, it := range r.iters {
		if it != nil {
			it.Close()
		}
	}
	return nil
}

func (r *Reader) isClosed() bool { return atomic.LoadInt32(&r.closed) != 0 }

func (r *Reader) nextFlat() bool {
	for {
		if r.batches != nil && r.cursor < r.batchLen {
			r.row = r.rowFromBatches(r.cursor)
			r.cursor++
			return true
		}
		if r.batchDone {
			return false
		}
		if !r.loadFlatBatch() {
			return false
		}
	}
}

// loadFlatBatch pulls the next Batch from every column iterator. The
// batch-coordination join happens on the caller's goroutine: each
// Iterator.Next() only ever blocks on its own already-running prefetch
// goroutine, never on a sibling column's, so joining here in sequence does
// not serialize the background decode work itself.
func (r *Reader) loadFlatBatch() bool {
	batches := make([]*column.Batch, len(r.iters))
	n := -1
	for i, it := range r.iters {
		b, err := it.Next()
		if err == io.EOF {
			if n == -1 {
				n = 0
			} else if n != 0 {
				r.err = fmt.Errorf("parquet: column %d exhausted while others still have rows: %w", i, errs.Malformed)
				return false
			}
			continue
		}
		if err != nil {
			r.err = err
			return false
		}
		if n == -1 {
			n = b.NumValues
		} else if n != b.NumValues {
			r.err = fmt.Errorf("parquet: column %d produced %d rows, want %d: %w", i, b.NumValues, n, errs.Malformed)
			return false
		}
		batches[i] = b
	}
	if n <= 0 {
		r.batchDone = true
		r.batches = nil
		return false
	}
	r.batches = batches
	r.batchLen = n
	r.cursor = 0
	return true
}

func (r *Reader) rowFromBatches(pos int) Row {
	values := make([]Value, len(r.leaves))
	for i, l := range r.leaves {
		values[i] = valueFromBatch(l, r.batches[i], pos)
	}
	return Row{fields: r.leaves, values: values}
}

// valueFromBatch extracts the value at logical position pos (an index into
// the batch's level streams) out of b's compacted non-null value array.
func valueFromBatch(l *schema.Node, b *column.Batch, pos int) Value {
	if len(b.DefLevels) > 0 && int(b.DefLevels[pos]) < l.MaxDefinitionLevel {
		return nullValue(l)
	}
	valIdx := pos
	if len(b.DefLevels) > 0 {
		valIdx = countMaxDefBefore(b.DefLevels, pos, uint8(l.MaxDefinitionLevel))
	}
	return valueFromValues(l, b.Values, valIdx)
}

func countMaxDefBefore(levels []uint8, upTo int, maxDef uint8) int {
	return bitsutil.CountByte(levels[:upTo], maxDef)
}

// valueFromValues builds a scalar Value by reading entry idx directly out
// of vals' typed field, without boxing through record.Value: the flat fast
// path's whole point is to avoid that allocation per §4.3.
func valueFromValues(l *schema.Node, vals pages.Values, idx int) Value {
	v := Value{node: l, kind: l.Type}
	switch l.Type {
	case format.Boolean:
		v.vBool = vals.Boolean[idx]
	case format.Int32:
		v.vI32 = vals.Int32[idx]
	case format.Int64:
		v.vI64 = vals.Int64[idx]
	case format.Int96:
		v.vI96 = vals.Int96[idx]
	case format.Float:
		v.vF32 = vals.Float[idx]
	case format.Double:
		v.vF64 = vals.Double[idx]
	default:
		v.vBytes = vals.Bytes[idx]
	}
	return v
}

// appendValues appends src's entries onto dst in place, regardless of
// which typed field they live in (mirrors column.splitValues' helper of
// the same shape, duplicated here since that one is unexported).
func appendValues(dst *pages.Values, src pages.Values) {
	dst.Type = src.Type
	switch src.Type {
	case format.Boolean:
		dst.Boolean = append(dst.Boolean, src.Boolean...)
	case format.Int32:
		dst.Int32 = append(dst.Int32, src.Int32...)
	case format.Int64:
		dst.Int64 = append(dst.Int64, src.Int64...)
	case format.Int96:
		dst.Int96 = append(dst.Int96, src.Int96...)
	case format.Float:
		dst.Float = append(dst.Float, src.Float...)
	case format.Double:
		dst.Double = append(dst.Double, src.Double...)
	default:
		dst.Bytes = append(dst.Bytes, src.Bytes...)
	}
}

func (r *Reader) nextNested() bool {
	for {
		if r.assembled != nil && r.assembledNext < len(r.assembled) {
			r.row = r.rowFromRecord(r.assembled[r.assembledNext])
			r.assembledNext++
			return true
		}
		if !r.loadRowGroup() {
			return false
		}
	}
}

// loadRowGroup assembles every row of the next row group into memory: a
// row group is the natural unit that guarantees no repeated element's
// position run is split mid-record, which per-batch streaming cannot
// promise once a leaf has MaxRepetitionLevel > 0.
func (r *Reader) loadRowGroup() bool {
	for r.rowGroupIdx < r.file.NumRowGroups() {
		rg := r.rowGroupIdx
		r.rowGroupIdx++

		cols := make([]record.Column, len(r.leaves))
		for i, l := range r.leaves {
			leafIndex := leafPosition(r.file.leaves, l)
			chunk := r.file.metadata.RowGroups[rg].Columns[leafIndex].MetaData
			src := []column.Source{{File: r.file.reader, FileSize: r.file.size, Chunk: chunk}}

			it := column.NewIterator(src, l.MaxDefinitionLevel, l.MaxRepetitionLevel, l.TypeLength, rowGroupFlushThreshold, r.cfg.Codecs, r.cfg.VerifyChecksums, r.pool)
			b, err := drainIterator(it)
			it.Close()
			if err != nil {
				r.err = fmt.Errorf("parquet: row group %d, column %v: %w", rg, l.Path, err)
				return false
			}
			cols[i] = record.FromBatch(l, b.DefLevels, b.RepLevels, b.Values)
		}

		records, err := record.NewAssembler(r.file.root, cols).Assemble()
		if err != nil {
			r.err = err
			return false
		}
		if len(records) == 0 {
			continue
		}
		r.assembled = records
		r.assembledNext = 0
		return true
	}
	return false
}

// rowGroupFlushThreshold is the accumulator batch-size threshold used for
// the nested (record assembler) path: it must exceed the largest possible
// number of (rep_level, def_level) positions any single row group can
// produce, not just its row count, since a repeated leaf emits more
// positions than rows. Setting it this high means column.Iterator's
// accumulator never auto-flushes mid-row-group; drainIterator's own
// end-of-source flush (see column.Iterator.run) is what actually delivers
// the row group's one and only Batch.
const rowGroupFlushThreshold = 1<<31 - 1

func drainIterator(it *column.Iterator) (*column.Batch, error) {
	var merged *column.Batch
	for {
		b, err := it.Next()
		if err == io.EOF {
			if merged == nil {
				merged = &column.Batch{}
			}
			return merged, nil
		}
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = b
			continue
		}
		merged.NumValues += b.NumValues
		merged.DefLevels = append(merged.DefLevels, b.DefLevels...)
		merged.RepLevels = append(merged.RepLevels, b.RepLevels...)
		appendValues(&merged.Values, b.Values)
	}
}

func (r *Reader) rowFromRecord(rec record.Value) Row {
	top := topLevelFields(r.leaves, r.file.root)
	rm, _ := rec.(map[string]record.Value)
	values := make([]Value, len(top))
	for i, f := range top {
		values[i] = nestedValue(f, rm[f.Name])
	}
	return Row{fields: top, values: values}
}

// topLevelFields returns the distinct root-direct-child ancestors of
// leaves, in first-seen order: the record assembler keys its output by
// that ancestor's name (see record.Assembler.Assemble), so a Row's fields
// on the nested path are grouped the same way.
func topLevelFields(leaves []*schema.Node, root *schema.Node) []*schema.Node {
	seen := make(map[*schema.Node]bool)
	var out []*schema.Node
	for _, l := range leaves {
		n := l
		for n.Parent != nil && !n.Parent.Root {
			n = n.Parent
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
