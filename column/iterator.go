package column

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rionmonster/hardwood-sub002/codec"
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/pages"
)

// Source describes one row group's worth of a single leaf column: the file
// it lives in (already open at fileSize) and the footer-declared metadata
// of its chunk.
type Source struct {
	File     io.ReaderAt
	FileSize int64
	Chunk    *format.ColumnMetaData
}

// Iterator produces a file-ordered stream of Batches for one leaf column,
// spanning every row group that carries it. Decoding and decompression run
// on a background goroutine that fills a small bounded queue, so Next
// rarely blocks on I/O; the goroutine is this column's own prefetch task
// and is never shared with the batch-coordination layer that joins sibling
// columns (column.Iterator values must not be driven from that pool).
type Iterator struct {
	out    chan batchResult
	closed int32
	stop   chan struct{}
	done   chan struct{}
}

type batchResult struct {
	batch *Batch
	err   error
}

// NewIterator starts the background prefetch goroutine for sources, using
// codecs to decompress pages and batchSize as the target logical row count
// per produced Batch (see BatchSize). maxDef/maxRep/typeLength describe the
// leaf node being read. verifyChecksums enables the optional per-page CRC32
// check (see pages.NewChunkReader). pool admits this Iterator's background
// goroutine onto the shared I/O/decode pool before it does any decode work;
// a nil pool runs unbounded, which tests that don't care about §5's
// concurrency budget may pass.
func NewIterator(sources []Source, maxDef, maxRep int, typeLength int32, batchSize int, codecs *codec.Provider, verifyChecksums bool, pool *Pool) *Iterator {
	it := &Iterator{
		out:  make(chan batchResult, 2),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go it.run(sources, maxDef, maxRep, typeLength, batchSize, codecs, verifyChecksums, pool)
	return it
}

// Next returns the iterator's next Batch, or io.EOF once every source's
// pages have been consumed or the iterator has been closed.
func (it *Iterator) Next() (*Batch, error) {
	r, ok := <-it.out
	if !ok {
		return nil, io.EOF
	}
	return r.batch, r.err
}

// Close requests the prefetch goroutine stop at its next opportunity and
// waits for it to exit. Batches already queued are discarded; no error is
// surfaced for the cancellation itself.
func (it *Iterator) Close() {
	if atomic.CompareAndSwapInt32(&it.closed, 0, 1) {
		close(it.stop)
	}
	for range it.out {
		// drain until run() closes it.
	}
	<-it.done
}

func (it *Iterator) isClosed() bool {
	return atomic.LoadInt32(&it.closed) != 0
}

func (it *Iterator) run(sources []Source, maxDef, maxRep int, typeLength int32, batchSize int, codecs *codec.Provider, verifyChecksums bool, pool *Pool) {
	defer close(it.out)
	defer close(it.done)

	if pool != nil {
		if !pool.acquire(it.stop) {
			return
		}
		defer pool.release()
	}

	acc := newAccumulator(batchSize, uint8(maxDef))

	emit := func(flush bool) bool {
		for {
			b, ok := acc.take(flush)
			if !ok {
				return true
			}
			it.out <- batchResult{batch: b}
			if it.isClosed() {
				return false
			}
		}
	}

	for _, src := range sources {
		if it.isClosed() {
			return
		}
		cr, err := pages.NewChunkReader(src.File, src.Chunk, src.FileSize, maxDef, maxRep, typeLength, codecs, verifyChecksums)
		if err != nil {
			it.out <- batchResult{err: fmt.Errorf("column: opening chunk: %w", err)}
			return
		}
		for {
			if it.isClosed() {
				return
			}
			dp, err := cr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				it.out <- batchResult{err: fmt.Errorf("column: decoding page: %w", err)}
				return
			}
			acc.add(dp)
			if !emit(false) {
				return
			}
		}
	}
	emit(true)
}
