// Package column implements the lazy, prefetching column iterator: given a
// leaf schema node and the sequence of column chunks that carry its values
// across a file's row groups, it produces a stream of decoded Batches sized
// to keep one batch's working set L2-resident.
package column

import (
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/pages"
)

// Batch is one decoded slice of a single column: the repetition/definition
// levels for every logical position in the batch (all zero when the
// column's max level is 0) and the compacted non-null values in stream order.
type Batch struct {
	NumValues int
	DefLevels []uint8
	RepLevels []uint8
	Values    pages.Values
}

// minBatchSize and maxBatchSize bound the row count a batch carries
// regardless of per-row width, per the clamp(6 MiB / rowWidth, 2^14, 2^19)
// sizing rule: small enough to stay L2-resident, large enough that
// per-batch coordination overhead stays negligible.
const (
	minBatchSize      = 1 << 14
	maxBatchSize      = 1 << 19
	targetBatchMemory = 6 << 20
)

// RowWidth estimates the on-wire byte width of one row's value for typ, the
// Σ width(c) term the batch-size formula sums over a row's projected
// columns. typeLength is only consulted for FIXED_LEN_BYTE_ARRAY.
func RowWidth(typ format.Type, typeLength int32) int {
	switch typ {
	case format.Boolean:
		return 1
	case format.Int32, format.Float:
		return 4
	case format.Int64, format.Double:
		return 8
	case format.Int96:
		return 12
	case format.ByteArray:
		return 16
	case format.FixedLenByteArray:
		return int(typeLength)
	default:
		return 8
	}
}

// BatchSize computes clamp(targetBatchMemory / rowWidth, minBatchSize,
// maxBatchSize) for a row whose combined projected-column width is
// rowWidth bytes.
func BatchSize(rowWidth int) int {
	return BatchSizeTarget(rowWidth, targetBatchMemory)
}

// BatchSizeTarget is BatchSize parametrized by the target bytes per batch,
// the knob exposed to callers as Config.BatchMemoryTarget.
func BatchSizeTarget(rowWidth, targetMemory int) int {
	if targetMemory <= 0 {
		targetMemory = targetBatchMemory
	}
	if rowWidth <= 0 {
		return maxBatchSize
	}
	n := targetMemory / rowWidth
	if n < minBatchSize {
		return minBatchSize
	}
	if n > maxBatchSize {
		return maxBatchSize
	}
	return n
}
