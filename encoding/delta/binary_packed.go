// Package delta implements Parquet's three DELTA_* encodings:
// DELTA_BINARY_PACKED (monotone-ish integer deltas packed in blocks of
// bit-packed miniblocks), DELTA_LENGTH_BYTE_ARRAY (lengths delta-encoded,
// followed by concatenated raw bytes), and DELTA_BYTE_ARRAY (incremental
// prefix/suffix reconstruction on top of the other two).
package delta

import (
	"encoding/binary"

	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/errs"
	bitsutil "github.com/rionmonster/hardwood-sub002/internal/bits"
)

// BinaryPackedDecoder decodes a DELTA_BINARY_PACKED stream: a header naming
// a block size (a multiple of 128) and a miniblock count (so that
// blockSize/numMiniBlocks is a multiple of 32), a first value, then one
// block at a time, each block holding a zigzag-varint minimum delta and one
// bit width byte per miniblock, followed by the miniblocks' bit-packed
// deltas relative to that minimum.
type BinaryPackedDecoder struct {
	data []byte
	pos  int

	headerRead    bool
	blockSize     int
	numMiniBlocks int
	miniBlockSize int
	totalValues   int

	lastValue int64
	emitted   int

	blockValues []int64
	blockPos    int
	bitReader   bitsutil.Reader
}

// NewBinaryPackedDecoder constructs a decoder over data, which must begin
// at the encoding's header.
func NewBinaryPackedDecoder(data []byte) *BinaryPackedDecoder {
	return &BinaryPackedDecoder{data: data}
}

func (d *BinaryPackedDecoder) ensureHeader() error {
	if d.headerRead {
		return nil
	}
	blockSize, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return errs.Truncated
	}
	d.pos += n

	numMiniBlocks, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return errs.Truncated
	}
	d.pos += n

	totalValues, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return errs.Truncated
	}
	d.pos += n

	firstValue, n := binary.Varint(d.data[d.pos:])
	if n <= 0 {
		return errs.Truncated
	}
	d.pos += n

	if numMiniBlocks == 0 || blockSize == 0 || blockSize%128 != 0 {
		return errs.Malformed
	}
	miniBlockSize := int(blockSize) / int(numMiniBlocks)
	if miniBlockSize == 0 || miniBlockSize%32 != 0 {
		return errs.Malformed
	}

	d.blockSize = int(blockSize)
	d.numMiniBlocks = int(numMiniBlocks)
	d.miniBlockSize = miniBlockSize
	d.totalValues = int(totalValues)
	d.lastValue = firstValue
	d.headerRead = true
	return nil
}

// DecodeInt64 fills dst with up to len(dst) decoded values.
func (d *BinaryPackedDecoder) DecodeInt64(dst []int64) (int, error) {
	if err := d.ensureHeader(); err != nil {
		return 0, err
	}
	n := 0
	for n < len(dst) && d.emitted < d.totalValues {
		if d.emitted == 0 {
			dst[n] = d.lastValue
			n++
			d.emitted++
			continue
		}
		if d.blockPos >= len(d.blockValues) {
			if err := d.decodeBlock(); err != nil {
				return n, err
			}
		}
		dst[n] = d.blockValues[d.blockPos]
		d.blockPos++
		n++
		d.emitted++
	}
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

// DecodeInt32 fills dst by decoding through DecodeInt64 and narrowing.
func (d *BinaryPackedDecoder) DecodeInt32(dst []int32) (int, error) {
	buf := make([]int64, len(dst))
	n, err := d.DecodeInt64(buf)
	for i := 0; i < n; i++ {
		dst[i] = int32(buf[i])
	}
	return n, err
}

func (d *BinaryPackedDecoder) decodeBlock() error {
	minDelta, n := binary.Varint(d.data[d.pos:])
	if n <= 0 {
		return errs.Truncated
	}
	d.pos += n

	if d.pos+d.numMiniBlocks > len(d.data) {
		return errs.Truncated
	}
	bitWidths := append([]byte(nil), d.data[d.pos:d.pos+d.numMiniBlocks]...)
	d.pos += d.numMiniBlocks

	values := make([]int64, 0, d.blockSize)
	for _, bw := range bitWidths {
		if bw == 0 {
			for i := 0; i < d.miniBlockSize; i++ {
				values = append(values, 0)
			}
			continue
		}
		byteCount := bitsutil.ByteCount(uint(d.miniBlockSize) * uint(bw))
		if d.pos+byteCount > len(d.data) {
			return errs.Truncated
		}
		d.bitReader.Reset(d.data[d.pos : d.pos+byteCount])
		d.pos += byteCount
		for i := 0; i < d.miniBlockSize; i++ {
			v, got, err := d.bitReader.ReadBits(uint(bw))
			if err != nil || got < uint(bw) {
				return errs.Malformed
			}
			values = append(values, int64(v))
		}
	}

	for i := range values {
		values[i] += minDelta
	}
	values[0] += d.lastValue
	for i := 1; i < len(values); i++ {
		values[i] += values[i-1]
	}
	d.lastValue = values[len(values)-1]
	d.blockValues = values
	d.blockPos = 0
	return nil
}
