// Package rle implements Parquet's RLE/bit-packed hybrid encoding: a stream
// of runs, each either a run-length-encoded repeated value or a bit-packed
// group of 8 values, selected by the low bit of a leading uvarint header.
// It backs three distinct wire uses: definition/repetition level streams,
// dictionary-index streams (RLE_DICTIONARY), and the legacy RLE encoding of
// BOOLEAN columns.
package rle

import (
	"encoding/binary"

	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	bitsutil "github.com/rionmonster/hardwood-sub002/internal/bits"
)

// HybridDecoder decodes a raw RLE/bit-packed hybrid byte stream at a fixed
// bit width into unsigned integer values (levels, dictionary indices, or
// packed booleans all fit in a uint32).
type HybridDecoder struct {
	data     []byte
	pos      int
	bitWidth uint

	runValue  uint32
	runLeft   int
	bitReader bitsutil.Reader
	packLeft  int
}

// NewHybridDecoder constructs a decoder over data at the given bit width.
func NewHybridDecoder(data []byte, bitWidth int) *HybridDecoder {
	return &HybridDecoder{data: data, bitWidth: uint(bitWidth)}
}

// NewLengthPrefixedHybridDecoder strips a 4-byte little-endian length
// prefix (the framing the Parquet format uses for RLE-encoded definition
// and repetition level streams in DATA_PAGE v1) before constructing the
// decoder.
func NewLengthPrefixedHybridDecoder(data []byte, bitWidth int) (*HybridDecoder, error) {
	if len(data) < 4 {
		return nil, errs.Truncated
	}
	n := int(binary.LittleEndian.Uint32(data))
	if len(data) < 4+n {
		return nil, errs.Truncated
	}
	return NewHybridDecoder(data[4:4+n], bitWidth), nil
}

// NewDictionaryIndexDecoder reads the single leading bit-width byte that
// precedes a dictionary-encoded data page's index stream, then constructs
// a decoder over the remainder of data.
func NewDictionaryIndexDecoder(data []byte) (*HybridDecoder, error) {
	if len(data) < 1 {
		return nil, errs.Truncated
	}
	return NewHybridDecoder(data[1:], int(data[0])), nil
}

// Pos returns the number of input bytes consumed so far. Callers with a
// declared stream length (definition/repetition level streams, whose byte
// length is framed explicitly) use this to verify the decoder consumed
// exactly that many bytes, per the hybrid format's consumption invariant.
func (d *HybridDecoder) Pos() int { return d.pos }

// Decode fills dst with up to len(dst) values, returning the number
// actually decoded. Running out of input before dst is full returns a short
// count together with encoding.ErrTooShort.
func (d *HybridDecoder) Decode(dst []uint32) (int, error) {
	if d.bitWidth == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return len(dst), nil
	}
	n := 0
	for n < len(dst) {
		if d.runLeft == 0 && d.packLeft == 0 {
			if !d.nextRun() {
				return n, encoding.ErrTooShort
			}
		}
		if d.runLeft > 0 {
			for n < len(dst) && d.runLeft > 0 {
				dst[n] = d.runValue
				n++
				d.runLeft--
			}
			continue
		}
		for n < len(dst) && d.packLeft > 0 {
			v, got, err := d.bitReader.ReadBits(d.bitWidth)
			if err != nil || got < d.bitWidth {
				return n, encoding.ErrTooShort
			}
			dst[n] = uint32(v)
			n++
			d.packLeft--
		}
	}
	return n, nil
}

// nextRun reads the next run header, populating either d.runValue/d.runLeft
// (a run-length-encoded run) or resetting d.bitReader over the next
// bit-packed group of runs (d.packLeft values, in groups of 8).
func (d *HybridDecoder) nextRun() bool {
	if d.pos >= len(d.data) {
		return false
	}
	header, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return false
	}
	d.pos += n

	count := int(header >> 1)
	bitPacked := header&1 != 0

	if !bitPacked {
		byteCount := bitsutil.ByteCount(d.bitWidth)
		if d.pos+byteCount > len(d.data) {
			return false
		}
		var v uint32
		for i := 0; i < byteCount; i++ {
			v |= uint32(d.data[d.pos+i]) << uint(8*i)
		}
		d.pos += byteCount
		d.runValue = v
		d.runLeft = count
		return true
	}

	numValues := count * 8
	byteCount := bitsutil.ByteCount(uint(numValues) * d.bitWidth)
	if d.pos+byteCount > len(d.data) {
		byteCount = len(d.data) - d.pos
	}
	d.bitReader.Reset(d.data[d.pos : d.pos+byteCount])
	d.pos += byteCount
	d.packLeft = numValues
	return true
}

// DecodeLevels decodes exactly count repetition or definition level values
// from data at the given bit width (0 when maxLevel is 0, meaning every
// value is implicitly present at level 0 and no stream is encoded at all).
// A data slice too short to produce count values is reported as a malformed
// page, per the requirement that a level stream consume exactly its
// declared byte length.
func DecodeLevels(data []byte, bitWidth, count int) ([]uint8, error) {
	out := make([]uint8, count)
	if bitWidth == 0 {
		return out, nil
	}
	dec := NewHybridDecoder(data, bitWidth)
	buf := make([]uint32, count)
	n, err := dec.Decode(buf)
	if err != nil || n < count {
		return nil, errs.Malformed
	}
	for i, v := range buf {
		out[i] = uint8(v)
	}
	return out, nil
}

// Encoding implements the legacy RLE wire encoding for BOOLEAN columns,
// where the bit width is implicitly 1.
type Encoding struct{ encoding.NotSupported }

func (Encoding) String() string           { return "RLE" }
func (Encoding) Encoding() format.Encoding { return format.RLE }

func (e Encoding) NewDecoder(data []byte) encoding.Decoder {
	return &decoder{hybrid: NewHybridDecoder(data, 1)}
}

func (e Encoding) NewEncoder() encoding.Encoder { return nil }

type decoder struct {
	encoding.NotSupported
	hybrid *HybridDecoder
}

func (d *decoder) DecodeBoolean(dst []bool) (int, error) {
	buf := make([]uint32, len(dst))
	n, err := d.hybrid.Decode(buf)
	for i := 0; i < n; i++ {
		dst[i] = buf[i] != 0
	}
	return n, err
}
