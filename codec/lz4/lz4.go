// Package lz4 implements both parquet LZ4 compression codec identifiers on
// top of pierrec/lz4/v4's raw block (de)compressor: LZ4_RAW, the modern,
// unambiguous framing (a single raw LZ4 block), and the legacy LZ4 codec,
// whose on-disk framing historically diverged between writers — some wrote
// a raw block identical to LZ4_RAW, others wrote the Hadoop LZ4 codec's
// framing (a sequence of [4-byte big-endian compressed length][4-byte
// big-endian uncompressed length][compressed block] records). Per the
// specification's own ambiguity note, this reader does not trust either
// convention blindly for the legacy identifier: it tries the raw block
// first and falls back to Hadoop framing on failure.
package lz4

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/rionmonster/hardwood-sub002/format"
)

// RawCodec is the LZ4_RAW parquet compression codec: a single raw LZ4
// block, decompressed directly with no framing.
type RawCodec struct{}

func (RawCodec) String() string                            { return "LZ4_RAW" }
func (RawCodec) CompressionCodec() format.CompressionCodec { return format.Lz4Raw }

func (RawCodec) Decode(dst, src []byte) ([]byte, error) {
	return decodeRawBlock(dst, src)
}

// LegacyCodec is the historical LZ4 parquet compression codec identifier.
type LegacyCodec struct{}

func (LegacyCodec) String() string                            { return "LZ4" }
func (LegacyCodec) CompressionCodec() format.CompressionCodec { return format.Lz4 }

func (LegacyCodec) Decode(dst, src []byte) ([]byte, error) {
	if out, err := decodeRawBlock(dst, src); err == nil {
		return out, nil
	}
	return decodeHadoopFramed(dst, src)
}

func decodeRawBlock(dst, src []byte) ([]byte, error) {
	size := cap(dst)
	if size == 0 {
		size = 4 * len(src)
	}
	for {
		if len(dst) < size {
			dst = make([]byte, size)
		}
		n, err := lz4.UncompressBlock(src, dst[:size])
		if err == nil {
			return dst[:n], nil
		}
		if size > 1<<30 {
			return nil, err
		}
		size *= 2
	}
}

// decodeHadoopFramed decodes the Hadoop LZ4 codec's block framing: a
// sequence of records, each a 4-byte big-endian compressed length followed
// by a 4-byte big-endian uncompressed length and that many compressed
// bytes, concatenated until src is exhausted.
func decodeHadoopFramed(dst, src []byte) ([]byte, error) {
	out := dst[:0]
	for len(src) > 0 {
		if len(src) < 8 {
			return nil, fmt.Errorf("lz4: truncated hadoop frame header")
		}
		compressedLen := int(binary.BigEndian.Uint32(src[0:4]))
		uncompressedLen := int(binary.BigEndian.Uint32(src[4:8]))
		src = src[8:]
		if compressedLen < 0 || compressedLen > len(src) {
			return nil, fmt.Errorf("lz4: truncated hadoop frame body")
		}
		block := src[:compressedLen]
		src = src[compressedLen:]

		chunk := make([]byte, uncompressedLen)
		n, err := lz4.UncompressBlock(block, chunk)
		if err != nil {
			return nil, fmt.Errorf("lz4: decoding hadoop-framed block: %w", err)
		}
		out = append(out, chunk[:n]...)
	}
	return out, nil
}
