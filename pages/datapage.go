package pages

import (
	"encoding/binary"
	"fmt"

	"github.com/rionmonster/hardwood-sub002/codec"
	"github.com/rionmonster/hardwood-sub002/encoding/rle"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	bitsutil "github.com/rionmonster/hardwood-sub002/internal/bits"
)

// DataPage is one decoded DATA_PAGE/DATA_PAGE_V2: the repetition and
// definition level streams (one entry per logical position) and the
// compacted non-null values, in the order they appear in the stream.
type DataPage struct {
	RepLevels []uint8
	DefLevels []uint8
	Values    Values
	NumValues int
	NumNulls  int
}

// DecodeDataPage decompresses and fully decodes a DATA_PAGE or
// DATA_PAGE_V2, dispatching to the dictionary or registry decoder named by
// the page's encoding.
func DecodeDataPage(raw []byte, info Info, chunk *format.ColumnMetaData, maxDef, maxRep int, typeLength int32, codecs *codec.Provider, dict *Values) (*DataPage, error) {
	if info.Header.Type == format.DataPageV2 {
		return decodeDataPageV2(raw, info, chunk, maxDef, maxRep, typeLength, codecs, dict)
	}
	return decodeDataPageV1(raw, info, chunk, maxDef, maxRep, typeLength, codecs, dict)
}

func decodeDataPageV1(raw []byte, info Info, chunk *format.ColumnMetaData, maxDef, maxRep int, typeLength int32, codecs *codec.Provider, dict *Values) (*DataPage, error) {
	h := info.Header.DataPageHeader
	numValues := int(h.NumValues)

	full, err := decompressPage(raw, chunk.Codec, info.Header.UncompressedPageSize, true, codecs)
	if err != nil {
		return nil, fmt.Errorf("pages: decompressing data page: %w", err)
	}

	pos := 0
	repLevels, n, err := readLengthPrefixedLevels(full[pos:], maxRep, numValues)
	if err != nil {
		return nil, err
	}
	pos += n

	defLevels, n, err := readLengthPrefixedLevels(full[pos:], maxDef, numValues)
	if err != nil {
		return nil, err
	}
	pos += n

	numNonNull := numValues
	if maxDef > 0 {
		numNonNull = bitsutil.CountByte(defLevels, uint8(maxDef))
	}

	values, err := decodeDataValues(full[pos:], h.Encoding, chunk, typeLength, numNonNull, dict)
	if err != nil {
		return nil, err
	}

	return &DataPage{
		RepLevels: repLevels,
		DefLevels: defLevels,
		Values:    values,
		NumValues: numValues,
		NumNulls:  numValues - numNonNull,
	}, nil
}

func decodeDataPageV2(raw []byte, info Info, chunk *format.ColumnMetaData, maxDef, maxRep int, typeLength int32, codecs *codec.Provider, dict *Values) (*DataPage, error) {
	h := info.Header.DataPageHeaderV2
	numValues := int(h.NumValues)
	levelsLen := int(h.RepetitionLevelsByteLength) + int(h.DefinitionLevelsByteLength)
	if levelsLen > len(raw) {
		return nil, fmt.Errorf("pages: data page v2 level lengths exceed payload: %w", errs.Truncated)
	}

	levelBytes := raw[:levelsLen]
	valuePayload := raw[levelsLen:]

	valueBytes := valuePayload
	if h.Compressed() && chunk.Codec != format.Uncompressed {
		out := make([]byte, 0, int(info.Header.UncompressedPageSize)-levelsLen)
		vb, err := codecs.Decode(chunk.Codec, out, valuePayload)
		if err != nil {
			return nil, fmt.Errorf("pages: decompressing data page v2 values: %w", err)
		}
		valueBytes = vb
	}

	repBytes := levelBytes[:h.RepetitionLevelsByteLength]
	defBytes := levelBytes[h.RepetitionLevelsByteLength:]

	repLevels, err := readExactLevels(repBytes, maxRep, numValues)
	if err != nil {
		return nil, err
	}
	defLevels, err := readExactLevels(defBytes, maxDef, numValues)
	if err != nil {
		return nil, err
	}

	numNonNull := numValues - int(h.NumNulls)
	values, err := decodeDataValues(valueBytes, h.Encoding, chunk, typeLength, numNonNull, dict)
	if err != nil {
		return nil, err
	}

	return &DataPage{
		RepLevels: repLevels,
		DefLevels: defLevels,
		Values:    values,
		NumValues: numValues,
		NumNulls:  int(h.NumNulls),
	}, nil
}

// readLengthPrefixedLevels reads a DATA_PAGE v1-framed level stream: a
// 4-byte little-endian byte length followed by that many RLE/bit-packed
// bytes (absent entirely when maxLevel is 0). It returns the decoded
// levels and the total number of input bytes consumed (4 + the declared
// length), so the caller can advance past this stream to the next one.
func readLengthPrefixedLevels(data []byte, maxLevel, count int) ([]uint8, int, error) {
	if maxLevel == 0 {
		return make([]uint8, count), 0, nil
	}
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("pages: truncated level stream length prefix: %w", errs.Truncated)
	}
	n := int(binary.LittleEndian.Uint32(data))
	if len(data) < 4+n {
		return nil, 0, fmt.Errorf("pages: truncated level stream: %w", errs.Truncated)
	}
	levels, err := readExactLevels(data[4:4+n], maxLevel, count)
	if err != nil {
		return nil, 0, err
	}
	return levels, 4 + n, nil
}

// readExactLevels decodes count levels from a buffer whose length is the
// stream's declared byte length, failing if the hybrid decoder does not
// consume every byte of it.
func readExactLevels(data []byte, maxLevel, count int) ([]uint8, error) {
	if maxLevel == 0 {
		return make([]uint8, count), nil
	}
	bw := bitsutil.BitWidth(maxLevel)
	dec := rle.NewHybridDecoder(data, bw)
	buf := make([]uint32, count)
	n, err := dec.Decode(buf)
	if err != nil || n < count {
		return nil, fmt.Errorf("pages: level stream produced %d of %d values: %w", n, count, errs.Malformed)
	}
	if dec.Pos() != len(data) {
		return nil, fmt.Errorf("pages: level stream consumed %d of %d declared bytes: %w", dec.Pos(), len(data), errs.Malformed)
	}
	out := make([]uint8, count)
	for i, v := range buf {
		out[i] = uint8(v)
	}
	return out, nil
}

// decodeDataValues decodes numNonNull values out of valueBytes using enc,
// resolving dictionary encodings against dict.
func decodeDataValues(valueBytes []byte, enc format.Encoding, chunk *format.ColumnMetaData, typeLength int32, numNonNull int, dict *Values) (Values, error) {
	if isDictionaryEncoding(enc) {
		if dict == nil {
			return Values{}, fmt.Errorf("pages: dictionary-encoded page with no dictionary page in chunk: %w", errs.Malformed)
		}
		idxDec, err := rle.NewDictionaryIndexDecoder(valueBytes)
		if err != nil {
			return Values{}, err
		}
		indices := make([]uint32, numNonNull)
		n, err := idxDec.Decode(indices)
		if err != nil || n < numNonNull {
			return Values{}, fmt.Errorf("pages: dictionary index stream produced %d of %d indices: %w", n, numNonNull, errs.Malformed)
		}
		return gather(*dict, indices)
	}

	codecImpl, err := lookupEncoding(enc, chunk.Type)
	if err != nil {
		return Values{}, err
	}
	dec := codecImpl.NewDecoder(valueBytes)
	return decodeValues(dec, chunk.Type, typeLength, numNonNull)
}
