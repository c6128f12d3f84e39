package pages

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/rionmonster/hardwood-sub002/codec"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
)

// ChunkReader walks one column chunk's pages in order, decoding each into a
// DataPage and caching the chunk's dictionary page (if any) across every
// data page that references it.
type ChunkReader struct {
	r      io.ReaderAt
	chunk  *format.ColumnMetaData
	codecs *codec.Provider

	maxDef, maxRep   int
	typeLength       int32
	verifyChecksums  bool

	infos []Info
	next  int
	dict  *Values
}

// NewChunkReader scans chunk's pages up front and returns a ChunkReader
// positioned before the first page. When verifyChecksums is set, every
// page whose header carries a CRC (an optional field some writers omit) has
// its raw, on-disk bytes checked against that CRC before decoding; a
// mismatch surfaces as errs.Malformed.
func NewChunkReader(r io.ReaderAt, chunk *format.ColumnMetaData, fileSize int64, maxDef, maxRep int, typeLength int32, codecs *codec.Provider, verifyChecksums bool) (*ChunkReader, error) {
	infos, err := Scan(r, chunk, fileSize)
	if err != nil {
		return nil, err
	}
	return &ChunkReader{
		r:               r,
		chunk:           chunk,
		codecs:          codecs,
		maxDef:          maxDef,
		maxRep:          maxRep,
		typeLength:      typeLength,
		verifyChecksums: verifyChecksums,
		infos:           infos,
	}, nil
}

// Next decodes and returns the chunk's next data page, transparently
// consuming and caching any dictionary page encountered first. It returns
// io.EOF once every page has been read.
func (c *ChunkReader) Next() (*DataPage, error) {
	for c.next < len(c.infos) {
		info := c.infos[c.next]
		c.next++

		raw, err := ReadPayload(c.r, info.PayloadOffset, info.PayloadLength)
		if err != nil {
			return nil, err
		}
		if c.verifyChecksums && info.Header.HasCRC {
			if got := int32(crc32.ChecksumIEEE(raw)); got != info.Header.CRC {
				return nil, fmt.Errorf("pages: page at offset %d of %v failed CRC check (got %x, want %x): %w",
					info.PayloadOffset, c.chunk.PathInSchema, got, info.Header.CRC, errs.Malformed)
			}
		}

		switch info.Kind {
		case format.DictionaryPage:
			dict, err := decodeDictionaryPage(raw, info, c.chunk, c.typeLength, c.codecs)
			if err != nil {
				return nil, err
			}
			c.dict = &dict
		case format.DataPage, format.DataPageV2:
			return DecodeDataPage(raw, info, c.chunk, c.maxDef, c.maxRep, c.typeLength, c.codecs, c.dict)
		case format.IndexPage:
			// Page/offset indexes are a supplementary structure this reader
			// does not consult; skip past it.
		default:
			return nil, fmt.Errorf("pages: %w: page type %s", errs.UnknownEnum, info.Kind)
		}
	}
	return nil, io.EOF
}
