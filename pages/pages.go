// Package pages implements the page-level scanner and decoder for a single
// column chunk: it walks a chunk's pages from its footer-declared offsets,
// decodes each page header, decompresses and frames each page's payload,
// and dispatches the right value decoder — caching a chunk's dictionary
// page (if any) across the data pages that reference it.
package pages

import (
	"fmt"
	"io"

	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/internal/thrift"
)

// maxPageHeaderSize bounds the read used to probe a page header: Thrift
// compact-protocol page headers are small (a handful of varint fields), so
// this comfortably covers real files while keeping the probe read cheap.
const maxPageHeaderSize = 16 * 1024

// Info describes one page found while scanning a column chunk: its header
// and the file offset/length of its (possibly compressed) payload.
type Info struct {
	Kind          format.PageType
	Header        *format.PageHeader
	PayloadOffset int64
	PayloadLength int32
}

// Scan walks chunk's pages starting at min(data page offset, dictionary
// page offset), stopping once the accumulated DATA_PAGE/DATA_PAGE_V2
// num_values reaches chunk.NumValues. r must allow reads anywhere within
// the file; fileSize bounds the scan against runaway loops on truncated
// input.
func Scan(r io.ReaderAt, chunk *format.ColumnMetaData, fileSize int64) ([]Info, error) {
	offset := chunk.DataPageOffset
	if chunk.HasDictionaryPageOffset && chunk.DictionaryPageOffset < offset {
		offset = chunk.DictionaryPageOffset
	}

	var pages []Info
	var seenValues int64

	for seenValues < chunk.NumValues {
		if offset < 0 || offset >= fileSize {
			return nil, fmt.Errorf("pages: scanning %v: %w", chunk.PathInSchema, errs.Truncated)
		}
		header, headerLen, err := readHeader(r, offset, fileSize)
		if err != nil {
			return nil, fmt.Errorf("pages: reading header of %v at offset %d: %w", chunk.PathInSchema, offset, err)
		}
		payloadOffset := offset + int64(headerLen)
		if payloadOffset+int64(header.CompressedPageSize) > fileSize {
			return nil, fmt.Errorf("pages: page at offset %d of %v runs past end of file: %w", offset, chunk.PathInSchema, errs.Truncated)
		}

		info := Info{
			Kind:          header.Type,
			Header:        header,
			PayloadOffset: payloadOffset,
			PayloadLength: header.CompressedPageSize,
		}
		pages = append(pages, info)

		switch header.Type {
		case format.DataPage:
			seenValues += int64(header.DataPageHeader.NumValues)
		case format.DataPageV2:
			seenValues += int64(header.DataPageHeaderV2.NumValues)
		case format.DictionaryPage, format.IndexPage:
			// Neither carries logical rows; scanning continues.
		}

		offset = payloadOffset + int64(header.CompressedPageSize)
	}

	return pages, nil
}

// readHeader probes a page header starting at offset, returning the decoded
// header and the number of bytes its encoding consumed.
func readHeader(r io.ReaderAt, offset, fileSize int64) (*format.PageHeader, int, error) {
	probeLen := int64(maxPageHeaderSize)
	if remaining := fileSize - offset; remaining < probeLen {
		probeLen = remaining
	}
	buf := make([]byte, probeLen)
	n, err := r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, 0, err
	}
	buf = buf[:n]

	tr := thrift.NewReader(buf)
	header, err := format.DecodePageHeader(tr)
	if err != nil {
		return nil, 0, err
	}
	return header, tr.Pos(), nil
}

// ReadPayload reads exactly n bytes at offset, the raw (possibly
// compressed) bytes of one page.
func ReadPayload(r io.ReaderAt, offset int64, n int32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("pages: reading payload at offset %d: %w", offset, err)
	}
	return buf, nil
}
