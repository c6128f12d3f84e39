package pages

import (
	"fmt"

	"github.com/rionmonster/hardwood-sub002/codec"
	"github.com/rionmonster/hardwood-sub002/encoding/plain"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
)

// decodeDictionaryPage decompresses and decodes a DICTIONARY_PAGE's values,
// which are always written with PLAIN regardless of the encoding named in
// the dictionary page header (the header's encoding field only
// distinguishes the legacy PLAIN_DICTIONARY tag from PLAIN; both mean
// "plain-encoded values").
func decodeDictionaryPage(raw []byte, info Info, chunk *format.ColumnMetaData, typeLength int32, codecs *codec.Provider) (Values, error) {
	payload, err := decompressPage(raw, chunk.Codec, info.Header.UncompressedPageSize, true, codecs)
	if err != nil {
		return Values{}, fmt.Errorf("pages: decompressing dictionary page: %w", err)
	}
	numValues := int(info.Header.DictionaryPageHeader.NumValues)
	dec := plain.Encoding{}.NewDecoder(payload)
	values, err := decodeValues(dec, chunk.Type, typeLength, numValues)
	if err != nil {
		return Values{}, fmt.Errorf("pages: decoding dictionary page: %w", err)
	}
	return values, nil
}

// decompressPage returns payload's decompressed bytes. always forces
// decompression regardless of a V2 is_compressed flag, since dictionary
// pages (unlike V2 data pages) have no per-page opt-out of the chunk codec.
func decompressPage(payload []byte, c format.CompressionCodec, uncompressedSize int32, always bool, codecs *codec.Provider) ([]byte, error) {
	if c == format.Uncompressed {
		return payload, nil
	}
	if !always {
		return payload, nil
	}
	out := make([]byte, 0, uncompressedSize)
	dst, err := codecs.Decode(c, out, payload)
	if err != nil {
		return nil, err
	}
	if int32(len(dst)) != uncompressedSize {
		return nil, fmt.Errorf("%w: decompressed %d bytes, expected %d", errs.Malformed, len(dst), uncompressedSize)
	}
	return dst, nil
}
