package pages

import (
	"fmt"

	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/encoding/bytestreamsplit"
	"github.com/rionmonster/hardwood-sub002/encoding/delta"
	"github.com/rionmonster/hardwood-sub002/encoding/plain"
	"github.com/rionmonster/hardwood-sub002/encoding/rle"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
)

// lookupEncoding resolves enc to the value-decoder implementation for
// physical type typ, excluding the two dictionary encodings (PLAIN_DICTIONARY,
// RLE_DICTIONARY), which decodeDataValues handles separately since they need the
// chunk's materialized dictionary rather than a self-contained decoder.
func lookupEncoding(enc format.Encoding, typ format.Type) (encoding.Encoding, error) {
	switch enc {
	case format.Plain:
		return plain.Encoding{}, nil
	case format.RLE:
		if typ != format.Boolean {
			return nil, fmt.Errorf("%w: RLE encoding is only valid for BOOLEAN, got %s", errs.Malformed, typ)
		}
		return rle.Encoding{}, nil
	case format.DeltaBinaryPacked:
		switch typ {
		case format.Int32:
			return delta.Int32Encoding{}, nil
		case format.Int64:
			return delta.Int64Encoding{}, nil
		default:
			return nil, fmt.Errorf("%w: DELTA_BINARY_PACKED is only valid for INT32/INT64, got %s", errs.Malformed, typ)
		}
	case format.DeltaLengthByteArray:
		return delta.LengthByteArrayEncoding{}, nil
	case format.DeltaByteArray:
		return delta.ByteArrayEncoding{}, nil
	case format.ByteStreamSplit:
		return bytestreamsplit.Encoding{}, nil
	case format.PlainDictionary, format.RLEDictionary:
		return nil, fmt.Errorf("pages: dictionary encoding must be handled by decodeDataValues directly")
	default:
		return nil, fmt.Errorf("%w: %s", errs.UnknownEnum, enc)
	}
}

func isDictionaryEncoding(enc format.Encoding) bool {
	return enc == format.PlainDictionary || enc == format.RLEDictionary
}
