// Package snappy implements the SNAPPY parquet compression codec on top of
// klauspost/compress/s2, which decodes the plain Snappy block format
// without needing a separate golang/snappy dependency already pulled in for
// zstd/s2 elsewhere in this module.
package snappy

import (
	"github.com/klauspost/compress/s2"

	"github.com/rionmonster/hardwood-sub002/format"
)

// Codec is the SNAPPY parquet compression codec.
type Codec struct{}

func (Codec) String() string                            { return "SNAPPY" }
func (Codec) CompressionCodec() format.CompressionCodec { return format.Snappy }

// Decode decompresses a raw (unframed) Snappy block, the form Parquet
// writers use for SNAPPY-coded pages.
func (Codec) Decode(dst, src []byte) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, err
	}
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	return s2.Decode(dst, src)
}
