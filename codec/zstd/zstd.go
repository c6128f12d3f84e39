// Package zstd implements the ZSTD parquet compression codec using
// klauspost/compress/zstd.
package zstd

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/rionmonster/hardwood-sub002/format"
)

// Codec is the ZSTD parquet compression codec. A single decoder is shared
// across calls; zstd.Decoder is documented safe for concurrent use via
// DecodeAll, which does not retain state between calls.
type Codec struct {
	once    sync.Once
	decoder *zstd.Decoder
	initErr error
}

func (c *Codec) String() string                            { return "ZSTD" }
func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

func (c *Codec) init() {
	c.decoder, c.initErr = zstd.NewReader(nil)
}

// Decode decompresses src into dst, using dst's capacity as a hint for the
// output buffer size.
func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	c.once.Do(c.init)
	if c.initErr != nil {
		return nil, c.initErr
	}
	return c.decoder.DecodeAll(src, dst[:0])
}
