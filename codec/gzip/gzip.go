// Package gzip implements the GZIP parquet compression codec using
// klauspost/compress's drop-in gzip replacement, which decodes the same
// wire format as the standard library but is substantially faster and
// tolerates concatenated member streams (members written back-to-back by
// some Parquet writers) transparently via multistream support.
package gzip

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/rionmonster/hardwood-sub002/format"
)

// Codec is the GZIP parquet compression codec.
type Codec struct {
	readers sync.Pool
}

func (c *Codec) String() string                            { return "GZIP" }
func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Gzip }

// Decode decompresses a GZIP payload that may consist of one or more
// concatenated members; klauspost's Reader reads across member boundaries
// by default (multistream enabled), so the concatenated-members testable
// property is satisfied without any special casing here.
func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	r, _ := c.readers.Get().(*gzip.Reader)
	defer func() {
		c.readers.Put(r)
	}()

	var err error
	if r == nil {
		r, err = gzip.NewReader(bytes.NewReader(src))
	} else {
		err = r.Reset(bytes.NewReader(src))
	}
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
