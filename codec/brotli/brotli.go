// Package brotli implements the BROTLI parquet compression codec using
// andybalholm/brotli.
package brotli

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/rionmonster/hardwood-sub002/format"
)

// Codec is the BROTLI parquet compression codec.
type Codec struct{}

func (Codec) String() string                            { return "BROTLI" }
func (Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
