package codec

import (
	"github.com/rionmonster/hardwood-sub002/codec/brotli"
	"github.com/rionmonster/hardwood-sub002/codec/gzip"
	"github.com/rionmonster/hardwood-sub002/codec/lz4"
	"github.com/rionmonster/hardwood-sub002/codec/snappy"
	"github.com/rionmonster/hardwood-sub002/codec/zstd"
)

// NewDefaultProvider returns a Provider with every codec this module
// implements registered: Uncompressed (built in), Snappy, Gzip, Brotli,
// Lz4, Zstd, Lz4Raw. Lzo has no registration and so resolves to
// errs.UnsupportedCodec, matching the specification's explicit non-goal.
func NewDefaultProvider() *Provider {
	p := NewProvider()
	p.Register(&snappy.Codec{})
	p.Register(&gzip.Codec{})
	p.Register(&brotli.Codec{})
	p.Register(&zstd.Codec{})
	p.Register(lz4.RawCodec{})
	p.Register(lz4.LegacyCodec{})
	return p
}
