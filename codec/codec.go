// Package codec defines the decompression contract the core reader
// consumes from its pluggable compression collaborators, and maintains a
// table mapping each wire CompressionCodec identifier to its implementation.
//
// Per the specification, compression codecs are out-of-core external
// collaborators: the page scanner (pages package) calls into this package
// to turn a compressed page payload of known uncompressed length into plain
// bytes, without needing to know which algorithm produced it.
package codec

import (
	"fmt"
	"sync"

	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
)

// Codec decompresses byte spans of a known uncompressed size. Implementations
// must be safe for concurrent use by multiple goroutines, since the page
// scanner's I/O/decode pool may call Decode from many workers at once; any
// internal native handles that are not individually thread-safe must be
// pooled internally (acquire/release per call).
type Codec interface {
	// String returns the codec's human-readable name, e.g. "ZSTD".
	String() string

	// CompressionCodec returns the wire identifier this codec implements.
	CompressionCodec() format.CompressionCodec

	// Decode decompresses src into dst, growing or reallocating dst as
	// needed, and returns the resulting slice. The caller passes dst
	// pre-sized to the declared uncompressed length when known.
	Decode(dst, src []byte) ([]byte, error)
}

// Provider resolves a format.CompressionCodec identifier to a Codec,
// serving as the injection point the page scanner (C6) depends on.
type Provider struct {
	mu     sync.RWMutex
	codecs map[format.CompressionCodec]Codec
}

// NewProvider returns a Provider with only the built-in Uncompressed codec
// registered; NewDefaultProvider adds Snappy, Gzip, Brotli, Lz4, Zstd and
// Lz4Raw on top of it. Lzo is never registered.
func NewProvider() *Provider {
	p := &Provider{codecs: make(map[format.CompressionCodec]Codec, 8)}
	p.Register(uncompressedCodec{})
	return p
}

// Register installs c as the implementation for its CompressionCodec,
// replacing any previous registration for that identifier.
func (p *Provider) Register(c Codec) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codecs[c.CompressionCodec()] = c
}

// Lookup returns the Codec registered for id, or an UnsupportedCodec error
// wrapping the codec's wire name when none is registered (either because
// the identifier is Lzo, which this reader never implements, or because the
// caller built a Provider without registering the optional codec packages).
func (p *Provider) Lookup(id format.CompressionCodec) (Codec, error) {
	p.mu.RLock()
	c, ok := p.codecs[id]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.UnsupportedCodec, id)
	}
	return c, nil
}

// Decode resolves id's codec and decompresses src into dst in one call.
func (p *Provider) Decode(id format.CompressionCodec, dst, src []byte) ([]byte, error) {
	c, err := p.Lookup(id)
	if err != nil {
		return nil, err
	}
	return c.Decode(dst, src)
}

type uncompressedCodec struct{}

func (uncompressedCodec) String() string                               { return "UNCOMPRESSED" }
func (uncompressedCodec) CompressionCodec() format.CompressionCodec    { return format.Uncompressed }
func (uncompressedCodec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
