package codec

import (
	"bytes"
	"testing"

	"github.com/rionmonster/hardwood-sub002/format"
)

func TestProviderUncompressed(t *testing.T) {
	p := NewProvider()
	out, err := p.Decode(format.Uncompressed, nil, []byte("hello"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, []byte("hello")) {
		t.Errorf("out = %q, want %q", out, "hello")
	}
}

func TestProviderLookupUnsupported(t *testing.T) {
	p := NewProvider()
	if _, err := p.Lookup(format.Lzo); err == nil {
		t.Fatal("expected an error looking up LZO")
	}
}

func TestDefaultProviderRegistersKnownCodecs(t *testing.T) {
	p := NewDefaultProvider()
	for _, id := range []format.CompressionCodec{
		format.Snappy, format.Gzip, format.Brotli, format.Zstd, format.Lz4, format.Lz4Raw,
	} {
		if _, err := p.Lookup(id); err != nil {
			t.Errorf("Lookup(%s): %v", id, err)
		}
	}
	if _, err := p.Lookup(format.Lzo); err == nil {
		t.Error("Lookup(LZO) should still fail")
	}
}
