package rle

import "testing"

func TestDecodeLevelsRunLengthEncoded(t *testing.T) {
	// header = (5<<1)|0 = 10 = 0x0a (RLE run of 5), bit width 2 -> 1 value
	// byte holding the repeated value 3.
	data := []byte{0x0a, 0x03}
	got, err := DecodeLevels(data, 2, 5)
	if err != nil {
		t.Fatalf("DecodeLevels: %v", err)
	}
	want := []uint8{3, 3, 3, 3, 3}
	if !equalBytes(got, want) {
		t.Errorf("DecodeLevels = %v, want %v", got, want)
	}
}

func TestDecodeLevelsBitPacked(t *testing.T) {
	// header = (1<<1)|1 = 3 (one bit-packed group of 8), bit width 3;
	// values 0..7 packed LSB-first, 3 bits each, into 3 bytes.
	data := []byte{0x03, 0x88, 0xC6, 0xFA}
	got, err := DecodeLevels(data, 3, 8)
	if err != nil {
		t.Fatalf("DecodeLevels: %v", err)
	}
	want := []uint8{0, 1, 2, 3, 4, 5, 6, 7}
	if !equalBytes(got, want) {
		t.Errorf("DecodeLevels = %v, want %v", got, want)
	}
}

func TestDecodeLevelsZeroWidth(t *testing.T) {
	got, err := DecodeLevels(nil, 0, 4)
	if err != nil {
		t.Fatalf("DecodeLevels: %v", err)
	}
	want := []uint8{0, 0, 0, 0}
	if !equalBytes(got, want) {
		t.Errorf("DecodeLevels = %v, want %v", got, want)
	}
}

func TestDecodeLevelsTruncatedIsMalformed(t *testing.T) {
	// Declares a run of 5 but the stream only has the 1 header byte and no
	// value byte for the bit width.
	data := []byte{0x0a}
	if _, err := DecodeLevels(data, 2, 5); err == nil {
		t.Errorf("expected error decoding truncated level stream")
	}
}

func TestHybridDecoderMixedRuns(t *testing.T) {
	// A run-length run of 3 copies of 7 (bit width 4, 1 byte for value),
	// followed by a bit-packed group of 8 values 0..7 (bit width 4, 4
	// bytes), exercising both run kinds back to back.
	rleHeader := byte((3 << 1) | 0)
	packedHeader := byte((1 << 1) | 1)
	// 0..7 at 4 bits each, LSB-first: byte0=v1<<4|v0, byte1=v3<<4|v2, etc.
	packed := []byte{
		0x10, // v0=0, v1=1
		0x32, // v2=2, v3=3
		0x54, // v4=4, v5=5
		0x76, // v6=6, v7=7
	}
	data := append([]byte{rleHeader, 0x07, packedHeader}, packed...)

	dec := NewHybridDecoder(data, 4)
	dst := make([]uint32, 11)
	n, err := dec.Decode(dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != 11 {
		t.Fatalf("n = %d, want 11", n)
	}
	want := []uint32{7, 7, 7, 0, 1, 2, 3, 4, 5, 6, 7}
	for i, w := range want {
		if dst[i] != w {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], w)
		}
	}
}

func equalBytes(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
