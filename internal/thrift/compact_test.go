package thrift

import "testing"

func TestReadUvarint(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xac, 0x02}, 300},
	}
	for _, c := range cases {
		r := NewReader(c.in)
		got, err := r.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint(%v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ReadUvarint(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestReadVarintZigZag(t *testing.T) {
	cases := []struct {
		in   []byte
		want int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, -1},
		{[]byte{0x02}, 1},
		{[]byte{0x03}, -2},
		{[]byte{0x04}, 2},
	}
	for _, c := range cases {
		r := NewReader(c.in)
		got, err := r.ReadVarint()
		if err != nil {
			t.Fatalf("ReadVarint(%v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ReadVarint(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFieldHeaderDelta(t *testing.T) {
	// Field 1 (i32), field 3 (binary): delta-encoded as (1<<4|0x05), (2<<4|0x08).
	r := NewReader([]byte{0x15, 0x28, 0x00})

	id, typ, stop, err := r.FieldHeader()
	if err != nil || stop {
		t.Fatalf("FieldHeader #1: id=%d typ=%d stop=%v err=%v", id, typ, stop, err)
	}
	if id != 1 || typ != TypeI32 {
		t.Errorf("FieldHeader #1 = (%d,%d), want (1,%d)", id, typ, TypeI32)
	}

	id, typ, stop, err = r.FieldHeader()
	if err != nil || stop {
		t.Fatalf("FieldHeader #2: id=%d typ=%d stop=%v err=%v", id, typ, stop, err)
	}
	if id != 3 || typ != TypeBinary {
		t.Errorf("FieldHeader #2 = (%d,%d), want (3,%d)", id, typ, TypeBinary)
	}

	_, _, stop, err = r.FieldHeader()
	if err != nil || !stop {
		t.Fatalf("expected stop field, got stop=%v err=%v", stop, err)
	}
}

func TestFieldHeaderAbsoluteID(t *testing.T) {
	// Delta nibble 0 means an absolute zigzag-varint field id follows.
	// Field 20 (i64): header byte 0x06, then zigzag-varint for 20 == 40 == 0x28.
	r := NewReader([]byte{0x06, 0x28})
	id, typ, stop, err := r.FieldHeader()
	if err != nil || stop {
		t.Fatalf("FieldHeader: id=%d typ=%d stop=%v err=%v", id, typ, stop, err)
	}
	if id != 20 || typ != TypeI64 {
		t.Errorf("FieldHeader = (%d,%d), want (20,%d)", id, typ, TypeI64)
	}
}

func TestListHeaderShortAndLong(t *testing.T) {
	// Short form: 3 elements of type i32 -> (3<<4 | 0x05).
	r := NewReader([]byte{0x35})
	n, typ, err := r.ReadListHeader()
	if err != nil {
		t.Fatalf("ReadListHeader short: %v", err)
	}
	if n != 3 || typ != TypeI32 {
		t.Errorf("ReadListHeader short = (%d,%d), want (3,%d)", n, typ, TypeI32)
	}

	// Long form: size >= 15 packed as 0xf_ then a varint size follows.
	r2 := NewReader([]byte{0xf8, 0x14}) // type binary, size varint 20
	n2, typ2, err := r2.ReadListHeader()
	if err != nil {
		t.Fatalf("ReadListHeader long: %v", err)
	}
	if n2 != 20 || typ2 != TypeBinary {
		t.Errorf("ReadListHeader long = (%d,%d), want (20,%d)", n2, typ2, TypeBinary)
	}
}

func TestMapHeaderEmptyAndNonEmpty(t *testing.T) {
	r := NewReader([]byte{0x00})
	n, _, _, err := r.ReadMapHeader()
	if err != nil {
		t.Fatalf("ReadMapHeader empty: %v", err)
	}
	if n != 0 {
		t.Errorf("ReadMapHeader empty size = %d, want 0", n)
	}

	// size=2, key type binary (0x08), value type i32 (0x05).
	r2 := NewReader([]byte{0x02, 0x85})
	n2, kt, vt, err := r2.ReadMapHeader()
	if err != nil {
		t.Fatalf("ReadMapHeader non-empty: %v", err)
	}
	if n2 != 2 || kt != TypeBinary || vt != TypeI32 {
		t.Errorf("ReadMapHeader non-empty = (%d,%d,%d), want (2,%d,%d)", n2, kt, vt, TypeBinary, TypeI32)
	}
}

func TestSkipNestedStruct(t *testing.T) {
	// Outer struct has one field (id 1, nested struct) containing one field
	// (id 1, i32 value 0x2a), then both structs stop, leaving a trailing byte
	// to prove the skip consumed exactly the nested struct's bytes.
	r := NewReader([]byte{
		0x1c,       // field 1, type struct
		0x15,       // nested field 1, type i32
		0x54,       // zigzag varint 42
		0x00,       // nested struct stop
		0x00,       // outer struct stop
		0xff,       // sentinel trailing byte
	})
	_, typ, stop, err := r.FieldHeader()
	if err != nil || stop {
		t.Fatalf("outer FieldHeader: typ=%d stop=%v err=%v", typ, stop, err)
	}
	if typ != TypeStruct {
		t.Fatalf("outer field type = %d, want struct", typ)
	}
	if err := r.Skip(typ); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	_, _, stop, err = r.FieldHeader()
	if err != nil || !stop {
		t.Fatalf("expected outer struct stop, got stop=%v err=%v", stop, err)
	}
	b, err := r.ReadByte()
	if err != nil || b != 0xff {
		t.Fatalf("sentinel byte = %#x, err=%v, want 0xff", b, err)
	}
}

func TestReadBytesAndString(t *testing.T) {
	r := NewReader([]byte{0x05, 'h', 'e', 'l', 'l', 'o'})
	s, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if s != "hello" {
		t.Errorf("ReadString = %q, want %q", s, "hello")
	}
}

func TestTruncatedInput(t *testing.T) {
	r := NewReader([]byte{0x80})
	if _, err := r.ReadUvarint(); err != ErrTruncated {
		t.Errorf("ReadUvarint on truncated input = %v, want ErrTruncated", err)
	}
}
