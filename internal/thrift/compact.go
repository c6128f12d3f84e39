// Package thrift implements the subset of the Thrift compact protocol used
// to encode Parquet file metadata: variable-length integers, zigzag signed
// integers, and the field/list/map framing rules. It is a positional reader
// over an in-memory byte region rather than a general Thrift transport —
// Parquet footers and page headers are read fully into memory before being
// decoded, so there is no need for a streaming abstraction.
//
// https://github.com/apache/thrift/blob/master/doc/specs/thrift-compact-protocol.md
package thrift

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rionmonster/hardwood-sub002/errs"
)

// ErrTruncated is returned when a read runs past the end of the backing
// byte region.
var ErrTruncated = errs.Truncated

// Compact protocol type tags, used both as the low nibble of a field header
// and as the element type of list/set/map headers.
const (
	TypeStop          = 0x00
	TypeBooleanTrue   = 0x01
	TypeBooleanFalse  = 0x02
	TypeByte          = 0x03
	TypeI16           = 0x04
	TypeI32           = 0x05
	TypeI64           = 0x06
	TypeDouble        = 0x07
	TypeBinary        = 0x08
	TypeList          = 0x09
	TypeSet           = 0x0A
	TypeMap           = 0x0B
	TypeStruct        = 0x0C
)

// Reader decodes Thrift compact-protocol values from a fixed byte slice.
type Reader struct {
	buf   []byte
	pos   int
	stack []int16 // saved "last field id" per nesting level
	last  int16
}

// NewReader constructs a Reader over buf. No copy of buf is made; the caller
// must not mutate it while decoding is in progress.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Reset rebinds the reader to a new byte slice and clears all state.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.pos = 0
	r.stack = r.stack[:0]
	r.last = 0
}

// Pos returns the current read offset within the backing buffer.
func (r *Reader) Pos() int { return r.pos }

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUvarint reads a Thrift-style unsigned LEB128 varint: 7 bits per byte,
// the high bit marking continuation.
func (r *Reader) ReadUvarint() (uint64, error) {
	var x uint64
	var s uint
	for i := 0; i < 10; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b < 0x80 {
			if i == 9 && b > 1 {
				return 0, fmt.Errorf("thrift: varint overflows 64 bits")
			}
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, fmt.Errorf("thrift: varint too long")
}

// ReadVarint reads a zigzag-encoded signed varint.
func (r *Reader) ReadVarint() (int64, error) {
	u, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// ReadDouble reads a fixed-width little-endian IEEE-754 double.
func (r *Reader) ReadDouble() (float64, error) {
	if r.Len() < 8 {
		return 0, ErrTruncated
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadBytes reads a length-prefixed (varint) byte blob. The returned slice
// aliases the reader's backing buffer and must be copied if retained beyond
// the buffer's lifetime.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FieldHeader decodes one field header of a struct: a zero byte marks the
// end of the struct (stop=true); otherwise the high nibble carries the
// field-id delta from the last field read at this nesting level (0 means an
// absolute zigzag-varint id follows), and the low nibble carries the type
// tag. Booleans are special-cased: the type nibble itself is 0x01 (true) or
// 0x02 (false), with no separate value byte.
func (r *Reader) FieldHeader() (id int16, typ byte, stop bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, false, err
	}
	if b == TypeStop {
		return 0, 0, true, nil
	}

	typ = b & 0x0f
	delta := b >> 4

	if delta == 0 {
		v, err := r.ReadVarint()
		if err != nil {
			return 0, 0, false, err
		}
		id = int16(v)
	} else {
		id = r.last + int16(delta)
	}
	r.last = id
	return id, typ, false, nil
}

// EnterStruct saves the current "last field id" and resets it to zero, per
// the nesting discipline used when decoding a struct-valued field.
func (r *Reader) EnterStruct() {
	r.stack = append(r.stack, r.last)
	r.last = 0
}

// ExitStruct restores the "last field id" saved by the matching EnterStruct.
func (r *Reader) ExitStruct() {
	n := len(r.stack)
	r.last = r.stack[n-1]
	r.stack = r.stack[:n-1]
}

// ReadListHeader decodes a list/set header: sizes below 15 are packed into
// the header byte itself, larger sizes follow as a varint.
func (r *Reader) ReadListHeader() (size int, elemType byte, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	elemType = b & 0x0f
	n := int(b >> 4)
	if n == 15 {
		v, err := r.ReadUvarint()
		if err != nil {
			return 0, 0, err
		}
		n = int(v)
	}
	return n, elemType, nil
}

// ReadMapHeader decodes a map header: an empty map is encoded as a single
// zero byte (no key/value types follow); otherwise the size is a varint
// followed by one byte packing the key and value type tags.
func (r *Reader) ReadMapHeader() (size int, keyType, valType byte, err error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return 0, 0, 0, err
	}
	if n == 0 {
		return 0, 0, 0, nil
	}
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, 0, err
	}
	return int(n), b >> 4, b & 0x0f, nil
}

// Skip advances past the payload of a field of the given type tag, recursing
// into nested structs/lists/sets/maps. Skipping an unrecognized type tag is
// a fatal error, per the compact-protocol nesting discipline.
func (r *Reader) Skip(typ byte) error {
	switch typ {
	case TypeBooleanTrue, TypeBooleanFalse:
		return nil
	case TypeByte:
		_, err := r.ReadByte()
		return err
	case TypeI16, TypeI32, TypeI64:
		_, err := r.ReadVarint()
		return err
	case TypeDouble:
		_, err := r.ReadDouble()
		return err
	case TypeBinary:
		_, err := r.ReadBytes()
		return err
	case TypeStruct:
		r.EnterStruct()
		for {
			_, ftyp, stop, err := r.FieldHeader()
			if err != nil {
				return err
			}
			if stop {
				break
			}
			if err := r.Skip(ftyp); err != nil {
				return err
			}
		}
		r.ExitStruct()
		return nil
	case TypeList, TypeSet:
		n, elemType, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := r.Skip(elemType); err != nil {
				return err
			}
		}
		return nil
	case TypeMap:
		n, keyType, valType, err := r.ReadMapHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := r.Skip(keyType); err != nil {
				return err
			}
			if err := r.Skip(valType); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("thrift: cannot skip unknown type tag 0x%02x", typ)
	}
}
