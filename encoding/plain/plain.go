// Package plain implements the PLAIN encoding: fixed-width little-endian
// values for numeric types, length-prefixed bytes for BYTE_ARRAY, and raw
// fixed-size bytes for FIXED_LEN_BYTE_ARRAY. It is also the encoding used
// for a dictionary page's values, regardless of the column's own encoding.
package plain

import (
	"encoding/binary"
	"math"

	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/format"
)

// Encoding is the PLAIN wire encoding.
type Encoding struct{ encoding.NotSupported }

func (Encoding) String() string                { return "PLAIN" }
func (Encoding) Encoding() format.Encoding      { return format.Plain }
func (Encoding) NewDecoder(data []byte) encoding.Decoder {
	return &decoder{data: data}
}
func (Encoding) NewEncoder() encoding.Encoder { return &encoder{} }

type decoder struct {
	encoding.NotSupported
	data []byte
	pos  int
}

func (d *decoder) remaining() []byte { return d.data[d.pos:] }

func (d *decoder) DecodeBoolean(dst []bool) (int, error) {
	n := len(dst)
	need := (n + 7) / 8
	if need > len(d.remaining()) {
		n = len(d.remaining()) * 8
		if n > len(dst) {
			n = len(dst)
		}
	}
	for i := 0; i < n; i++ {
		byteIdx := i / 8
		bitIdx := uint(i % 8)
		dst[i] = d.data[d.pos+byteIdx]&(1<<bitIdx) != 0
	}
	d.pos += (n + 7) / 8
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeInt32(dst []int32) (int, error) {
	n := len(dst)
	if n*4 > len(d.remaining()) {
		n = len(d.remaining()) / 4
	}
	for i := 0; i < n; i++ {
		dst[i] = int32(binary.LittleEndian.Uint32(d.data[d.pos+i*4:]))
	}
	d.pos += n * 4
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeInt64(dst []int64) (int, error) {
	n := len(dst)
	if n*8 > len(d.remaining()) {
		n = len(d.remaining()) / 8
	}
	for i := 0; i < n; i++ {
		dst[i] = int64(binary.LittleEndian.Uint64(d.data[d.pos+i*8:]))
	}
	d.pos += n * 8
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeInt96(dst [][12]byte) (int, error) {
	n := len(dst)
	if n*12 > len(d.remaining()) {
		n = len(d.remaining()) / 12
	}
	for i := 0; i < n; i++ {
		copy(dst[i][:], d.data[d.pos+i*12:d.pos+i*12+12])
	}
	d.pos += n * 12
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeFloat(dst []float32) (int, error) {
	n := len(dst)
	if n*4 > len(d.remaining()) {
		n = len(d.remaining()) / 4
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(d.data[d.pos+i*4:]))
	}
	d.pos += n * 4
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeDouble(dst []float64) (int, error) {
	n := len(dst)
	if n*8 > len(d.remaining()) {
		n = len(d.remaining()) / 8
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.pos+i*8:]))
	}
	d.pos += n * 8
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeByteArray(dst [][]byte) (int, error) {
	n := 0
	for n < len(dst) {
		rem := d.remaining()
		if len(rem) < 4 {
			break
		}
		length := int(binary.LittleEndian.Uint32(rem))
		if len(rem) < 4+length {
			break
		}
		dst[n] = rem[4 : 4+length]
		d.pos += 4 + length
		n++
	}
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

func (d *decoder) DecodeFixedLenByteArray(dst [][]byte, size int) (int, error) {
	n := len(dst)
	if n*size > len(d.remaining()) {
		n = len(d.remaining()) / size
	}
	for i := 0; i < n; i++ {
		dst[i] = d.data[d.pos+i*size : d.pos+(i+1)*size]
	}
	d.pos += n * size
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}

type encoder struct {
	encoding.NotSupported
	buf []byte
}

func (e *encoder) Bytes() []byte { return e.buf }

func (e *encoder) EncodeBoolean(values []bool) error {
	n := (len(values) + 7) / 8
	start := len(e.buf)
	e.buf = append(e.buf, make([]byte, n)...)
	for i, v := range values {
		if v {
			e.buf[start+i/8] |= 1 << uint(i%8)
		}
	}
	return nil
}

func (e *encoder) EncodeInt32(values []int32) error {
	for _, v := range values {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		e.buf = append(e.buf, b[:]...)
	}
	return nil
}

func (e *encoder) EncodeInt64(values []int64) error {
	for _, v := range values {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		e.buf = append(e.buf, b[:]...)
	}
	return nil
}

func (e *encoder) EncodeInt96(values [][12]byte) error {
	for _, v := range values {
		e.buf = append(e.buf, v[:]...)
	}
	return nil
}

func (e *encoder) EncodeFloat(values []float32) error {
	for _, v := range values {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		e.buf = append(e.buf, b[:]...)
	}
	return nil
}

func (e *encoder) EncodeDouble(values []float64) error {
	for _, v := range values {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		e.buf = append(e.buf, b[:]...)
	}
	return nil
}

func (e *encoder) EncodeByteArray(values [][]byte) error {
	for _, v := range values {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(len(v)))
		e.buf = append(e.buf, b[:]...)
		e.buf = append(e.buf, v...)
	}
	return nil
}

func (e *encoder) EncodeFixedLenByteArray(values [][]byte, size int) error {
	for _, v := range values {
		e.buf = append(e.buf, v...)
	}
	return nil
}
