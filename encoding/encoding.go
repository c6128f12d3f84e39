// Package encoding defines the shared Decoder/Encoder contract implemented
// by each of the seven Parquet value encodings (PLAIN, RLE/bit-packed
// hybrid, dictionary, DELTA_BINARY_PACKED, DELTA_LENGTH_BYTE_ARRAY,
// DELTA_BYTE_ARRAY, BYTE_STREAM_SPLIT). Each family of physical values gets
// a single decode/encode method rather than one type per Go primitive,
// mirroring the shape the Parquet wire format itself uses.
package encoding

import (
	"errors"

	"github.com/rionmonster/hardwood-sub002/format"
)

var (
	// ErrNotSupported is returned by an Encoding's methods for value
	// families it does not implement (e.g. DELTA_BYTE_ARRAY has no Int32
	// method at all, and BYTE_STREAM_SPLIT has no ByteArray method).
	ErrNotSupported = errors.New("encoding: not supported")

	// ErrTooShort is returned when an encoded buffer ends before the
	// number of values it claims to hold has been produced.
	ErrTooShort = errors.New("encoding: input too short")
)

// Encoding identifies a concrete wire encoding and decodes/encodes each
// physical value family it supports.
type Encoding interface {
	// String returns the encoding's human-readable name, e.g. "PLAIN".
	String() string

	// Encoding returns the wire identifier used in column chunk metadata
	// and page headers.
	Encoding() format.Encoding

	NewDecoder(data []byte) Decoder
	NewEncoder() Encoder
}

// Decoder reads values of one physical family at a time out of a single
// encoded byte buffer, filling a caller-sized destination slice exactly the
// way io.Reader fills a []byte: dst is sized to the number of values wanted
// (known in advance from the page header, the dictionary size, or a
// preceding level decode), and the method returns how many were actually
// decoded. A buffer that runs out before filling dst returns a short count
// together with ErrTooShort.
type Decoder interface {
	DecodeBoolean(dst []bool) (int, error)
	DecodeInt32(dst []int32) (int, error)
	DecodeInt64(dst []int64) (int, error)
	DecodeInt96(dst [][12]byte) (int, error)
	DecodeFloat(dst []float32) (int, error)
	DecodeDouble(dst []float64) (int, error)
	DecodeByteArray(dst [][]byte) (int, error)
	DecodeFixedLenByteArray(dst [][]byte, size int) (int, error)
}

// Encoder writes values of one physical family at a time, appending to an
// internal buffer retrievable via Bytes.
type Encoder interface {
	EncodeBoolean(values []bool) error
	EncodeInt32(values []int32) error
	EncodeInt64(values []int64) error
	EncodeInt96(values [][12]byte) error
	EncodeFloat(values []float32) error
	EncodeDouble(values []float64) error
	EncodeByteArray(values [][]byte) error
	EncodeFixedLenByteArray(values [][]byte, size int) error
	Bytes() []byte
}

// NotSupported embeds into a concrete Encoding's Decoder/Encoder to satisfy
// the interfaces for value families it does not implement, so each codec
// only needs to define the methods it actually supports.
type NotSupported struct{}

func (NotSupported) DecodeBoolean([]bool) (int, error)             { return 0, ErrNotSupported }
func (NotSupported) DecodeInt32(dst []int32) (int, error)           { return 0, ErrNotSupported }
func (NotSupported) DecodeInt64(dst []int64) (int, error)           { return 0, ErrNotSupported }
func (NotSupported) DecodeInt96(dst [][12]byte) (int, error)        { return 0, ErrNotSupported }
func (NotSupported) DecodeFloat(dst []float32) (int, error)         { return 0, ErrNotSupported }
func (NotSupported) DecodeDouble(dst []float64) (int, error)        { return 0, ErrNotSupported }
func (NotSupported) DecodeByteArray(dst [][]byte) (int, error)      { return 0, ErrNotSupported }
func (NotSupported) DecodeFixedLenByteArray(dst [][]byte, size int) (int, error) {
	return 0, ErrNotSupported
}

func (NotSupported) EncodeBoolean([]bool) error              { return ErrNotSupported }
func (NotSupported) EncodeInt32([]int32) error               { return ErrNotSupported }
func (NotSupported) EncodeInt64([]int64) error                { return ErrNotSupported }
func (NotSupported) EncodeInt96([][12]byte) error             { return ErrNotSupported }
func (NotSupported) EncodeFloat([]float32) error              { return ErrNotSupported }
func (NotSupported) EncodeDouble([]float64) error             { return ErrNotSupported }
func (NotSupported) EncodeByteArray([][]byte) error           { return ErrNotSupported }
func (NotSupported) EncodeFixedLenByteArray([][]byte, int) error { return ErrNotSupported }
func (NotSupported) Bytes() []byte                            { return nil }
