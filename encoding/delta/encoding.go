package delta

import (
	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/format"
)

// Int32Encoding adapts BinaryPackedDecoder to the shared encoding.Encoding
// contract for INT32 columns using DELTA_BINARY_PACKED.
type Int32Encoding struct{ encoding.NotSupported }

func (Int32Encoding) String() string                { return "DELTA_BINARY_PACKED" }
func (Int32Encoding) Encoding() format.Encoding      { return format.DeltaBinaryPacked }
func (Int32Encoding) NewDecoder(data []byte) encoding.Decoder {
	return &int32Decoder{inner: NewBinaryPackedDecoder(data)}
}
func (Int32Encoding) NewEncoder() encoding.Encoder { return nil }

type int32Decoder struct {
	encoding.NotSupported
	inner *BinaryPackedDecoder
}

func (d *int32Decoder) DecodeInt32(dst []int32) (int, error) {
	return d.inner.DecodeInt32(dst)
}

// Int64Encoding adapts BinaryPackedDecoder to the shared encoding.Encoding
// contract for INT64 columns using DELTA_BINARY_PACKED.
type Int64Encoding struct{ encoding.NotSupported }

func (Int64Encoding) String() string                { return "DELTA_BINARY_PACKED" }
func (Int64Encoding) Encoding() format.Encoding      { return format.DeltaBinaryPacked }
func (Int64Encoding) NewDecoder(data []byte) encoding.Decoder {
	return &int64Decoder{inner: NewBinaryPackedDecoder(data)}
}
func (Int64Encoding) NewEncoder() encoding.Encoder { return nil }

type int64Decoder struct {
	encoding.NotSupported
	inner *BinaryPackedDecoder
}

func (d *int64Decoder) DecodeInt64(dst []int64) (int, error) {
	return d.inner.DecodeInt64(dst)
}

// LengthByteArrayEncoding adapts LengthByteArrayDecoder to the shared
// encoding.Encoding contract for DELTA_LENGTH_BYTE_ARRAY.
type LengthByteArrayEncoding struct{ encoding.NotSupported }

func (LengthByteArrayEncoding) String() string           { return "DELTA_LENGTH_BYTE_ARRAY" }
func (LengthByteArrayEncoding) Encoding() format.Encoding { return format.DeltaLengthByteArray }
func (LengthByteArrayEncoding) NewDecoder(data []byte) encoding.Decoder {
	return &lengthByteArrayDecoder{inner: NewLengthByteArrayDecoder(data)}
}
func (LengthByteArrayEncoding) NewEncoder() encoding.Encoder { return nil }

type lengthByteArrayDecoder struct {
	encoding.NotSupported
	inner *LengthByteArrayDecoder
}

func (d *lengthByteArrayDecoder) DecodeByteArray(dst [][]byte) (int, error) {
	return d.inner.DecodeByteArray(dst)
}

// ByteArrayEncoding adapts ByteArrayDecoder to the shared encoding.Encoding
// contract for DELTA_BYTE_ARRAY.
type ByteArrayEncoding struct{ encoding.NotSupported }

func (ByteArrayEncoding) String() string           { return "DELTA_BYTE_ARRAY" }
func (ByteArrayEncoding) Encoding() format.Encoding { return format.DeltaByteArray }
func (ByteArrayEncoding) NewDecoder(data []byte) encoding.Decoder {
	return &byteArrayDecoder{inner: NewByteArrayDecoder(data)}
}
func (ByteArrayEncoding) NewEncoder() encoding.Encoder { return nil }

type byteArrayDecoder struct {
	encoding.NotSupported
	inner *ByteArrayDecoder
}

func (d *byteArrayDecoder) DecodeByteArray(dst [][]byte) (int, error) {
	return d.inner.DecodeByteArray(dst)
}
