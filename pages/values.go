package pages

import (
	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
)

// Values holds one physical-type family's worth of decoded, non-null
// values — the compact output of a value decoder before the def-level
// stream is used to re-interleave nulls back in (see parquet's
// valueFromBatch and record.Assembler).
type Values struct {
	Type    format.Type
	Boolean []bool
	Int32   []int32
	Int64   []int64
	Int96   [][12]byte
	Float   []float32
	Double  []float64
	Bytes   [][]byte
}

// Len returns the number of decoded values, regardless of which field they
// landed in.
func (v Values) Len() int {
	switch v.Type {
	case format.Boolean:
		return len(v.Boolean)
	case format.Int32:
		return len(v.Int32)
	case format.Int64:
		return len(v.Int64)
	case format.Int96:
		return len(v.Int96)
	case format.Float:
		return len(v.Float)
	case format.Double:
		return len(v.Double)
	case format.ByteArray, format.FixedLenByteArray:
		return len(v.Bytes)
	default:
		return 0
	}
}

// decodeValues pulls count values of typ out of dec into a freshly sized
// Values, returning errs.Truncated if dec could not produce count values.
func decodeValues(dec encoding.Decoder, typ format.Type, typeLength int32, count int) (Values, error) {
	v := Values{Type: typ}
	var n int
	var err error

	switch typ {
	case format.Boolean:
		v.Boolean = make([]bool, count)
		n, err = dec.DecodeBoolean(v.Boolean)
	case format.Int32:
		v.Int32 = make([]int32, count)
		n, err = dec.DecodeInt32(v.Int32)
	case format.Int64:
		v.Int64 = make([]int64, count)
		n, err = dec.DecodeInt64(v.Int64)
	case format.Int96:
		v.Int96 = make([][12]byte, count)
		n, err = dec.DecodeInt96(v.Int96)
	case format.Float:
		v.Float = make([]float32, count)
		n, err = dec.DecodeFloat(v.Float)
	case format.Double:
		v.Double = make([]float64, count)
		n, err = dec.DecodeDouble(v.Double)
	case format.ByteArray:
		v.Bytes = make([][]byte, count)
		n, err = dec.DecodeByteArray(v.Bytes)
	case format.FixedLenByteArray:
		v.Bytes = make([][]byte, count)
		n, err = dec.DecodeFixedLenByteArray(v.Bytes, int(typeLength))
	default:
		return Values{}, errs.UnknownEnum
	}

	if err != nil || n < count {
		return Values{}, errs.Truncated
	}
	return v, nil
}

// gather builds a Values of len(indices) entries by looking each one up in
// dict, the chunk's materialized dictionary page. An index at or beyond
// dict's length is a malformed dictionary-encoded stream.
func gather(dict Values, indices []uint32) (Values, error) {
	v := Values{Type: dict.Type}
	n := dict.Len()
	inBounds := func(i uint32) bool { return int(i) < n }

	switch dict.Type {
	case format.Boolean:
		v.Boolean = make([]bool, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Boolean[i] = dict.Boolean[idx]
		}
	case format.Int32:
		v.Int32 = make([]int32, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Int32[i] = dict.Int32[idx]
		}
	case format.Int64:
		v.Int64 = make([]int64, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Int64[i] = dict.Int64[idx]
		}
	case format.Int96:
		v.Int96 = make([][12]byte, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Int96[i] = dict.Int96[idx]
		}
	case format.Float:
		v.Float = make([]float32, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Float[i] = dict.Float[idx]
		}
	case format.Double:
		v.Double = make([]float64, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Double[i] = dict.Double[idx]
		}
	case format.ByteArray, format.FixedLenByteArray:
		v.Bytes = make([][]byte, len(indices))
		for i, idx := range indices {
			if !inBounds(idx) {
				return Values{}, errs.Malformed
			}
			v.Bytes[i] = dict.Bytes[idx]
		}
	default:
		return Values{}, errs.UnknownEnum
	}
	return v, nil
}
