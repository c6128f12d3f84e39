package delta

import (
	"github.com/rionmonster/hardwood-sub002/encoding"
	"github.com/rionmonster/hardwood-sub002/errs"
)

// LengthByteArrayDecoder decodes DELTA_LENGTH_BYTE_ARRAY: a
// DELTA_BINARY_PACKED stream of lengths (self-describing its own value
// count), immediately followed by the concatenation of that many raw byte
// strings with no further framing.
type LengthByteArrayDecoder struct {
	data    []byte
	lengths *BinaryPackedDecoder

	materialized bool
	allLengths   []int64
	bytesPos     int
	index        int
}

// NewLengthByteArrayDecoder constructs a decoder over data, which must
// begin at the lengths stream's DELTA_BINARY_PACKED header.
func NewLengthByteArrayDecoder(data []byte) *LengthByteArrayDecoder {
	return &LengthByteArrayDecoder{data: data, lengths: NewBinaryPackedDecoder(data)}
}

func (d *LengthByteArrayDecoder) materialize() error {
	if d.materialized {
		return nil
	}
	if err := d.lengths.ensureHeader(); err != nil {
		return err
	}
	d.allLengths = make([]int64, d.lengths.totalValues)
	if _, err := d.lengths.DecodeInt64(d.allLengths); err != nil {
		return err
	}
	d.bytesPos = d.lengths.pos
	d.materialized = true
	return nil
}

// DecodeByteArray fills dst with up to len(dst) byte strings, each slice
// aliasing the decoder's backing data.
func (d *LengthByteArrayDecoder) DecodeByteArray(dst [][]byte) (int, error) {
	if err := d.materialize(); err != nil {
		return 0, err
	}
	n := 0
	for n < len(dst) && d.index < len(d.allLengths) {
		l := int(d.allLengths[d.index])
		if l < 0 || d.bytesPos+l > len(d.data) {
			return n, errs.Truncated
		}
		dst[n] = d.data[d.bytesPos : d.bytesPos+l]
		d.bytesPos += l
		d.index++
		n++
	}
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}
