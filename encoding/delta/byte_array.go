package delta

import "github.com/rionmonster/hardwood-sub002/encoding"

// ByteArrayDecoder decodes DELTA_BYTE_ARRAY: a DELTA_BINARY_PACKED stream
// of prefix lengths (how many leading bytes each value shares with its
// predecessor), immediately followed by a DELTA_LENGTH_BYTE_ARRAY stream of
// the non-shared suffixes. Each value is reassembled as
// previous[:prefixLength] + suffix.
type ByteArrayDecoder struct {
	data []byte

	prefixes     *BinaryPackedDecoder
	suffixes     *LengthByteArrayDecoder
	initialized  bool
	prefixLens   []int64
	previous     []byte
	index        int
}

// NewByteArrayDecoder constructs a decoder over data, which must begin at
// the prefix-lengths stream's header.
func NewByteArrayDecoder(data []byte) *ByteArrayDecoder {
	return &ByteArrayDecoder{data: data, prefixes: NewBinaryPackedDecoder(data)}
}

func (d *ByteArrayDecoder) init() error {
	if d.initialized {
		return nil
	}
	if err := d.prefixes.ensureHeader(); err != nil {
		return err
	}
	d.prefixLens = make([]int64, d.prefixes.totalValues)
	if _, err := d.prefixes.DecodeInt64(d.prefixLens); err != nil {
		return err
	}
	d.suffixes = NewLengthByteArrayDecoder(d.data[d.prefixes.pos:])
	d.initialized = true
	return nil
}

// DecodeByteArray fills dst with up to len(dst) reconstructed byte strings.
func (d *ByteArrayDecoder) DecodeByteArray(dst [][]byte) (int, error) {
	if err := d.init(); err != nil {
		return 0, err
	}
	n := 0
	for n < len(dst) && d.index < len(d.prefixLens) {
		suffix := make([][]byte, 1)
		got, err := d.suffixes.DecodeByteArray(suffix)
		if got == 0 {
			if err == nil {
				err = encoding.ErrTooShort
			}
			return n, err
		}
		prefixLen := int(d.prefixLens[d.index])
		if prefixLen > len(d.previous) {
			prefixLen = len(d.previous)
		}
		value := make([]byte, 0, prefixLen+len(suffix[0]))
		value = append(value, d.previous[:prefixLen]...)
		value = append(value, suffix[0]...)
		dst[n] = value
		d.previous = value
		d.index++
		n++
	}
	if n < len(dst) {
		return n, encoding.ErrTooShort
	}
	return n, nil
}
