package column

import (
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/pages"
)

// splitValues takes the first count non-null values out of the
// concatenation of queue (successive DataPages' decoded Values, in file
// order) and returns them as one Values alongside the queue entries still
// unconsumed. queue's entries are never mutated in place: a partially
// consumed pages.Values is replaced with a freshly sliced one.
func splitValues(typ format.Type, queue []pages.Values, count int) (pages.Values, []pages.Values) {
	out := pages.Values{Type: typ}
	remaining := count

	i := 0
	for i < len(queue) && remaining > 0 {
		v := queue[i]
		n := v.Len()
		if n <= remaining {
			appendValues(&out, v)
			remaining -= n
			i++
			continue
		}
		head, tail := splitOne(v, remaining)
		appendValues(&out, head)
		queue[i] = tail
		remaining = 0
	}

	return out, queue[i:]
}

// splitOne divides v into its first n values and the rest.
func splitOne(v pages.Values, n int) (head, tail pages.Values) {
	head.Type = v.Type
	tail.Type = v.Type
	switch v.Type {
	case format.Boolean:
		head.Boolean, tail.Boolean = v.Boolean[:n], v.Boolean[n:]
	case format.Int32:
		head.Int32, tail.Int32 = v.Int32[:n], v.Int32[n:]
	case format.Int64:
		head.Int64, tail.Int64 = v.Int64[:n], v.Int64[n:]
	case format.Int96:
		head.Int96, tail.Int96 = v.Int96[:n], v.Int96[n:]
	case format.Float:
		head.Float, tail.Float = v.Float[:n], v.Float[n:]
	case format.Double:
		head.Double, tail.Double = v.Double[:n], v.Double[n:]
	default:
		head.Bytes, tail.Bytes = v.Bytes[:n], v.Bytes[n:]
	}
	return head, tail
}

// appendValues appends src's values onto dst in place, regardless of which
// typed field they live in.
func appendValues(dst *pages.Values, src pages.Values) {
	switch src.Type {
	case format.Boolean:
		dst.Boolean = append(dst.Boolean, src.Boolean...)
	case format.Int32:
		dst.Int32 = append(dst.Int32, src.Int32...)
	case format.Int64:
		dst.Int64 = append(dst.Int64, src.Int64...)
	case format.Int96:
		dst.Int96 = append(dst.Int96, src.Int96...)
	case format.Float:
		dst.Float = append(dst.Float, src.Float...)
	case format.Double:
		dst.Double = append(dst.Double, src.Double...)
	default:
		dst.Bytes = append(dst.Bytes, src.Bytes...)
	}
}
