package column

import (
	bitsutil "github.com/rionmonster/hardwood-sub002/internal/bits"
	"github.com/rionmonster/hardwood-sub002/pages"
)

// accumulator concatenates a chunk's successive DataPages into Batches of
// batchSize logical rows, since a page's own size rarely matches the
// coordinator's chosen batch size.
type accumulator struct {
	batchSize int
	maxDef    uint8

	defLevels []uint8
	repLevels []uint8
	values    []pages.Values
}

// newAccumulator accumulates pages for a leaf column whose maximum
// definition level is maxDef, the threshold take uses to tell non-null
// positions apart from null ones within an arbitrary batch slice.
func newAccumulator(batchSize int, maxDef uint8) *accumulator {
	return &accumulator{batchSize: batchSize, maxDef: maxDef}
}

func (a *accumulator) add(dp *pages.DataPage) {
	a.defLevels = append(a.defLevels, dp.DefLevels...)
	a.repLevels = append(a.repLevels, dp.RepLevels...)
	if dp.Values.Len() > 0 || dp.NumValues == dp.Values.Len() {
		a.values = append(a.values, dp.Values)
	}
}

// take removes and returns one Batch of up to batchSize logical rows once
// enough has accumulated, or, when flush is true, whatever remains (used at
// end of stream to emit a final partial batch). ok is false when there is
// nothing left to emit.
func (a *accumulator) take(flush bool) (*Batch, bool) {
	n := len(a.defLevels)
	if len(a.repLevels) > 0 {
		n = len(a.repLevels)
	}
	if n == 0 {
		return nil, false
	}
	if !flush && n < a.batchSize {
		return nil, false
	}

	count := a.batchSize
	if count > n {
		count = n
	}

	typ := pages.Values{}.Type
	if len(a.values) > 0 {
		typ = a.values[0].Type
	}

	var defOut, repOut []uint8
	if len(a.defLevels) > 0 {
		defOut = append(defOut, a.defLevels[:count]...)
		a.defLevels = a.defLevels[count:]
	}
	if len(a.repLevels) > 0 {
		repOut = append(repOut, a.repLevels[:count]...)
		a.repLevels = a.repLevels[count:]
	}

	numNonNull := count
	if len(defOut) > 0 {
		numNonNull = countMaxDef(defOut, a.maxDef)
	}

	valOut, remaining := splitValues(typ, a.values, numNonNull)
	a.values = remaining

	return &Batch{
		NumValues: count,
		DefLevels: defOut,
		RepLevels: repOut,
		Values:    valOut,
	}, true
}

// countMaxDef reports how many of levels equal the column's maxDef, i.e.
// how many of this batch slice's positions carry a value rather than a null
// or an absent-collection marker.
func countMaxDef(levels []uint8, maxDef uint8) int {
	return bitsutil.CountByte(levels, maxDef)
}
