// Package record implements the repetition/definition-level assembly
// machinery that reconstructs nested list/struct/map values from the
// (rep_level, def_level, value) triples a column iterator produces for one
// leaf column at a time.
//
// The flat-schema fast path (every projected leaf with max_def_level <= 1
// and max_rep_level == 0) bypasses this package entirely; it exists only
// because the schema tree, once it contains a List, Map, or optional group
// several levels deep, no longer lets a caller reconstruct a logical row
// from independently-iterated column batches without walking the level
// streams.
package record

import (
	"fmt"

	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/pages"
	"github.com/rionmonster/hardwood-sub002/schema"
)

// Value is one assembled logical value: nil (absent optional field or
// absent repeated element), a scalar (bool, int32, int64, [12]byte, float32,
// float64, or []byte), a map[string]Value for a struct-typed field, or a
// []Value for a List or Map field (a Map's elements are themselves
// map[string]Value{"key": ..., "value": ...} pairs, per Parquet's
// key_value shredding).
type Value = interface{}

// Column is one projected leaf column's full row-group-aligned triple
// stream, in on-disk order: DefLevels/RepLevels carry one entry per logical
// position (including positions that contributed no value, i.e. nulls and
// empty-collection markers), and Values carries only the non-null values,
// compacted.
type Column struct {
	Node      *schema.Node
	DefLevels []uint8
	RepLevels []uint8
	Values    []Value
}

// FromBatch converts a decoded column batch into a record.Column ready for
// assembly, expanding the batch's typed pages.Values into a []Value.
func FromBatch(node *schema.Node, defLevels, repLevels []uint8, values pages.Values) Column {
	return Column{
		Node:      node,
		DefLevels: defLevels,
		RepLevels: repLevels,
		Values:    FromPageValues(values),
	}
}

// FromPageValues expands a typed pages.Values into one Value per entry.
func FromPageValues(v pages.Values) []Value {
	n := v.Len()
	out := make([]Value, n)
	switch v.Type {
	case format.Boolean:
		for i, x := range v.Boolean {
			out[i] = x
		}
	case format.Int32:
		for i, x := range v.Int32 {
			out[i] = x
		}
	case format.Int64:
		for i, x := range v.Int64 {
			out[i] = x
		}
	case format.Int96:
		for i, x := range v.Int96 {
			out[i] = x
		}
	case format.Float:
		for i, x := range v.Float {
			out[i] = x
		}
	case format.Double:
		for i, x := range v.Double {
			out[i] = x
		}
	case format.ByteArray, format.FixedLenByteArray:
		for i, x := range v.Bytes {
			out[i] = x
		}
	}
	return out
}

// Assembler reconstructs one logical record per row from a set of
// projected leaf Columns sharing the same schema root and row alignment.
// Arbitrarily deep repetition along a leaf's path (List<List<T>>,
// Map<string, List<T>>, List<Struct{repeated child}>, ...) is supported:
// assembleField groups a RepeatedGroup's positions into one run per element
// at that path depth rather than assuming a single level, so a nested
// repeated ancestor further down the path gets its own run-splitting pass
// when the recursion reaches it.
type Assembler struct {
	root   *schema.Node
	fields []assemblerField
}

type assemblerField struct {
	path []*schema.Node // root's direct child .. leaf, excluding root itself
	col  Column
}

// NewAssembler builds an Assembler for root's schema over columns, one
// per projected leaf.
func NewAssembler(root *schema.Node, columns []Column) *Assembler {
	a := &Assembler{root: root, fields: make([]assemblerField, len(columns))}
	for i, col := range columns {
		a.fields[i] = assemblerField{path: pathToLeaf(col.Node), col: col}
	}
	return a
}

// pathToLeaf returns the chain of nodes from root's direct child down to
// leaf (inclusive), by walking leaf's Parent pointers.
func pathToLeaf(leaf *schema.Node) []*schema.Node {
	var rev []*schema.Node
	for n := leaf; n != nil && !n.Root; n = n.Parent {
		rev = append(rev, n)
	}
	path := make([]*schema.Node, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// Assemble reconstructs every logical record spanning the assembler's
// columns. Every column must carry the same number of logical records
// (positions delimited by RepLevels == 0); a mismatch is errs.Malformed,
// since it means the columns are not aligned to the same row group.
func (a *Assembler) Assemble() ([]Value, error) {
	if len(a.fields) == 0 {
		return nil, nil
	}

	boundsByField := make([][]bound, len(a.fields))
	numRecords := -1
	for i, f := range a.fields {
		b := recordBounds(f.col.RepLevels)
		boundsByField[i] = b
		if numRecords == -1 {
			numRecords = len(b)
		} else if len(b) != numRecords {
			return nil, fmt.Errorf("record: column %v has %d records, want %d: %w",
				f.col.Node.Path, len(b), numRecords, errs.Malformed)
		}
	}

	records := make([]Value, numRecords)
	for i := range records {
		records[i] = map[string]Value{}
	}

	for fi, f := range a.fields {
		valIdx := 0
		key := f.path[0].Name
		for ri, rng := range boundsByField[fi] {
			positions := make([]position, rng.hi-rng.lo)
			for k := range positions {
				positions[k] = position{
					rep: f.col.RepLevels[rng.lo+k],
					def: f.col.DefLevels[rng.lo+k],
				}
			}
			val := assembleField(f.path, 0, positions, f.col.Values, &valIdx)
			rec := records[ri].(map[string]Value)
			if existing, ok := rec[key]; ok {
				rec[key] = merge(existing, val)
			} else {
				rec[key] = val
			}
		}
	}

	return records, nil
}

type position struct {
	rep, def uint8
}

type bound struct{ lo, hi int }

// recordBounds splits rep into the index ranges of its successive logical
// records: a new record begins at every position where rep == 0. A leaf
// with no repetition at all (max_rep_level == 0) still carries one
// zero-valued entry per row, so this degrades to one record per position.
func recordBounds(rep []uint8) []bound {
	var bounds []bound
	start := -1
	for i, r := range rep {
		if r == 0 {
			if start >= 0 {
				bounds = append(bounds, bound{start, i})
			}
			start = i
		}
	}
	if start >= 0 {
		bounds = append(bounds, bound{start, len(rep)})
	}
	return bounds
}

// splitRuns partitions positions into consecutive runs, one per element of
// the repeated field whose own repetition level is level: a new run begins
// at every position (other than the first) whose repetition level is <=
// level, since repetition levels greater than that describe structure
// nested inside the current element — a further repeated ancestor deeper in
// the path, not a new element of this one. The very first position of the
// whole slice always starts the first run even when its own level is below
// level (record_test.go's rep==0 record-start marker), since there is no
// preceding element for it to continue.
func splitRuns(positions []position, level int) [][]position {
	runs := make([][]position, 0, 1)
	start := 0
	for i := 1; i < len(positions); i++ {
		if int(positions[i].rep) <= level {
			runs = append(runs, positions[start:i])
			start = i
		}
	}
	return append(runs, positions[start:])
}

// assembleField reconstructs the value of path[i:] for one logical record,
// given that record's positions (already isolated to the sub-range a
// repeated ancestor split out), consuming from values/valIdx as it reaches
// primitive leaves.
//
// RepeatedGroup is handled before the generic definition-level gate: a
// repeated node's own absence IS the empty collection (there is no
// separate "null" state below an already-present List/Map wrapper), so its
// threshold test uses "<" against every run rather than a single presence
// check against the first position. Each run (one element of this repeated
// field) is handed to the recursion whole, not collapsed to its first
// position, so a further RepeatedGroup deeper in path[i+1:] still sees every
// position belonging to that element and can itself split them into
// sub-runs — this is what lets a List<List<T>>-shaped path reconstruct the
// inner lists instead of flattening each outer element to one value.
func assembleField(path []*schema.Node, i int, positions []position, values []Value, valIdx *int) Value {
	if len(positions) == 0 || i >= len(path) {
		return nil
	}
	n := path[i]

	if n.Kind == schema.RepeatedGroup {
		// A Map's key_value wrapper needs each element tagged with its
		// leaf's own name ("key"/"value") before the sibling key and value
		// columns are merged back together; an ordinary List's element
		// does not, since merge() has nothing to line the bare scalar up
		// against but the matching index in the other column's list.
		isMapEntry := n.Parent != nil && n.Parent.Kind == schema.Map

		elems := []Value{}
		for _, run := range splitRuns(positions, n.MaxRepetitionLevel) {
			if run[0].def < n.MaxDefinitionLevel {
				continue // zero occurrences here: contributes no element
			}
			elem := assembleField(path, i+1, run, values, valIdx)
			if isMapEntry && i+1 < len(path) {
				elem = map[string]Value{path[i+1].Name: elem}
			}
			elems = append(elems, elem)
		}
		return elems
	}

	def := positions[0].def
	if def < n.MaxDefinitionLevel {
		return nil
	}

	switch n.Kind {
	case schema.Primitive:
		v := values[*valIdx]
		*valIdx++
		return v

	case schema.List, schema.Map:
		// Transparent shredding wrapper: the real repetition boundary is
		// this node's descendant RepeatedGroup; forward without
		// introducing a synthetic key for the wrapper itself.
		return assembleField(path, i+1, positions, values, valIdx)

	default: // Group
		if i+1 >= len(path) {
			return nil
		}
		child := assembleField(path, i+1, positions, values, valIdx)
		return map[string]Value{path[i+1].Name: child}
	}
}

// merge combines two partial values built independently for sibling leaf
// columns that share a schema prefix (e.g. two fields of the same struct,
// or a Map's key and value columns), recursively unioning maps by key and
// zipping lists element-wise. It is the record-level analogue of the
// per-column triple interleaving: where assembleField reconstructs one
// column's contribution in isolation, merge is what recombines several
// columns' contributions into a single nested record.
func merge(a, b Value) Value {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if am, ok := a.(map[string]Value); ok {
		if bm, ok := b.(map[string]Value); ok {
			out := make(map[string]Value, len(am)+len(bm))
			for k, v := range am {
				out[k] = v
			}
			for k, v := range bm {
				if existing, ok := out[k]; ok {
					out[k] = merge(existing, v)
				} else {
					out[k] = v
				}
			}
			return out
		}
	}
	if al, ok := a.([]Value); ok {
		if bl, ok := b.([]Value); ok {
			n := len(al)
			if len(bl) > n {
				n = len(bl)
			}
			out := make([]Value, n)
			for i := 0; i < n; i++ {
				var av, bv Value
				if i < len(al) {
					av = al[i]
				}
				if i < len(bl) {
					bv = bl[i]
				}
				out[i] = merge(av, bv)
			}
			return out
		}
	}
	return a
}
