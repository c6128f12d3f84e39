package parquet

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
	"github.com/rionmonster/hardwood-sub002/record"
	"github.com/rionmonster/hardwood-sub002/schema"
)

// Value is one field of one row: either a scalar of the column's physical
// type, or (for a column under a List/Map/Group ancestor) the generic
// assembled record.Value the record package produces. Accessor methods that
// name a physical type the Value does not hold fail with errs.TypeMismatch,
// per §4.9's contract.
type Value struct {
	node   *schema.Node
	null   bool
	nested bool
	raw    record.Value

	kind   format.Type
	vBool  bool
	vI32   int32
	vI64   int64
	vI96   [12]byte
	vF32   float32
	vF64   float64
	vBytes []byte
}

// Column returns the schema node this value was read from.
func (v Value) Column() *schema.Node { return v.node }

// IsNull reports whether the value is absent: an optional field with no
// value at this row. A present but empty repeated collection is not null;
// its Record is an empty []record.Value.
func (v Value) IsNull() bool { return v.null }

// Record returns the value's generic assembled form: nil, a scalar, a
// map[string]record.Value, or a []record.Value, per record.Value's doc.
// It is the only accessor that works uniformly for nested (List/Map/Group)
// fields; the typed accessors below only ever apply to primitive leaves.
func (v Value) Record() record.Value {
	if v.nested {
		return v.raw
	}
	if v.null {
		return nil
	}
	return v.scalar()
}

func (v Value) scalar() record.Value {
	switch v.kind {
	case format.Boolean:
		return v.vBool
	case format.Int32:
		return v.vI32
	case format.Int64:
		return v.vI64
	case format.Int96:
		return v.vI96
	case format.Float:
		return v.vF32
	case format.Double:
		return v.vF64
	default:
		return v.vBytes
	}
}

func (v Value) mismatch(want format.Type) error {
	return fmt.Errorf("parquet: column %v is %v, not %v: %w", v.node.Path, v.kind, want, errs.TypeMismatch)
}

// Boolean returns the value as a bool, or errs.TypeMismatch if the column's
// physical type is not BOOLEAN.
func (v Value) Boolean() (bool, error) {
	if v.nested || v.kind != format.Boolean {
		return false, v.mismatch(format.Boolean)
	}
	return v.vBool, nil
}

// Int32 returns the value as an int32, or errs.TypeMismatch if the column's
// physical type is not INT32.
func (v Value) Int32() (int32, error) {
	if v.nested || v.kind != format.Int32 {
		return 0, v.mismatch(format.Int32)
	}
	return v.vI32, nil
}

// Int64 returns the value as an int64, or errs.TypeMismatch if the column's
// physical type is not INT64.
func (v Value) Int64() (int64, error) {
	if v.nested || v.kind != format.Int64 {
		return 0, v.mismatch(format.Int64)
	}
	return v.vI64, nil
}

// Int96 returns the value's raw 12-byte INT96 payload, passed through
// uninterpreted per spec.md's explicit non-goal on INT96 semantics.
func (v Value) Int96() ([12]byte, error) {
	if v.nested || v.kind != format.Int96 {
		return [12]byte{}, v.mismatch(format.Int96)
	}
	return v.vI96, nil
}

// Float returns the value as a float32, or errs.TypeMismatch if the
// column's physical type is not FLOAT.
func (v Value) Float() (float32, error) {
	if v.nested || v.kind != format.Float {
		return 0, v.mismatch(format.Float)
	}
	return v.vF32, nil
}

// Double returns the value as a float64, or errs.TypeMismatch if the
// column's physical type is not DOUBLE.
func (v Value) Double() (float64, error) {
	if v.nested || v.kind != format.Double {
		return 0, v.mismatch(format.Double)
	}
	return v.vF64, nil
}

// ByteArray returns the value's raw bytes, valid for BYTE_ARRAY and
// FIXED_LEN_BYTE_ARRAY columns.
func (v Value) ByteArray() ([]byte, error) {
	if v.nested || (v.kind != format.ByteArray && v.kind != format.FixedLenByteArray) {
		return nil, v.mismatch(format.ByteArray)
	}
	return v.vBytes, nil
}

// String interprets the value as UTF-8 text: valid for any BYTE_ARRAY or
// FIXED_LEN_BYTE_ARRAY column, regardless of its logical-type annotation
// (String, Enum, Json, Bson, Decimal-as-bytes, UUID-as-bytes all share the
// same on-wire representation).
func (v Value) String() (string, error) {
	b, err := v.ByteArray()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UUID interprets the value's 16-byte FIXED_LEN_BYTE_ARRAY payload as a
// UUID logical type value.
func (v Value) UUID() (uuid.UUID, error) {
	b, err := v.ByteArray()
	if err != nil {
		return uuid.UUID{}, err
	}
	if len(b) != 16 {
		return uuid.UUID{}, fmt.Errorf("parquet: column %v has %d-byte value, UUID requires 16: %w", v.node.Path, len(b), errs.TypeMismatch)
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("parquet: column %v: %w: %v", v.node.Path, errs.TypeMismatch, err)
	}
	return u, nil
}

func nullValue(node *schema.Node) Value {
	return Value{node: node, null: true, kind: node.Type}
}

func nestedValue(node *schema.Node, raw record.Value) Value {
	if raw == nil {
		return Value{node: node, null: true, nested: true}
	}
	return Value{node: node, nested: true, raw: raw}
}

func scalarValue(node *schema.Node, raw record.Value) Value {
	if raw == nil {
		return nullValue(node)
	}
	v := Value{node: node, kind: node.Type}
	switch x := raw.(type) {
	case bool:
		v.vBool = x
	case int32:
		v.vI32 = x
	case int64:
		v.vI64 = x
	case [12]byte:
		v.vI96 = x
	case float32:
		v.vF32 = x
	case float64:
		v.vF64 = x
	case []byte:
		v.vBytes = x
	}
	return v
}

// Row is one logical record: its fields in projected-column order, each
// addressable by position or by the leaf column's top-level name.
type Row struct {
	fields []*schema.Node
	values []Value
}

// NumFields returns the number of projected fields this row carries.
func (r Row) NumFields() int { return len(r.values) }

// FieldName returns the name of the projected field at index i: the leaf
// column's own name on the flat path (every projected leaf with max
// definition level <= 1 and no repetition), or the name of its ancestor
// directly under the schema root on the nested path.
func (r Row) FieldName(i int) string { return r.fields[i].Name }

// Value returns the field at index i.
func (r Row) Value(i int) Value { return r.values[i] }

// ValueByName returns the field named name, and whether it was found.
func (r Row) ValueByName(name string) (Value, bool) {
	for i, f := range r.fields {
		if f.Name == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}
