package record

import (
	"reflect"
	"testing"

	"github.com/rionmonster/hardwood-sub002/schema"
)

func TestAssembleOptionalScalar(t *testing.T) {
	root := &schema.Node{Name: "schema", Root: true, Kind: schema.Group}
	name := &schema.Node{Name: "name", Kind: schema.Primitive, MaxDefinitionLevel: 1, Parent: root}
	root.Children = []*schema.Node{name}

	col := Column{
		Node:      name,
		DefLevels: []uint8{1, 0, 1},
		RepLevels: []uint8{0, 0, 0},
		Values:    []Value{"a", "c"},
	}

	a := NewAssembler(root, []Column{col})
	got, err := a.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []Value{
		map[string]Value{"name": "a"},
		map[string]Value{"name": nil},
		map[string]Value{"name": "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

// buildListSchema constructs:
//
//	message schema {
//	  optional group tags (LIST) {
//	    repeated group list {
//	      optional binary element;
//	    }
//	  }
//	}
func buildListSchema() (*schema.Node, *schema.Node) {
	root := &schema.Node{Name: "schema", Root: true, Kind: schema.Group}
	tags := &schema.Node{Name: "tags", Kind: schema.List, MaxDefinitionLevel: 1, MaxRepetitionLevel: 0, Parent: root}
	list := &schema.Node{Name: "list", Kind: schema.RepeatedGroup, MaxDefinitionLevel: 2, MaxRepetitionLevel: 1, Parent: tags}
	element := &schema.Node{Name: "element", Kind: schema.Primitive, MaxDefinitionLevel: 3, MaxRepetitionLevel: 1, Parent: list}
	list.Children = []*schema.Node{element}
	tags.Children = []*schema.Node{list}
	root.Children = []*schema.Node{tags}
	return root, element
}

func TestAssembleListOfScalar(t *testing.T) {
	root, element := buildListSchema()

	// Record 0: tags = ["x", "y"]
	// Record 1: tags = null (entirely absent)
	// Record 2: tags = [] (present, empty)
	col := Column{
		Node:      element,
		RepLevels: []uint8{0, 1, 0, 0},
		DefLevels: []uint8{3, 3, 0, 1},
		Values:    []Value{"x", "y"},
	}

	a := NewAssembler(root, []Column{col})
	got, err := a.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []Value{
		map[string]Value{"tags": []Value{"x", "y"}},
		map[string]Value{"tags": nil},
		map[string]Value{"tags": []Value{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

// buildMapSchema constructs:
//
//	message schema {
//	  optional group attrs (MAP) {
//	    repeated group key_value {
//	      required binary key;
//	      optional int32 value;
//	    }
//	  }
//	}
func buildMapSchema() (*schema.Node, *schema.Node, *schema.Node) {
	root := &schema.Node{Name: "schema", Root: true, Kind: schema.Group}
	attrs := &schema.Node{Name: "attrs", Kind: schema.Map, MaxDefinitionLevel: 1, Parent: root}
	kv := &schema.Node{Name: "key_value", Kind: schema.RepeatedGroup, MaxDefinitionLevel: 2, MaxRepetitionLevel: 1, Parent: attrs}
	key := &schema.Node{Name: "key", Kind: schema.Primitive, MaxDefinitionLevel: 2, MaxRepetitionLevel: 1, Parent: kv}
	value := &schema.Node{Name: "value", Kind: schema.Primitive, MaxDefinitionLevel: 3, MaxRepetitionLevel: 1, Parent: kv}
	kv.Children = []*schema.Node{key, value}
	attrs.Children = []*schema.Node{kv}
	root.Children = []*schema.Node{attrs}
	return root, key, value
}

func TestAssembleMap(t *testing.T) {
	root, key, value := buildMapSchema()

	keyCol := Column{
		Node:      key,
		RepLevels: []uint8{0, 1},
		DefLevels: []uint8{2, 2},
		Values:    []Value{"a", "b"},
	}
	valueCol := Column{
		Node:      value,
		RepLevels: []uint8{0, 1},
		DefLevels: []uint8{3, 2},
		Values:    []Value{int32(1)},
	}

	a := NewAssembler(root, []Column{keyCol, valueCol})
	got, err := a.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []Value{
		map[string]Value{"attrs": []Value{
			map[string]Value{"key": "a", "value": int32(1)},
			map[string]Value{"key": "b", "value": nil},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

// buildNestedListSchema constructs a List<List<int32>>:
//
//	message schema {
//	  optional group matrix (LIST) {
//	    repeated group list {
//	      optional group element (LIST) {
//	        repeated group list {
//	          required int32 item;
//	        }
//	      }
//	    }
//	  }
//	}
func buildNestedListSchema() (*schema.Node, *schema.Node) {
	root := &schema.Node{Name: "schema", Root: true, Kind: schema.Group}
	matrix := &schema.Node{Name: "matrix", Kind: schema.List, MaxDefinitionLevel: 1, MaxRepetitionLevel: 0, Parent: root}
	outer := &schema.Node{Name: "list", Kind: schema.RepeatedGroup, MaxDefinitionLevel: 2, MaxRepetitionLevel: 1, Parent: matrix}
	element := &schema.Node{Name: "element", Kind: schema.List, MaxDefinitionLevel: 3, MaxRepetitionLevel: 1, Parent: outer}
	inner := &schema.Node{Name: "list", Kind: schema.RepeatedGroup, MaxDefinitionLevel: 4, MaxRepetitionLevel: 2, Parent: element}
	item := &schema.Node{Name: "item", Kind: schema.Primitive, MaxDefinitionLevel: 4, MaxRepetitionLevel: 2, Parent: inner}
	inner.Children = []*schema.Node{item}
	element.Children = []*schema.Node{inner}
	outer.Children = []*schema.Node{element}
	matrix.Children = []*schema.Node{outer}
	root.Children = []*schema.Node{matrix}
	return root, item
}

// TestAssembleListOfList exercises a leaf path with two nested RepeatedGroup
// ancestors: matrix = [[1, 2], [3]]. The outer list repeats at level 1
// (item 3 starts a new outer element); the inner list repeats at level 2
// (item 2 continues the same outer element as item 1, but starts a new
// inner one).
func TestAssembleListOfList(t *testing.T) {
	root, item := buildNestedListSchema()

	col := Column{
		Node:      item,
		RepLevels: []uint8{0, 2, 1},
		DefLevels: []uint8{4, 4, 4},
		Values:    []Value{int32(1), int32(2), int32(3)},
	}

	a := NewAssembler(root, []Column{col})
	got, err := a.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []Value{
		map[string]Value{"matrix": []Value{
			[]Value{int32(1), int32(2)},
			[]Value{int32(3)},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}
