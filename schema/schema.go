// Package schema reconstructs a Parquet schema tree from the flat,
// pre-order SchemaElement list carried in a file's footer, computes each
// node's maximum definition/repetition level, classifies List/Map group
// shapes, and projects a dotted-path column selection down to leaf nodes.
package schema

import (
	"fmt"
	"strings"

	"github.com/rionmonster/hardwood-sub002/errs"
	"github.com/rionmonster/hardwood-sub002/format"
)

// ErrUnknownColumn is returned when a projected column path does not match
// any node in the schema tree.
var ErrUnknownColumn = errs.UnknownColumn

// Kind classifies a schema node's shape, beyond its raw repetition.
type Kind int

const (
	Primitive Kind = iota
	Group
	List
	Map
	RepeatedGroup
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Group:
		return "group"
	case List:
		return "list"
	case Map:
		return "map"
	case RepeatedGroup:
		return "repeated-group"
	default:
		return "unknown"
	}
}

// Node is one element of the reconstructed schema tree.
type Node struct {
	Name          string
	Path          []string
	Type          format.Type
	HasType       bool
	TypeLength    int32
	Repetition    format.FieldRepetitionType
	HasRepetition bool
	ConvertedType format.ConvertedType
	HasConverted  bool
	LogicalType   *format.LogicalType
	Scale         int32
	Precision     int32
	FieldID       int32
	HasFieldID    bool

	MaxDefinitionLevel int
	MaxRepetitionLevel int

	Kind     Kind
	Parent   *Node
	Children []*Node
	Root     bool
}

// Optional reports whether this node can be absent from its parent.
func (n *Node) Optional() bool {
	return n.HasRepetition && n.Repetition == format.Optional
}

// Repeated reports whether this node can occur more than once in its
// parent.
func (n *Node) Repeated() bool {
	return n.HasRepetition && n.Repetition == format.Repeated
}

// Leaves returns the primitive descendants of n in depth-first order (n
// itself, if n is already a primitive).
func (n *Node) Leaves() []*Node {
	if n.Kind == Primitive {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// At resolves a dotted path of child names starting from n, returning nil
// if any segment does not exist.
func (n *Node) At(parts []string) *Node {
	cur := n
	for _, part := range parts {
		var next *Node
		for _, c := range cur.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// FromFlatElements reconstructs a schema tree from the flat pre-order list
// carried in FileMetaData.Schema, mirroring the recursive
// consumed-element-count algorithm Parquet writers use to serialize a
// schema tree as a single pre-order traversal.
func FromFlatElements(elements []format.SchemaElement) (*Node, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("schema: empty schema element list: %w", errs.Malformed)
	}
	root, consumed, err := buildNode(elements, nil)
	if err != nil {
		return nil, err
	}
	if consumed != len(elements) {
		return nil, fmt.Errorf("schema: %d schema elements left unconsumed: %w", len(elements)-consumed, errs.Malformed)
	}
	root.Root = true
	computeLevels(root, 0, 0, true)
	return root, nil
}

func buildNode(elements []format.SchemaElement, path []string) (*Node, int, error) {
	if len(elements) == 0 {
		return nil, 0, fmt.Errorf("schema: expected schema element, found none")
	}
	el := elements[0]
	n := &Node{
		Name:          el.Name,
		Path:          newPath(path, el.Name),
		Type:          el.Type,
		HasType:       el.HasType,
		TypeLength:    el.TypeLength,
		Repetition:    el.RepetitionType,
		HasRepetition: el.HasRepetitionType,
		ConvertedType: el.ConvertedType,
		HasConverted:  el.HasConvertedType,
		LogicalType:   el.LogicalType,
		Scale:         el.Scale,
		Precision:     el.Precision,
		FieldID:       el.FieldID,
		HasFieldID:    el.HasFieldID,
	}

	numChildren := int(el.NumChildren)
	if numChildren == 0 {
		n.Kind = Primitive
		return n, 1, nil
	}
	if numChildren < 0 {
		return nil, 0, fmt.Errorf("schema: element %q has negative num_children: %w", el.Name, errs.Malformed)
	}

	// The root's own name is not part of its descendants' paths.
	childPath := n.Path
	if path == nil {
		childPath = []string{}
	}

	n.Children = make([]*Node, numChildren)
	consumed := 1
	for i := 0; i < numChildren; i++ {
		if consumed >= len(elements) {
			return nil, 0, fmt.Errorf("schema: element %q expects %d children, ran out of elements: %w", el.Name, numChildren, errs.Malformed)
		}
		child, used, err := buildNode(elements[consumed:], childPath)
		if err != nil {
			return nil, 0, err
		}
		child.Parent = n
		n.Children[i] = child
		consumed += used
	}
	n.Kind = classify(el, numChildren, n.Children)
	return n, consumed, nil
}

// classify determines a group's shape. The converted/logical type tags are
// authoritative when present; lacking those (legacy two-level list writers,
// or writers that only ever set repetition), a group wrapping exactly one
// Repeated child is still recognized structurally — as a Map when that
// child in turn wraps exactly two children named key/value, otherwise as a
// List.
func classify(el format.SchemaElement, numChildren int, children []*Node) Kind {
	if numChildren == 0 {
		return Primitive
	}
	if el.HasConvertedType {
		switch el.ConvertedType {
		case format.Map, format.MapKeyValue:
			return Map
		case format.List:
			return List
		}
	}
	if el.LogicalType != nil {
		if el.LogicalType.Map {
			return Map
		}
		if el.LogicalType.List {
			return List
		}
	}
	if numChildren == 1 && children[0].Repeated() {
		if isKeyValueWrapper(children[0]) {
			return Map
		}
		return List
	}
	if el.HasRepetitionType && el.RepetitionType == format.Repeated {
		return RepeatedGroup
	}
	return Group
}

// isKeyValueWrapper reports whether a Repeated group has exactly the two
// children "key" and "value", the shape a Map's middle level always takes
// regardless of how its converted/logical type was (or wasn't) set.
func isKeyValueWrapper(n *Node) bool {
	if len(n.Children) != 2 {
		return false
	}
	return n.Children[0].Name == "key" && n.Children[1].Name == "value"
}

func computeLevels(n *Node, parentDef, parentRep int, isRoot bool) {
	def, rep := parentDef, parentRep
	if !isRoot {
		if n.Repeated() {
			rep++
		}
		if n.Optional() || n.Repeated() {
			def++
		}
	}
	n.MaxDefinitionLevel = def
	n.MaxRepetitionLevel = rep
	for _, c := range n.Children {
		computeLevels(c, def, rep, false)
	}
}

func newPath(parent []string, name string) []string {
	path := make([]string, len(parent)+1)
	copy(path, parent)
	path[len(parent)] = name
	return path
}

// Project resolves a set of dotted column paths against root, expanding any
// path that names a group to all of its leaf descendants, and de-duplicating
// the result while preserving first-seen order. An empty paths selects every
// leaf in the schema.
func Project(root *Node, paths []string) ([]*Node, error) {
	if len(paths) == 0 {
		return root.Leaves(), nil
	}
	var out []*Node
	seen := make(map[string]bool)
	for _, p := range paths {
		parts := strings.Split(p, ".")
		n := root.At(parts)
		if n == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, p)
		}
		for _, leaf := range n.Leaves() {
			key := strings.Join(leaf.Path, ".")
			if !seen[key] {
				seen[key] = true
				out = append(out, leaf)
			}
		}
	}
	return out, nil
}
