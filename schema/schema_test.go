package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/rionmonster/hardwood-sub002/format"
)

// buildFixture constructs the flat pre-order element list for:
//
//	message schema {
//	  required int64 id;
//	  optional binary name (UTF8);
//	  optional group tags (LIST) {
//	    repeated group list {
//	      optional binary element;
//	    }
//	  }
//	}
func buildFixture() []format.SchemaElement {
	return []format.SchemaElement{
		{Name: "schema", NumChildren: 3},
		{Name: "id", Type: format.Int64, HasType: true, RepetitionType: format.Required, HasRepetitionType: true},
		{Name: "name", Type: format.ByteArray, HasType: true, RepetitionType: format.Optional, HasRepetitionType: true,
			ConvertedType: format.UTF8, HasConvertedType: true},
		{Name: "tags", RepetitionType: format.Optional, HasRepetitionType: true,
			ConvertedType: format.List, HasConvertedType: true, NumChildren: 1},
		{Name: "list", RepetitionType: format.Repeated, HasRepetitionType: true, NumChildren: 1},
		{Name: "element", Type: format.ByteArray, HasType: true, RepetitionType: format.Optional, HasRepetitionType: true},
	}
}

func TestFromFlatElementsTree(t *testing.T) {
	root, err := FromFlatElements(buildFixture())
	if err != nil {
		t.Fatalf("FromFlatElements: %v", err)
	}
	if len(root.Children) != 3 {
		t.Fatalf("len(root.Children) = %d, want 3", len(root.Children))
	}

	id := root.Children[0]
	if id.Kind != Primitive || id.MaxDefinitionLevel != 0 || id.MaxRepetitionLevel != 0 {
		t.Errorf("id = %+v, want primitive def=0 rep=0", id)
	}

	name := root.Children[1]
	if name.Kind != Primitive || name.MaxDefinitionLevel != 1 || name.MaxRepetitionLevel != 0 {
		t.Errorf("name def/rep = (%d,%d), want (1,0)", name.MaxDefinitionLevel, name.MaxRepetitionLevel)
	}

	tags := root.Children[2]
	if tags.Kind != List {
		t.Errorf("tags.Kind = %v, want List", tags.Kind)
	}
	if tags.MaxDefinitionLevel != 1 || tags.MaxRepetitionLevel != 0 {
		t.Errorf("tags def/rep = (%d,%d), want (1,0)", tags.MaxDefinitionLevel, tags.MaxRepetitionLevel)
	}

	list := tags.Children[0]
	if list.Kind != RepeatedGroup {
		t.Errorf("list.Kind = %v, want RepeatedGroup", list.Kind)
	}
	if list.MaxDefinitionLevel != 2 || list.MaxRepetitionLevel != 1 {
		t.Errorf("list def/rep = (%d,%d), want (2,1)", list.MaxDefinitionLevel, list.MaxRepetitionLevel)
	}

	element := list.Children[0]
	if element.Kind != Primitive {
		t.Errorf("element.Kind = %v, want Primitive", element.Kind)
	}
	if element.MaxDefinitionLevel != 3 || element.MaxRepetitionLevel != 1 {
		t.Errorf("element def/rep = (%d,%d), want (3,1)", element.MaxDefinitionLevel, element.MaxRepetitionLevel)
	}
	if strings.Join(element.Path, ".") != "tags.list.element" {
		t.Errorf("element.Path = %v, want tags.list.element", element.Path)
	}
}

// buildLegacyListFixture constructs a two-level list group lacking any
// converted/logical type tag, the shape some legacy writers still emit:
//
//	message schema {
//	  optional group scores {
//	    repeated int32 element;
//	  }
//	}
func buildLegacyListFixture() []format.SchemaElement {
	return []format.SchemaElement{
		{Name: "schema", NumChildren: 1},
		{Name: "scores", RepetitionType: format.Optional, HasRepetitionType: true, NumChildren: 1},
		{Name: "element", Type: format.Int32, HasType: true, RepetitionType: format.Repeated, HasRepetitionType: true},
	}
}

func TestFromFlatElementsStructuralList(t *testing.T) {
	root, err := FromFlatElements(buildLegacyListFixture())
	if err != nil {
		t.Fatalf("FromFlatElements: %v", err)
	}
	scores := root.Children[0]
	if scores.Kind != List {
		t.Errorf("scores.Kind = %v, want List (structural fallback)", scores.Kind)
	}
	if scores.Children[0].Kind != Primitive {
		t.Errorf("scores.Children[0].Kind = %v, want Primitive (a repeated leaf is still a leaf column)", scores.Children[0].Kind)
	}
}

// buildLegacyMapFixture constructs a map group lacking any converted/logical
// type tag, relying only on its single Repeated child's key/value shape.
func buildLegacyMapFixture() []format.SchemaElement {
	return []format.SchemaElement{
		{Name: "schema", NumChildren: 1},
		{Name: "attrs", RepetitionType: format.Optional, HasRepetitionType: true, NumChildren: 1},
		{Name: "key_value", RepetitionType: format.Repeated, HasRepetitionType: true, NumChildren: 2},
		{Name: "key", Type: format.ByteArray, HasType: true, RepetitionType: format.Required, HasRepetitionType: true},
		{Name: "value", Type: format.ByteArray, HasType: true, RepetitionType: format.Optional, HasRepetitionType: true},
	}
}

func TestFromFlatElementsStructuralMap(t *testing.T) {
	root, err := FromFlatElements(buildLegacyMapFixture())
	if err != nil {
		t.Fatalf("FromFlatElements: %v", err)
	}
	attrs := root.Children[0]
	if attrs.Kind != Map {
		t.Errorf("attrs.Kind = %v, want Map (structural fallback)", attrs.Kind)
	}
	kv := attrs.Children[0]
	if kv.Kind != RepeatedGroup {
		t.Errorf("kv.Kind = %v, want RepeatedGroup", kv.Kind)
	}
}

func TestProjectExpandsGroups(t *testing.T) {
	root, err := FromFlatElements(buildFixture())
	if err != nil {
		t.Fatalf("FromFlatElements: %v", err)
	}

	leaves, err := Project(root, []string{"tags"})
	if err != nil {
		t.Fatalf("Project(tags): %v", err)
	}
	if len(leaves) != 1 || strings.Join(leaves[0].Path, ".") != "tags.list.element" {
		t.Errorf("Project(tags) = %v, want single leaf tags.list.element", leaves)
	}

	leaves, err = Project(root, []string{"id", "name"})
	if err != nil {
		t.Fatalf("Project(id,name): %v", err)
	}
	if len(leaves) != 2 {
		t.Errorf("len(Project(id,name)) = %d, want 2", len(leaves))
	}

	leaves, err = Project(root, []string{"tags.list.element"})
	if err != nil {
		t.Fatalf("Project(tags.list.element): %v", err)
	}
	if len(leaves) != 1 {
		t.Errorf("len(Project(tags.list.element)) = %d, want 1", len(leaves))
	}

	all, err := Project(root, nil)
	if err != nil {
		t.Fatalf("Project(nil): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(Project(nil)) = %d, want 3 (id, name, tags.list.element)", len(all))
	}
}

func TestProjectUnknownColumn(t *testing.T) {
	root, err := FromFlatElements(buildFixture())
	if err != nil {
		t.Fatalf("FromFlatElements: %v", err)
	}
	_, err = Project(root, []string{"nope"})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Project(nope) error = %v, want ErrUnknownColumn", err)
	}
}
