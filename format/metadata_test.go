package format

import (
	"testing"

	"github.com/rionmonster/hardwood-sub002/internal/thrift"
)

// manualFileMetaData is a hand-assembled Thrift compact-protocol encoding of:
//
//	FileMetaData{
//	  version: 1,
//	  schema: [
//	    SchemaElement{name: "root", num_children: 1},
//	    SchemaElement{type: BOOLEAN, repetition_type: REQUIRED, name: "a"},
//	  ],
//	  num_rows: 2,
//	  row_groups: [],
//	}
var manualFileMetaData = []byte{
	0x15, 0x02, // field 1 (version, i32) = zigzag(1) = 2
	0x19,       // field 2 (schema, list), delta 1
	0x2c,       // list header: size=2, element type=struct
	0x48, 0x04, 'r', 'o', 'o', 't', 0x15, 0x02, 0x00, // SchemaElement "root"
	0x15, 0x00, 0x25, 0x00, 0x18, 0x01, 'a', 0x00, // SchemaElement "a"
	0x16, 0x04, // field 3 (num_rows, i64) = zigzag(2) = 4
	0x19,       // field 4 (row_groups, list), delta 1
	0x0c,       // list header: size=0, element type=struct
	0x00,       // FileMetaData stop
}

func TestReadFileMetaData(t *testing.T) {
	m, err := ReadFileMetaData(manualFileMetaData)
	if err != nil {
		t.Fatalf("ReadFileMetaData: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("Version = %d, want 1", m.Version)
	}
	if len(m.Schema) != 2 {
		t.Fatalf("len(Schema) = %d, want 2", len(m.Schema))
	}
	if m.Schema[0].Name != "root" || m.Schema[0].NumChildren != 1 {
		t.Errorf("Schema[0] = %+v, want name=root num_children=1", m.Schema[0])
	}
	if m.Schema[1].Name != "a" || !m.Schema[1].HasRepetitionType || m.Schema[1].RepetitionType != Required {
		t.Errorf("Schema[1] = %+v, want name=a repetition_type=REQUIRED", m.Schema[1])
	}
	if m.NumRows != 2 {
		t.Errorf("NumRows = %d, want 2", m.NumRows)
	}
	if len(m.RowGroups) != 0 {
		t.Errorf("len(RowGroups) = %d, want 0", len(m.RowGroups))
	}
}

func TestFileMetaDataLookup(t *testing.T) {
	m := &FileMetaData{KeyValueMetadata: []KeyValue{
		{Key: "created_by", Value: "test", HasValue: true},
	}}
	v, ok := m.Lookup("created_by")
	if !ok || v != "test" {
		t.Errorf("Lookup(created_by) = (%q,%v), want (test,true)", v, ok)
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Errorf("Lookup(missing) should not be found")
	}
}

func TestDecodePageHeaderDataPageV2(t *testing.T) {
	// PageHeader{type: DATA_PAGE_V2, uncompressed_page_size: 10,
	//   compressed_page_size: 8, data_page_header_v2: {num_values:3,
	//   num_nulls:0, num_rows:3, encoding: PLAIN, def_levels_len:2,
	//   rep_levels_len:0}}
	buf := []byte{
		0x15, 0x06, // field1 type, delta1, val=zigzag(3=DATA_PAGE_V2)=6
		0x15, 0x14, // field2 uncompressed_page_size, delta1, val=zigzag(10)=20
		0x15, 0x10, // field3 compressed_page_size, delta1, val=zigzag(8)=16
		// field8 (data_page_header_v2), delta 5 (8-3), type struct(0x0c)
		0x5c,
		0x15, 0x06, // nested field1 num_values, delta1, val=zigzag(3)=6
		0x15, 0x00, // nested field2 num_nulls, delta1, val=zigzag(0)=0
		0x15, 0x06, // nested field3 num_rows, delta1, val=zigzag(3)=6
		0x15, 0x00, // nested field4 encoding, delta1, val=zigzag(0=PLAIN)=0
		0x15, 0x04, // nested field5 def_levels_byte_length, delta1, val=zigzag(2)=4
		0x15, 0x00, // nested field6 rep_levels_byte_length, delta1, val=zigzag(0)=0
		0x00, // nested struct stop
		0x00, // outer struct stop
	}
	r := thrift.NewReader(buf)
	h, err := DecodePageHeader(r)
	if err != nil {
		t.Fatalf("DecodePageHeader: %v", err)
	}
	if h.Type != DataPageV2 {
		t.Errorf("Type = %v, want DATA_PAGE_V2", h.Type)
	}
	if h.UncompressedPageSize != 10 || h.CompressedPageSize != 8 {
		t.Errorf("sizes = (%d,%d), want (10,8)", h.UncompressedPageSize, h.CompressedPageSize)
	}
	if h.DataPageHeaderV2 == nil {
		t.Fatalf("DataPageHeaderV2 is nil")
	}
	v2 := h.DataPageHeaderV2
	if v2.NumValues != 3 || v2.NumRows != 3 || v2.DefinitionLevelsByteLength != 2 {
		t.Errorf("v2 = %+v", v2)
	}
	if !v2.Compressed() {
		t.Errorf("Compressed() should default to true when is_compressed is absent")
	}
}
