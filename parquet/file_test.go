package parquet

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// manualFooter is a hand-assembled Thrift compact-protocol FileMetaData,
// the same shape as format.manualFileMetaData:
//
//	FileMetaData{
//	  version: 1,
//	  schema: [SchemaElement{name: "root", num_children: 1}, SchemaElement{type: BOOLEAN, repetition_type: REQUIRED, name: "a"}],
//	  num_rows: 2,
//	  row_groups: [],
//	}
var manualFooter = []byte{
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

// buildFile wraps footer with the magic/footer-length framing §6 describes:
// leading "PAR1", the footer bytes, a 4-byte little-endian footer length,
// trailing "PAR1".
func buildFile(footer []byte) []byte {
	buf := make([]byte, 0, len(footer)+12)
	buf = append(buf, "PAR1"...)
	buf = append(buf, footer...)
	lenBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBytes, uint32(len(footer)))
	buf = append(buf, lenBytes...)
	buf = append(buf, "PAR1"...)
	return buf
}

func TestOpenFile(t *testing.T) {
	data := buildFile(manualFooter)
	f, err := OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	require.Equal(t, int64(2), f.NumRows())
	require.Equal(t, 0, f.NumRowGroups())
	require.Equal(t, int64(len(data)), f.Size())

	leaves := f.Schema().Leaves()
	require.Len(t, leaves, 1)
	require.Equal(t, "a", leaves[0].Name)

	_, ok := f.CreatedBy()
	require.False(t, ok)
}

func TestOpenFileBadMagic(t *testing.T) {
	data := buildFile(manualFooter)
	data[0] = 'X'
	_, err := OpenFile(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
}

func TestOpenFileTooSmall(t *testing.T) {
	_, err := OpenFile(bytes.NewReader([]byte("PAR1")), 4)
	require.Error(t, err)
}

func TestNewReaderFlatSchemaNoRowGroups(t *testing.T) {
	data := buildFile(manualFooter)
	f, err := OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	r, err := NewReader(f)
	require.NoError(t, err)
	defer r.Close()

	require.False(t, r.Next())
	require.NoError(t, r.Err())
}
