package format

import (
	"fmt"

	"github.com/rionmonster/hardwood-sub002/internal/thrift"
)

// KeyValue is a single entry of a file or column chunk's free-form
// key/value metadata.
type KeyValue struct {
	Key   string
	Value string
	HasValue bool
}

func (kv *KeyValue) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			if kv.Key, err = r.ReadString(); err != nil {
				return err
			}
		case 2:
			if kv.Value, err = r.ReadString(); err != nil {
				return err
			}
			kv.HasValue = true
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// Statistics holds a column chunk's or data page's optional min/max/null
// summary.
type Statistics struct {
	Max           []byte
	Min           []byte
	NullCount     int64
	HasNullCount  bool
	DistinctCount int64
	HasDistinct   bool
	MaxValue      []byte
	MinValue      []byte
}

func (s *Statistics) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			if s.Max, err = r.ReadBytes(); err != nil {
				return err
			}
			s.Max = append([]byte(nil), s.Max...)
		case 2:
			if s.Min, err = r.ReadBytes(); err != nil {
				return err
			}
			s.Min = append([]byte(nil), s.Min...)
		case 3:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.NullCount, s.HasNullCount = v, true
		case 4:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.DistinctCount, s.HasDistinct = v, true
		case 5:
			if s.MaxValue, err = r.ReadBytes(); err != nil {
				return err
			}
			s.MaxValue = append([]byte(nil), s.MaxValue...)
		case 6:
			if s.MinValue, err = r.ReadBytes(); err != nil {
				return err
			}
			s.MinValue = append([]byte(nil), s.MinValue...)
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// SchemaElement is one node of the flat, pre-order schema list carried in
// FileMetaData.Schema.
type SchemaElement struct {
	Type               Type
	HasType            bool
	TypeLength         int32
	RepetitionType     FieldRepetitionType
	HasRepetitionType  bool
	Name               string
	NumChildren        int32
	ConvertedType      ConvertedType
	HasConvertedType   bool
	Scale              int32
	Precision          int32
	FieldID            int32
	HasFieldID         bool
	LogicalType        *LogicalType
}

func (s *SchemaElement) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.Type, s.HasType = Type(v), true
		case 2:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.TypeLength = int32(v)
		case 3:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.RepetitionType, s.HasRepetitionType = FieldRepetitionType(v), true
		case 4:
			if s.Name, err = r.ReadString(); err != nil {
				return err
			}
		case 5:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.NumChildren = int32(v)
		case 6:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.ConvertedType, s.HasConvertedType = ConvertedType(v), true
		case 7:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.Scale = int32(v)
		case 8:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.Precision = int32(v)
		case 9:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			s.FieldID, s.HasFieldID = int32(v), true
		case 10:
			lt, err := decodeLogicalType(r)
			if err != nil {
				return err
			}
			s.LogicalType = lt
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

func decodeLogicalType(r *thrift.Reader) (*LogicalType, error) {
	lt := &LogicalType{}
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return nil, err
		}
		if stop {
			return lt, nil
		}
		switch id {
		case 1: // StringType
			lt.String = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 2: // MapType
			lt.Map = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 3: // ListType
			lt.List = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 4: // EnumType
			lt.Enum = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 5: // DecimalType
			d, err := decodeDecimalType(r)
			if err != nil {
				return nil, err
			}
			lt.Decimal = d
		case 6: // DateType
			lt.Date = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 7: // TimeType
			tt, err := decodeTimeType(r)
			if err != nil {
				return nil, err
			}
			lt.Time = tt
		case 8: // TimestampType
			tt, err := decodeTimeType(r)
			if err != nil {
				return nil, err
			}
			lt.Timestamp = tt
		case 10: // IntType
			it, err := decodeIntType(r)
			if err != nil {
				return nil, err
			}
			lt.Integer = it
		case 11:
			lt.Unknown = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 12:
			lt.Json = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 13:
			lt.Bson = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		case 14:
			lt.UUID = true
			if err := skipEmptyStruct(r); err != nil {
				return nil, err
			}
		default:
			if err := r.Skip(typ); err != nil {
				return nil, err
			}
		}
	}
}

func skipEmptyStruct(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		_, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		if err := r.Skip(typ); err != nil {
			return err
		}
	}
}

func decodeDecimalType(r *thrift.Reader) (*DecimalType, error) {
	d := &DecimalType{}
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return nil, err
		}
		if stop {
			return d, nil
		}
		switch id {
		case 1:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			d.Scale = int32(v)
		case 2:
			v, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			d.Precision = int32(v)
		default:
			if err := r.Skip(typ); err != nil {
				return nil, err
			}
		}
	}
}

func decodeTimeType(r *thrift.Reader) (*TimeType, error) {
	t := &TimeType{}
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return nil, err
		}
		if stop {
			return t, nil
		}
		switch id {
		case 1:
			t.IsAdjustedToUTC = typ == thrift.TypeBooleanTrue
		case 2:
			unit, err := decodeTimeUnit(r)
			if err != nil {
				return nil, err
			}
			t.Unit = unit
		default:
			if err := r.Skip(typ); err != nil {
				return nil, err
			}
		}
	}
}

func decodeTimeUnit(r *thrift.Reader) (string, error) {
	r.EnterStruct()
	defer r.ExitStruct()
	unit := ""
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return "", err
		}
		if stop {
			return unit, nil
		}
		switch id {
		case 1:
			unit = "MILLIS"
		case 2:
			unit = "MICROS"
		case 3:
			unit = "NANOS"
		}
		if err := r.Skip(typ); err != nil {
			return "", err
		}
	}
}

func decodeIntType(r *thrift.Reader) (*IntType, error) {
	it := &IntType{}
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return nil, err
		}
		if stop {
			return it, nil
		}
		switch id {
		case 1:
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			it.BitWidth = int8(b)
		case 2:
			it.IsSigned = typ == thrift.TypeBooleanTrue
		default:
			if err := r.Skip(typ); err != nil {
				return nil, err
			}
		}
	}
}

// ColumnMetaData describes one column chunk's encoding, compression, and
// location within the file.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	IndexPageOffset       int64
	HasIndexPageOffset    bool
	DictionaryPageOffset  int64
	HasDictionaryPageOffset bool
	Statistics            *Statistics
	BloomFilterOffset     int64
	HasBloomFilterOffset  bool
}

func (c *ColumnMetaData) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.Type = Type(v)
		case 2:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.Encodings = make([]Encoding, n)
			for i := 0; i < n; i++ {
				v, err := readEnumElement(r, elemType)
				if err != nil {
					return err
				}
				c.Encodings[i] = Encoding(v)
			}
		case 3:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.PathInSchema = make([]string, n)
			for i := 0; i < n; i++ {
				s, err := readStringElement(r, elemType)
				if err != nil {
					return err
				}
				c.PathInSchema[i] = s
			}
		case 4:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.Codec = CompressionCodec(v)
		case 5:
			if c.NumValues, err = r.ReadVarint(); err != nil {
				return err
			}
		case 6:
			if c.TotalUncompressedSize, err = r.ReadVarint(); err != nil {
				return err
			}
		case 7:
			if c.TotalCompressedSize, err = r.ReadVarint(); err != nil {
				return err
			}
		case 8:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.KeyValueMetadata = make([]KeyValue, n)
			for i := 0; i < n; i++ {
				if err := decodeListElementStruct(r, elemType, &c.KeyValueMetadata[i]); err != nil {
					return err
				}
			}
		case 9:
			if c.DataPageOffset, err = r.ReadVarint(); err != nil {
				return err
			}
		case 10:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.IndexPageOffset, c.HasIndexPageOffset = v, true
		case 11:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.DictionaryPageOffset, c.HasDictionaryPageOffset = v, true
		case 12:
			c.Statistics = &Statistics{}
			if err := c.Statistics.decode(r); err != nil {
				return err
			}
		case 14:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.BloomFilterOffset, c.HasBloomFilterOffset = v, true
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// ColumnChunk points at a column's metadata and its byte range within the
// file (or an external file_path, unsupported by this reader).
type ColumnChunk struct {
	FilePath          string
	HasFilePath       bool
	FileOffset        int64
	MetaData          *ColumnMetaData
	OffsetIndexOffset int64
	HasOffsetIndex    bool
	OffsetIndexLength int32
	ColumnIndexOffset int64
	HasColumnIndex    bool
	ColumnIndexLength int32
}

func (c *ColumnChunk) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			c.FilePath, c.HasFilePath = s, true
		case 2:
			if c.FileOffset, err = r.ReadVarint(); err != nil {
				return err
			}
		case 3:
			c.MetaData = &ColumnMetaData{}
			if err := c.MetaData.decode(r); err != nil {
				return err
			}
		case 4:
			if c.OffsetIndexOffset, err = r.ReadVarint(); err != nil {
				return err
			}
			c.HasOffsetIndex = true
		case 5:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.OffsetIndexLength = int32(v)
		case 6:
			if c.ColumnIndexOffset, err = r.ReadVarint(); err != nil {
				return err
			}
			c.HasColumnIndex = true
		case 7:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			c.ColumnIndexLength = int32(v)
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// RowGroup is a horizontal partition of the file's rows, holding one
// ColumnChunk per leaf column.
type RowGroup struct {
	Columns             []ColumnChunk
	TotalByteSize       int64
	NumRows             int64
	FileOffset          int64
	HasFileOffset       bool
	TotalCompressedSize int64
	HasTotalCompressedSize bool
}

func (g *RowGroup) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			g.Columns = make([]ColumnChunk, n)
			for i := 0; i < n; i++ {
				if err := decodeListElementStruct(r, elemType, &g.Columns[i]); err != nil {
					return err
				}
			}
		case 2:
			if g.TotalByteSize, err = r.ReadVarint(); err != nil {
				return err
			}
		case 3:
			if g.NumRows, err = r.ReadVarint(); err != nil {
				return err
			}
		case 5:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			g.FileOffset, g.HasFileOffset = v, true
		case 6:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			g.TotalCompressedSize, g.HasTotalCompressedSize = v, true
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// FileMetaData is the fully decoded Parquet footer.
type FileMetaData struct {
	Version          int32
	Schema           []SchemaElement
	NumRows          int64
	RowGroups        []RowGroup
	KeyValueMetadata []KeyValue
	CreatedBy        string
	HasCreatedBy     bool
}

// ReadFileMetaData decodes a FileMetaData struct from buf, which must
// contain exactly the Thrift compact-protocol encoding of the footer (the
// 4 trailing bytes of the file, the magic, and the length prefix are not
// part of buf).
func ReadFileMetaData(buf []byte) (*FileMetaData, error) {
	r := thrift.NewReader(buf)
	m := &FileMetaData{}
	if err := m.decode(r); err != nil {
		return nil, fmt.Errorf("decoding file metadata: %w", err)
	}
	return m, nil
}

func (m *FileMetaData) decode(r *thrift.Reader) error {
	r.EnterStruct()
	defer r.ExitStruct()
	for {
		id, typ, stop, err := r.FieldHeader()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		switch id {
		case 1:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			m.Version = int32(v)
		case 2:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.Schema = make([]SchemaElement, n)
			for i := 0; i < n; i++ {
				if err := decodeListElementStruct(r, elemType, &m.Schema[i]); err != nil {
					return err
				}
			}
		case 3:
			if m.NumRows, err = r.ReadVarint(); err != nil {
				return err
			}
		case 4:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.RowGroups = make([]RowGroup, n)
			for i := 0; i < n; i++ {
				if err := decodeListElementStruct(r, elemType, &m.RowGroups[i]); err != nil {
					return err
				}
			}
		case 5:
			n, elemType, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.KeyValueMetadata = make([]KeyValue, n)
			for i := 0; i < n; i++ {
				if err := decodeListElementStruct(r, elemType, &m.KeyValueMetadata[i]); err != nil {
					return err
				}
			}
		case 6:
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			m.CreatedBy, m.HasCreatedBy = s, true
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// Lookup returns the value associated with key in the file's free-form
// key/value metadata.
func (m *FileMetaData) Lookup(key string) (string, bool) {
	for _, kv := range m.KeyValueMetadata {
		if kv.Key == key {
			return kv.Value, kv.HasValue
		}
	}
	return "", false
}

type structDecoder interface {
	decode(r *thrift.Reader) error
}

func decodeListElementStruct(r *thrift.Reader, elemType byte, dst structDecoder) error {
	if elemType != thrift.TypeStruct {
		return r.Skip(elemType)
	}
	return dst.decode(r)
}

func readEnumElement(r *thrift.Reader, elemType byte) (int64, error) {
	switch elemType {
	case thrift.TypeI32, thrift.TypeI16, thrift.TypeI64:
		v, err := r.ReadVarint()
		if err != nil {
			return 0, err
		}
		if v < int64(Plain) || v > int64(ByteStreamSplit) {
			return int64(UnknownEncoding), nil
		}
		return v, nil
	default:
		if err := r.Skip(elemType); err != nil {
			return 0, err
		}
		return int64(UnknownEncoding), nil
	}
}

func readStringElement(r *thrift.Reader, elemType byte) (string, error) {
	if elemType != thrift.TypeBinary {
		if err := r.Skip(elemType); err != nil {
			return "", err
		}
		return "", nil
	}
	return r.ReadString()
}
