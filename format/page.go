package format

import "github.com/rionmonster/hardwood-sub002/internal/thrift"

// DataPageHeader describes a DATA_PAGE (v1): its levels are prefixed inside
// the (possibly compressed) page payload.
type DataPageHeader struct {
	NumValues                int32
	Encoding                 Encoding
	DefinitionLevelEncoding  Encoding
	RepetitionLevelEncoding  Encoding
	Statistics               *Statistics
}

func (h *DataPageHeader) decode(r *thrift.Reader) error {
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
			h.NumValues = int32(v)
		case 2:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.Encoding = Encoding(v)
		case 3:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.DefinitionLevelEncoding = Encoding(v)
		case 4:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.RepetitionLevelEncoding = Encoding(v)
		case 5:
			h.Statistics = &Statistics{}
			if err := h.Statistics.decode(r); err != nil {
				return err
			}
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// DataPageHeaderV2 describes a DATA_PAGE_V2: its repetition/definition
// level streams are stored uncompressed, with explicit byte lengths, ahead
// of the (optionally compressed) value stream.
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
	HasIsCompressed            bool
	Statistics                 *Statistics
}

// Compressed reports whether the value stream is run through the column's
// codec, defaulting to true when the field is absent (per the Thrift IDL's
// documented default).
func (h *DataPageHeaderV2) Compressed() bool {
	if !h.HasIsCompressed {
		return true
	}
	return h.IsCompressed
}

func (h *DataPageHeaderV2) decode(r *thrift.Reader) error {
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
			h.NumValues = int32(v)
		case 2:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.NumNulls = int32(v)
		case 3:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.NumRows = int32(v)
		case 4:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.Encoding = Encoding(v)
		case 5:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.DefinitionLevelsByteLength = int32(v)
		case 6:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.RepetitionLevelsByteLength = int32(v)
		case 7:
			h.IsCompressed = typ == thrift.TypeBooleanTrue
			h.HasIsCompressed = true
		case 8:
			h.Statistics = &Statistics{}
			if err := h.Statistics.decode(r); err != nil {
				return err
			}
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// DictionaryPageHeader describes a DICTIONARY_PAGE: the set of distinct
// values a RLE_DICTIONARY/PLAIN_DICTIONARY-encoded column chunk indexes
// into.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  bool
}

func (h *DictionaryPageHeader) decode(r *thrift.Reader) error {
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
			h.NumValues = int32(v)
		case 2:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.Encoding = Encoding(v)
		case 3:
			h.IsSorted = typ == thrift.TypeBooleanTrue
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}

// PageHeader is the framing struct that precedes every page's payload
// within a column chunk's byte range.
type PageHeader struct {
	Type                  PageType
	UncompressedPageSize  int32
	CompressedPageSize    int32
	CRC                   int32
	HasCRC                bool
	DataPageHeader        *DataPageHeader
	DictionaryPageHeader  *DictionaryPageHeader
	DataPageHeaderV2      *DataPageHeaderV2
}

// DecodePageHeader decodes one PageHeader from r, positioned at the start
// of a page's framing bytes.
func DecodePageHeader(r *thrift.Reader) (*PageHeader, error) {
	h := &PageHeader{}
	if err := h.decode(r); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *PageHeader) decode(r *thrift.Reader) error {
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
			h.Type = PageType(v)
		case 2:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.UncompressedPageSize = int32(v)
		case 3:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.CompressedPageSize = int32(v)
		case 4:
			v, err := r.ReadVarint()
			if err != nil {
				return err
			}
			h.CRC, h.HasCRC = int32(v), true
		case 5:
			h.DataPageHeader = &DataPageHeader{}
			if err := h.DataPageHeader.decode(r); err != nil {
				return err
			}
		case 7:
			h.DictionaryPageHeader = &DictionaryPageHeader{}
			if err := h.DictionaryPageHeader.decode(r); err != nil {
				return err
			}
		case 8:
			h.DataPageHeaderV2 = &DataPageHeaderV2{}
			if err := h.DataPageHeaderV2.decode(r); err != nil {
				return err
			}
		default:
			if err := r.Skip(typ); err != nil {
				return err
			}
		}
	}
}
