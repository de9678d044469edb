package report

import (
	"bytes"
	"encoding/json"
)

// DefaultTitle is used when no title row sits above the header.
const DefaultTitle = "Service Employee Rank"

// Derived metadata keys.
const (
	MetaExported    = "Exported"
	MetaExportedRaw = "Exported Raw"
	MetaExportedISO = "Exported ISO"
)

// Record maps column name to coerced cell value.
type Record map[string]TypedValue

// Dataset is the typed table extracted from the data sheet.
type Dataset struct {
	Title      string
	Columns    []string
	Rows       []Record
	FieldTypes map[string]FieldType
}

// Metadata is the flat key/value map built from the filters sheet.
type Metadata map[string]string

// Source names where a document came from.
type Source struct {
	DataSheet    string `json:"dataSheet"`
	FiltersSheet string `json:"filtersSheet"`
	Filename     string `json:"filename"`
}

// DatasetBody is the dataset as published, without field types.
type DatasetBody struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// Document is the JSON artifact consumed by the dashboard.
type Document struct {
	Meta        Metadata             `json:"meta"`
	Dataset     DatasetBody          `json:"dataset"`
	FieldTypes  map[string]FieldType `json:"fieldTypes"`
	Source      Source               `json:"source"`
	GeneratedAt string               `json:"generatedAt"`
}

// NewDocument assembles a document, replacing nil collections with empty ones
// so the JSON never carries null where the dashboard expects an object or array.
func NewDocument(meta Metadata, ds *Dataset, src Source, generatedAt string) *Document {
	if meta == nil {
		meta = Metadata{}
	}
	columns := ds.Columns
	if columns == nil {
		columns = []string{}
	}
	rows := ds.Rows
	if rows == nil {
		rows = []Record{}
	}
	fieldTypes := ds.FieldTypes
	if fieldTypes == nil {
		fieldTypes = map[string]FieldType{}
	}

	return &Document{
		Meta: meta,
		Dataset: DatasetBody{
			Title:   ds.Title,
			Columns: columns,
			Rows:    rows,
		},
		FieldTypes:  fieldTypes,
		Source:      src,
		GeneratedAt: generatedAt,
	}
}

// EncodeIndent renders the document as two-space indented JSON without HTML
// escaping, terminated by a newline.
func (d *Document) EncodeIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
