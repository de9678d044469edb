package excel

import "encoding/xml"

// Entry paths every workbook container must carry.
const (
	WorkbookPath          = "xl/workbook.xml"
	WorkbookRelsPath      = "xl/_rels/workbook.xml.rels"
	DefaultSharedStrings  = "xl/sharedStrings.xml"
	workbookDir           = "xl/"
	relTypeSharedStrings  = "sharedstrings"
	sharedStringCellType  = "s"
	defaultSheetName      = "Sheet"
	relationshipIDAttrTag = "id"
)

// RawGrid is a sheet decoded to rows of raw cell text. Each row is as long as
// its highest populated column; absent cells are empty strings.
type RawGrid [][]string

// SheetRef pairs a sheet's display name with its entry path in the container.
type SheetRef struct {
	Name string
	Path string
}

// xlsxWorkbook maps the parts of xl/workbook.xml the resolver needs.
type xlsxWorkbook struct {
	XMLName xml.Name    `xml:"workbook"`
	Sheets  []xlsxSheet `xml:"sheets>sheet"`
}

// xlsxSheet keeps all attributes because the relationship id lives in a
// namespace that differs between transitional and strict documents.
type xlsxSheet struct {
	Name  string     `xml:"name,attr"`
	Attrs []xml.Attr `xml:",any,attr"`
}

// relationshipID returns the r:id attribute regardless of its namespace.
func (s xlsxSheet) relationshipID() string {
	for _, a := range s.Attrs {
		if a.Name.Local == relationshipIDAttrTag && a.Name.Space != "" {
			return a.Value
		}
	}
	return ""
}

type xlsxRelationships struct {
	XMLName       xml.Name           `xml:"Relationships"`
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
	Type   string `xml:"Type,attr"`
}

// xlsxSST maps the shared string table.
type xlsxSST struct {
	XMLName xml.Name `xml:"sst"`
	SI      []xlsxSI `xml:"si"`
}

// xlsxSI is one shared string item: plain text, rich-text runs, or both.
type xlsxSI struct {
	T *xlsxT  `xml:"t"`
	R []xlsxR `xml:"r"`
}

type xlsxR struct {
	T *xlsxT `xml:"t"`
}

type xlsxT struct {
	Value string `xml:",chardata"`
}

// xlsxRow maps one sheetData row.
type xlsxRow struct {
	C []xlsxC `xml:"c"`
}

// xlsxC maps one cell. V is nil when the cell has no value child.
type xlsxC struct {
	R string  `xml:"r,attr"`
	T string  `xml:"t,attr"`
	V *string `xml:"v"`
}
