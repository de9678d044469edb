package report

import (
	"encoding/json"
	"time"

	"serviceboard/domain/core"
)

// ArchivedReport is one upload kept in the report archive.
type ArchivedReport struct {
	ID           core.ReportID `json:"id" db:"id"`
	Filename     string        `json:"filename" db:"filename"`
	Title        string        `json:"title" db:"title"`
	RowCount     int           `json:"rowCount" db:"row_count"`
	Sheets       []string      `json:"sheets" db:"-"`
	ExportedISO  string        `json:"exportedIso,omitempty" db:"exported_iso"`
	WorkbookHash core.Hash     `json:"workbookHash" db:"workbook_hash"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	// Document is the full published JSON, present only on single-report reads.
	Document json.RawMessage `json:"document,omitempty" db:"-"`
}

// NewArchivedReport captures the listing fields of doc alongside its JSON.
func NewArchivedReport(id core.ReportID, doc *Document, sheets []string, workbook []byte, createdAt time.Time) (*ArchivedReport, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if sheets == nil {
		sheets = []string{}
	}
	return &ArchivedReport{
		ID:           id,
		Filename:     doc.Source.Filename,
		Title:        doc.Dataset.Title,
		RowCount:     len(doc.Dataset.Rows),
		Sheets:       sheets,
		ExportedISO:  doc.Meta[MetaExportedISO],
		WorkbookHash: core.NewHash(workbook),
		CreatedAt:    createdAt.UTC(),
		Document:     body,
	}, nil
}
