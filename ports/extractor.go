package ports

import (
	"context"

	"serviceboard/domain/report"
)

// WorkbookExtractor turns uploaded workbook bytes into a published document.
type WorkbookExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*report.Document, error)
	ExtractWorkbook(ctx context.Context, data []byte, filename string) (*report.Extraction, error)
}
