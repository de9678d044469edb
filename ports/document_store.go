package ports

import (
	"context"

	"serviceboard/domain/report"
)

// DocumentStore holds the most recently published report.
type DocumentStore interface {
	// Current returns the latest document, loading it from storage on first
	// use. It returns core.ErrNoDocument when nothing has been published.
	Current(ctx context.Context) (*report.Document, error)

	// Publish replaces the latest workbook and its document.
	Publish(ctx context.Context, workbook []byte, doc *report.Document) error
}
