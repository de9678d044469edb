package ports

import (
	"context"

	"serviceboard/domain/core"
	"serviceboard/domain/report"
)

// ReportRepository defines the interface for the upload archive
type ReportRepository interface {
	Save(ctx context.Context, r *report.ArchivedReport) error
	// Get returns the report with its full document JSON.
	Get(ctx context.Context, id core.ReportID) (*report.ArchivedReport, error)
	// List returns the newest reports first, without document JSON.
	List(ctx context.Context, limit int) ([]*report.ArchivedReport, error)
}
