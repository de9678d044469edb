package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"serviceboard/domain/core"
	"serviceboard/domain/report"
	"serviceboard/internal/dataset"
	"serviceboard/ports"
)

// ErrArchiveDisabled is returned by archive queries when no database is
// configured.
var ErrArchiveDisabled = errors.New("report archive is not configured")

// ReportService publishes uploaded workbooks and answers queries about the
// latest and archived reports.
type ReportService struct {
	extractor ports.WorkbookExtractor
	store     ports.DocumentStore
	repo      ports.ReportRepository
	logger    *zap.Logger
	clock     core.Clock
}

// IngestResult is the outcome of one accepted upload.
type IngestResult struct {
	ID       core.ReportID
	Document *report.Document
	Archived bool
}

// NewReportService creates a report service. repo may be nil, which turns the
// archive off.
func NewReportService(extractor ports.WorkbookExtractor, store ports.DocumentStore, repo ports.ReportRepository, logger *zap.Logger, clock core.Clock) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &ReportService{
		extractor: extractor,
		store:     store,
		repo:      repo,
		logger:    logger,
		clock:     clock,
	}
}

// ArchiveEnabled reports whether uploads are archived.
func (s *ReportService) ArchiveEnabled() bool {
	return s.repo != nil
}

// Ingest extracts data, publishes it as the latest report and archives it.
// A workbook that fails extraction leaves the previous latest report in place.
// Archive failures are logged; the upload still counts as published.
func (s *ReportService) Ingest(ctx context.Context, data []byte, filename string) (*IngestResult, error) {
	res, err := s.extractor.ExtractWorkbook(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	if err := s.store.Publish(ctx, data, res.Document); err != nil {
		return nil, err
	}

	out := &IngestResult{
		ID:       core.ReportID(core.NewID()),
		Document: res.Document,
	}
	if s.repo == nil {
		return out, nil
	}

	rep, err := report.NewArchivedReport(out.ID, res.Document, res.Sheets, data, s.clock())
	if err == nil {
		err = s.repo.Save(ctx, rep)
	}
	if err != nil {
		s.logger.Error("failed to archive report",
			zap.String("report_id", out.ID.String()),
			zap.String("filename", filename),
			zap.Error(err))
		return out, nil
	}

	out.Archived = true
	s.logger.Info("report archived",
		zap.String("report_id", out.ID.String()),
		zap.String("workbook_hash", rep.WorkbookHash.Short()))
	return out, nil
}

// Latest returns the current document.
func (s *ReportService) Latest(ctx context.Context) (*report.Document, error) {
	return s.store.Current(ctx)
}

// Summary returns column statistics for the current document.
func (s *ReportService) Summary(ctx context.Context) ([]dataset.ColumnSummary, error) {
	doc, err := s.store.Current(ctx)
	if err != nil {
		return nil, err
	}
	return dataset.Summarize(doc.Dataset.Columns, doc.Dataset.Rows, doc.FieldTypes), nil
}

// ListReports returns archived reports, newest first.
func (s *ReportService) ListReports(ctx context.Context, limit int) ([]*report.ArchivedReport, error) {
	if s.repo == nil {
		return nil, ErrArchiveDisabled
	}
	return s.repo.List(ctx, limit)
}

// GetReport returns one archived report with its document.
func (s *ReportService) GetReport(ctx context.Context, id core.ReportID) (*report.ArchivedReport, error) {
	if s.repo == nil {
		return nil, ErrArchiveDisabled
	}
	return s.repo.Get(ctx, id)
}
