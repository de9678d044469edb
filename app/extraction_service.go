package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"serviceboard/adapters/excel"
	"serviceboard/domain/core"
	"serviceboard/domain/report"
	"serviceboard/internal/dataset"
	apperrors "serviceboard/internal/errors"
)

const (
	dataSheetName    = "data"
	filtersSheetName = "filters"
)

// ExtractionService turns workbook bytes into a published Document. It keeps
// no per-call state and is safe for concurrent use.
type ExtractionService struct {
	logger *zap.Logger
	clock  core.Clock
}

// NewExtractionService creates an extraction service. A nil logger discards
// output and a nil clock uses the system clock.
func NewExtractionService(logger *zap.Logger, clock core.Clock) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &ExtractionService{logger: logger, clock: clock}
}

// Extract runs the full pipeline over data and returns the document.
func (s *ExtractionService) Extract(ctx context.Context, data []byte, filename string) (*report.Document, error) {
	res, err := s.ExtractWorkbook(ctx, data, filename)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// ExtractFile reads the workbook at path and extracts it. The document's
// source filename is the base name of path.
func (s *ExtractionService) ExtractFile(ctx context.Context, path string) (*report.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.Extract(ctx, data, filepath.Base(path))
}

// ExtractTo extracts the workbook at inPath and writes the document to
// outPath as indented JSON, creating parent directories.
func (s *ExtractionService) ExtractTo(ctx context.Context, inPath, outPath string) (*report.Document, error) {
	doc, err := s.ExtractFile(ctx, inPath)
	if err != nil {
		return nil, err
	}
	body, err := doc.EncodeIndent()
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, body, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	s.logger.Debug("document written", zap.String("path", outPath), zap.Int("rows", len(doc.Dataset.Rows)))
	return doc, nil
}

// ExtractWorkbook is Extract plus the resolved sheet names.
func (s *ExtractionService) ExtractWorkbook(ctx context.Context, data []byte, filename string) (*report.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wb, err := excel.ReadWorkbook(ctx, data)
	if err != nil {
		s.logger.Warn("workbook rejected",
			zap.String("filename", filename),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return nil, err
	}

	dataSheet := selectDataSheet(wb)
	ds, stats, err := dataset.Build(dataSheet.Rows)
	if err != nil {
		if errors.Is(err, apperrors.ErrHeaderNotFound) {
			err = apperrors.HeaderNotFound(dataSheet.Name)
		}
		s.logger.Warn("data sheet rejected",
			zap.String("filename", filename),
			zap.String("sheet", dataSheet.Name),
			zap.Error(err))
		return nil, err
	}

	src := report.Source{DataSheet: dataSheet.Name, Filename: filename}
	meta := report.Metadata{}
	if filters, ok := wb.SheetByName(filtersSheetName); ok {
		src.FiltersSheet = filters.Name
		meta = dataset.BuildMetadata(filters.Rows)
	}

	generatedAt := core.NewTimestamp(s.clock()).GeneratedAt()
	doc := report.NewDocument(meta, ds, src, generatedAt)

	sheets := make([]string, 0, len(wb.Sheets))
	for _, sh := range wb.Sheets {
		sheets = append(sheets, sh.Name)
	}

	s.logger.Info("workbook extracted",
		zap.String("filename", filename),
		zap.String("data_sheet", src.DataSheet),
		zap.String("filters_sheet", src.FiltersSheet),
		zap.Int("header_row", stats.HeaderRow),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("dropped_rows", stats.DroppedNoEmployee),
		zap.Int("meta_keys", len(meta)))

	return &report.Extraction{Document: doc, Sheets: sheets}, nil
}

// selectDataSheet prefers a sheet named "data", then the first sheet with a
// locatable header, then the first sheet.
func selectDataSheet(wb *excel.Workbook) *excel.Sheet {
	if s, ok := wb.SheetByName(dataSheetName); ok {
		return s
	}
	for i := range wb.Sheets {
		if _, ok := dataset.FindHeaderRow(wb.Sheets[i].Rows); ok {
			return &wb.Sheets[i]
		}
	}
	return &wb.Sheets[0]
}
