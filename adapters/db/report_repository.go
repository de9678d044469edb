package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"serviceboard/domain/core"
	"serviceboard/domain/report"
	apperrors "serviceboard/internal/errors"
	"serviceboard/ports"
)

// createdAtLayout sorts lexically in time order.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 50

// reportRepository implements ports.ReportRepository on sqlx
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

type reportRow struct {
	ID           string `db:"id"`
	Filename     string `db:"filename"`
	Title        string `db:"title"`
	RowCount     int    `db:"row_count"`
	Sheets       string `db:"sheets"`
	ExportedISO  string `db:"exported_iso"`
	WorkbookHash string `db:"workbook_hash"`
	Document     string `db:"document"`
	CreatedAt    string `db:"created_at"`
}

// Save inserts an archived report
func (r *reportRepository) Save(ctx context.Context, rep *report.ArchivedReport) error {
	sheets, err := json.Marshal(rep.Sheets)
	if err != nil {
		return fmt.Errorf("failed to marshal sheets: %w", err)
	}

	query := r.db.Rebind(`INSERT INTO reports (
		id, filename, title, row_count, sheets, exported_iso, workbook_hash, document, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		rep.ID.String(), rep.Filename, rep.Title, rep.RowCount, string(sheets),
		rep.ExportedISO, rep.WorkbookHash.String(), string(rep.Document),
		rep.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return apperrors.DatabaseError("failed to save report", err)
	}
	return nil
}

// Get retrieves a report by its ID, including the document JSON
func (r *reportRepository) Get(ctx context.Context, id core.ReportID) (*report.ArchivedReport, error) {
	query := r.db.Rebind(`SELECT
		id, filename, title, row_count, sheets, exported_iso, workbook_hash, document, created_at
	FROM reports WHERE id = ?`)

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id)
		}
		return nil, apperrors.DatabaseError("failed to get report", err)
	}

	rep, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	rep.Document = json.RawMessage(row.Document)
	return rep, nil
}

// List returns the most recent reports first
func (r *reportRepository) List(ctx context.Context, limit int) ([]*report.ArchivedReport, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := r.db.Rebind(`SELECT
		id, filename, title, row_count, sheets, exported_iso, workbook_hash, '' AS document, created_at
	FROM reports ORDER BY created_at DESC, id DESC LIMIT ?`)

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, apperrors.DatabaseError("failed to list reports", err)
	}

	out := make([]*report.ArchivedReport, 0, len(rows))
	for _, row := range rows {
		rep, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, nil
}

func (row reportRow) toDomain() (*report.ArchivedReport, error) {
	var sheets []string
	if err := json.Unmarshal([]byte(row.Sheets), &sheets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sheets of report %s: %w", row.ID, err)
	}
	createdAt, err := time.Parse(createdAtLayout, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at of report %s: %w", row.ID, err)
	}

	return &report.ArchivedReport{
		ID:           core.ReportID(row.ID),
		Filename:     row.Filename,
		Title:        row.Title,
		RowCount:     row.RowCount,
		Sheets:       sheets,
		ExportedISO:  row.ExportedISO,
		WorkbookHash: core.Hash(row.WorkbookHash),
		CreatedAt:    createdAt,
	}, nil
}
