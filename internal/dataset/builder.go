package dataset

import (
	"strings"

	"serviceboard/adapters/datareadiness/coercer"
	"serviceboard/domain/report"
	apperrors "serviceboard/internal/errors"
)

// BuildStats describes what Build did with the grid, for logging.
type BuildStats struct {
	HeaderRow         int
	TitleRow          int // -1 when the default title was used
	BlankRows         int
	DroppedNoEmployee int
}

// BuildDataset turns the raw grid of the data sheet into a typed dataset.
func BuildDataset(rows [][]string) (*report.Dataset, error) {
	ds, _, err := Build(rows)
	return ds, err
}

// Build locates the header, infers the title, and coerces every row below
// the header. Rows without a non-empty string in the employee column are
// dropped and take no part in typing. A column's field type is promoted from
// string the first time one of its kept cells coerces to number or percent
// and is never demoted.
func Build(rows [][]string) (*report.Dataset, BuildStats, error) {
	stats := BuildStats{TitleRow: -1}

	headerIdx, ok := FindHeaderRow(rows)
	if !ok {
		return nil, stats, apperrors.HeaderNotFound("")
	}
	stats.HeaderRow = headerIdx

	title, titleRow := inferTitle(rows[:headerIdx])
	stats.TitleRow = titleRow

	columns := make([]string, 0)
	for _, cell := range NormalizeRow(rows[headerIdx]) {
		if cell != "" {
			columns = append(columns, cell)
		}
	}

	fieldTypes := make(map[string]report.FieldType, len(columns))
	for _, col := range columns {
		fieldTypes[col] = report.FieldString
	}

	out := make([]report.Record, 0)
	for _, raw := range rows[headerIdx+1:] {
		r := NormalizeRow(raw)
		if len(r) == 0 || isBlank(r) {
			stats.BlankRows++
			continue
		}
		for len(r) < len(columns) {
			r = append(r, "")
		}

		rec := make(report.Record, len(columns))
		hasEmployee := false
		for i, col := range columns {
			v := coercer.Coerce(r[i])
			rec[col] = v
			if strings.EqualFold(col, EmployeeColumn) && v.IsString() && strings.TrimSpace(v.Str) != "" {
				hasEmployee = true
			}
		}

		if !hasEmployee {
			stats.DroppedNoEmployee++
			continue
		}
		for _, col := range columns {
			if v := rec[col]; fieldTypes[col] == report.FieldString && v.Type.IsNumeric() {
				fieldTypes[col] = v.Type
			}
		}
		out = append(out, rec)
	}

	return &report.Dataset{
		Title:      title,
		Columns:    columns,
		Rows:       out,
		FieldTypes: fieldTypes,
	}, stats, nil
}

// inferTitle walks upward from the row just above the header and returns the
// first row that normalizes to exactly one non-empty cell.
func inferTitle(above [][]string) (string, int) {
	for j := len(above) - 1; j >= 0; j-- {
		r := NormalizeRow(above[j])
		if len(r) == 1 && r[0] != "" {
			return r[0], j
		}
	}
	return report.DefaultTitle, -1
}
