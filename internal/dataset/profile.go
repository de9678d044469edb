package dataset

import (
	"serviceboard/adapters/datareadiness/coercer"
	apperrors "serviceboard/internal/errors"
)

// ColumnProfile is the raw type breakdown of one column below the header,
// before the employee filter.
type ColumnProfile struct {
	Column string `json:"column"`
	coercer.TypeAnalysis
}

// ProfileColumns coerces every non-blank row under the header and reports,
// per column, how many cells were empty, string, number or percent. Cells
// are assigned to columns by position, the same way Build assigns them.
func ProfileColumns(rows [][]string) ([]ColumnProfile, error) {
	headerIdx, ok := FindHeaderRow(rows)
	if !ok {
		return nil, apperrors.HeaderNotFound("")
	}

	columns := make([]string, 0)
	for _, cell := range NormalizeRow(rows[headerIdx]) {
		if cell != "" {
			columns = append(columns, cell)
		}
	}

	values := make([][]string, len(columns))
	for _, raw := range rows[headerIdx+1:] {
		r := NormalizeRow(raw)
		if len(r) == 0 || isBlank(r) {
			continue
		}
		for i := range columns {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			values[i] = append(values[i], cell)
		}
	}

	out := make([]ColumnProfile, len(columns))
	for i, col := range columns {
		out[i] = ColumnProfile{Column: col, TypeAnalysis: coercer.AnalyzeTypeDistribution(values[i])}
	}
	return out, nil
}
