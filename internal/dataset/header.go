package dataset

import "strings"

// Tokens that identify the header row of the advisor table.
const (
	EmployeeColumn = "employee"
	RankColumn     = "rank"
)

// FindHeaderRow returns the index of the first row whose non-empty cells,
// lower-cased, include both "employee" and "rank" as whole cells.
func FindHeaderRow(rows [][]string) (int, bool) {
	for i, raw := range rows {
		if isHeaderRow(NormalizeRow(raw)) {
			return i, true
		}
	}
	return -1, false
}

func isHeaderRow(row []string) bool {
	var hasEmployee, hasRank bool
	for _, cell := range row {
		switch strings.ToLower(cell) {
		case EmployeeColumn:
			hasEmployee = true
		case RankColumn:
			hasRank = true
		}
	}
	return hasEmployee && hasRank
}
