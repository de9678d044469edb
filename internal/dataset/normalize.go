package dataset

import "strings"

// NormalizeRow drops trailing blank cells and trims every remaining cell.
// Leading and interior blanks stay as "" so cells keep their column positions.
func NormalizeRow(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}

	out := make([]string, end)
	for i := 0; i < end; i++ {
		out[i] = strings.TrimSpace(row[i])
	}
	return out
}

// NormalizeRows applies NormalizeRow to every row of a grid.
func NormalizeRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = NormalizeRow(row)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
