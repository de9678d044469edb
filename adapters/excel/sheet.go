package excel

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "serviceboard/internal/errors"
)

// ColumnIndex converts spreadsheet column letters to a 1-based index:
// A=1, Z=26, AA=27.
func ColumnIndex(letters string) (int, error) {
	return excelize.ColumnNameToNumber(letters)
}

// cellColumn extracts the column index from the leading letters of a cell
// reference, so "AB12" and "AB" both give 28. Columns past XFD, the last
// one a worksheet can hold, are rejected and the cell is skipped.
func cellColumn(ref string) (int, bool) {
	n := 0
	for n < len(ref) && isASCIILetter(ref[n]) {
		n++
	}
	if n == 0 {
		return 0, false
	}
	idx, err := ColumnIndex(ref[:n])
	if err != nil {
		return 0, false
	}
	return idx, true
}

func isASCIILetter(b byte) bool {
	return ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z')
}

// ParseSheet decodes one worksheet entry into a RawGrid. Rows are streamed
// one <row> element at a time so large sheets are never held as a DOM.
//
// Cells without a <v> child are skipped and do not widen their row. Rows
// without any value-bearing cell become empty slices so row positions are
// preserved for the header search.
func ParseSheet(c *Container, ref SheetRef, shared SharedStrings) (RawGrid, error) {
	rc, err := c.Open(ref.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	grid := RawGrid{}
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.InvalidArchive(fmt.Sprintf("malformed sheet %q", ref.Name), err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}

		var row xlsxRow
		if err := dec.DecodeElement(&row, &start); err != nil {
			return nil, apperrors.InvalidArchive(fmt.Sprintf("malformed row in sheet %q", ref.Name), err)
		}
		grid = append(grid, denseRow(row, shared))
	}
	return grid, nil
}

// denseRow places each value-bearing cell at its column position.
func denseRow(row xlsxRow, shared SharedStrings) []string {
	cells := make(map[int]string, len(row.C))
	maxCol := 0
	for _, c := range row.C {
		if c.R == "" || c.V == nil {
			continue
		}
		col, ok := cellColumn(c.R)
		if !ok {
			continue
		}

		val := *c.V
		if c.T == sharedStringCellType {
			if resolved, ok := shared.Lookup(val); ok {
				val = resolved
			}
		}
		cells[col] = val
		if col > maxCol {
			maxCol = col
		}
	}

	out := make([]string, maxCol)
	for col, val := range cells {
		out[col-1] = val
	}
	return out
}
