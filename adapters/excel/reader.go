package excel

import (
	"context"
	"strings"

	apperrors "serviceboard/internal/errors"
)

// Sheet is one decoded worksheet.
type Sheet struct {
	Name string
	Path string
	Rows RawGrid
}

// Workbook holds every sheet of one container, in declared order.
type Workbook struct {
	Sheets []Sheet
}

// ReadWorkbook opens the container, loads the shared strings and decodes
// every declared sheet. The container is released when it returns.
func ReadWorkbook(ctx context.Context, data []byte) (*Workbook, error) {
	c, err := OpenContainer(data)
	if err != nil {
		return nil, err
	}

	parts, err := ResolveWorkbook(c)
	if err != nil {
		return nil, err
	}
	if len(parts.Sheets) == 0 {
		return nil, apperrors.InvalidArchive("workbook declares no sheets", nil)
	}

	shared, err := LoadSharedStrings(c, parts.SharedStrings)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{Sheets: make([]Sheet, 0, len(parts.Sheets))}
	for _, ref := range parts.Sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := ParseSheet(c, ref, shared)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: ref.Name, Path: ref.Path, Rows: rows})
	}
	return wb, nil
}

// SheetByName returns the last sheet whose name equals name ignoring case.
func (wb *Workbook) SheetByName(name string) (*Sheet, bool) {
	var found *Sheet
	for i := range wb.Sheets {
		if strings.EqualFold(wb.Sheets[i].Name, name) {
			found = &wb.Sheets[i]
		}
	}
	return found, found != nil
}
