package excel

import (
	"encoding/xml"
	"path"
	"strings"

	apperrors "serviceboard/internal/errors"
)

// WorkbookParts is the result of walking the workbook relationship graph.
type WorkbookParts struct {
	// Sheets in the order the workbook declares them.
	Sheets []SheetRef
	// SharedStrings is the entry path of the string pool, whether or not it exists.
	SharedStrings string
}

// ResolveWorkbook cross-references each <sheet> declaration's relationship id
// with xl/_rels/workbook.xml.rels. Sheets whose id has no target are skipped.
func ResolveWorkbook(c *Container) (*WorkbookParts, error) {
	wbData, err := c.Entry(WorkbookPath)
	if err != nil {
		return nil, err
	}
	relData, err := c.Entry(WorkbookRelsPath)
	if err != nil {
		return nil, err
	}

	var wb xlsxWorkbook
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return nil, apperrors.InvalidArchive("malformed "+WorkbookPath, err)
	}
	var rels xlsxRelationships
	if err := xml.Unmarshal(relData, &rels); err != nil {
		return nil, apperrors.InvalidArchive("malformed "+WorkbookRelsPath, err)
	}

	parts := &WorkbookParts{SharedStrings: DefaultSharedStrings}
	targets := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		if rel.Target == "" {
			continue
		}
		targets[rel.ID] = entryPath(rel.Target)
		if strings.EqualFold(path.Base(rel.Type), relTypeSharedStrings) {
			parts.SharedStrings = targets[rel.ID]
		}
	}

	for _, s := range wb.Sheets {
		target, ok := targets[s.relationshipID()]
		if !ok {
			continue
		}
		name := s.Name
		if name == "" {
			name = defaultSheetName
		}
		parts.Sheets = append(parts.Sheets, SheetRef{Name: name, Path: target})
	}
	return parts, nil
}

// ResolveSheets returns the declared sheets with their entry paths.
func ResolveSheets(c *Container) ([]SheetRef, error) {
	parts, err := ResolveWorkbook(c)
	if err != nil {
		return nil, err
	}
	return parts.Sheets, nil
}

// entryPath roots a relationship target at the workbook directory. Absolute
// targets ("/xl/worksheets/sheet1.xml") are taken from the archive root.
func entryPath(target string) string {
	switch {
	case strings.HasPrefix(target, "/"):
		return strings.TrimPrefix(target, "/")
	case strings.HasPrefix(target, workbookDir):
		return target
	default:
		return path.Clean(workbookDir + target)
	}
}
