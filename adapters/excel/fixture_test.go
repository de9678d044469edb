package excel

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	nsMain = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// zipOf writes the given entries into an in-memory zip archive.
func zipOf(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type fixtureSheet struct {
	name   string
	target string
	body   string
}

// handWorkbook assembles a minimal container around raw sheet XML.
func handWorkbook(t *testing.T, sheets []fixtureSheet, shared []string) []byte {
	t.Helper()

	var decl, rels strings.Builder
	entries := map[string]string{}
	for i, s := range sheets {
		id := fmt.Sprintf("rId%d", i+1)
		fmt.Fprintf(&decl, `<sheet name="%s" sheetId="%d" r:id="%s"/>`, s.name, i+1, id)
		fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s/worksheet" Target="%s"/>`, id, nsRel, s.target)
		entries[entryPath(s.target)] = s.body
	}
	if shared != nil {
		fmt.Fprintf(&rels, `<Relationship Id="rIdSST" Type="%s/sharedStrings" Target="sharedStrings.xml"/>`, nsRel)
		var sst strings.Builder
		fmt.Fprintf(&sst, `<sst xmlns="%s">`, nsMain)
		for _, s := range shared {
			fmt.Fprintf(&sst, `<si><t>%s</t></si>`, s)
		}
		sst.WriteString(`</sst>`)
		entries[DefaultSharedStrings] = sst.String()
	}

	entries[WorkbookPath] = fmt.Sprintf(`<workbook xmlns="%s" xmlns:r="%s"><sheets>%s</sheets></workbook>`, nsMain, nsRel, decl.String())
	entries[WorkbookRelsPath] = fmt.Sprintf(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">%s</Relationships>`, rels.String())
	return zipOf(t, entries)
}

func sheetXML(rows string) string {
	return fmt.Sprintf(`<worksheet xmlns="%s"><sheetData>%s</sheetData></worksheet>`, nsMain, rows)
}

// excelizeWorkbook writes the given sheets with excelize, in order.
func excelizeWorkbook(t *testing.T, sheets map[string][][]interface{}, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
