package excel

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	apperrors "serviceboard/internal/errors"
)

// SharedStrings is the workbook's deduplicated string pool, indexed by position.
type SharedStrings []string

// Lookup resolves the raw text of a shared-string cell. It returns false when
// raw is not an integer or is out of range; callers keep raw in that case.
func (s SharedStrings) Lookup(raw string) (string, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= len(s) {
		return "", false
	}
	return s[idx], true
}

// LoadSharedStrings decodes the string pool at path. A workbook without the
// entry stores every cell literally, so absence yields an empty table.
func LoadSharedStrings(c *Container, path string) (SharedStrings, error) {
	if path == "" {
		path = DefaultSharedStrings
	}
	if !c.Has(path) {
		return SharedStrings{}, nil
	}

	data, err := c.Entry(path)
	if err != nil {
		return nil, err
	}

	var sst xlsxSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, apperrors.InvalidArchive(fmt.Sprintf("malformed %s", path), err)
	}

	out := make(SharedStrings, 0, len(sst.SI))
	for _, si := range sst.SI {
		out = append(out, si.text())
	}
	return out, nil
}

// text joins the plain fragment and every rich-text run in document order.
func (si xlsxSI) text() string {
	if len(si.R) == 0 {
		if si.T == nil {
			return ""
		}
		return si.T.Value
	}

	var b strings.Builder
	if si.T != nil {
		b.WriteString(si.T.Value)
	}
	for _, r := range si.R {
		if r.T != nil {
			b.WriteString(r.T.Value)
		}
	}
	return b.String()
}
