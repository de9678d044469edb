package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"serviceboard/domain/report"
)

const parametersKey = "parameters"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// "Dec 22 2025  5:17:17:583PM"
	exportedPattern = regexp.MustCompile(`(?i)^([a-z]{3})\s*(\d{1,2})\s+(\d{4})\s+(\d{1,2}):(\d{2}):(\d{2}):(\d{3})\s*(AM|PM)$`)
)

// BuildMetadata reads key/value pairs from the filters sheet. Values stay raw
// strings. A recognizable Exported value also yields Exported Raw and, when it
// parses, Exported ISO.
func BuildMetadata(rows [][]string) report.Metadata {
	meta := make(report.Metadata)
	for _, raw := range rows {
		r := NormalizeRow(raw)
		if len(r) < 2 {
			continue
		}
		if r[0] == "" || strings.EqualFold(r[0], parametersKey) {
			continue
		}
		key := whitespaceRun.ReplaceAllString(r[0], " ")
		meta[key] = r[1]
	}

	exported := strings.TrimSpace(meta[report.MetaExported])
	if exported == "" {
		return meta
	}
	meta[report.MetaExportedRaw] = exported
	if ts, ok := ParseExported(exported); ok {
		meta[report.MetaExportedISO] = FormatISO(ts)
	}
	return meta
}

// ParseExported parses the dealer export stamp, for example
// "Dec 22 2025  5:17:17:583PM". The result carries no zone information and is
// returned as a UTC wall clock. Anything that does not match, or names an
// impossible date, reports false.
func ParseExported(raw string) (time.Time, bool) {
	m := exportedPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return time.Time{}, false
	}

	mon, err := time.Parse("Jan", strings.ToUpper(m[1][:1])+strings.ToLower(m[1][1:]))
	if err != nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	sec, _ := strconv.Atoi(m[6])
	milli, _ := strconv.Atoi(m[7])

	if hour < 1 || hour > 12 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}
	hour %= 12
	if strings.EqualFold(m[8], "PM") {
		hour += 12
	}

	ts := time.Date(year, mon.Month(), day, hour, minute, sec, milli*int(time.Millisecond), time.UTC)
	if ts.Day() != day || ts.Month() != mon.Month() {
		return time.Time{}, false
	}
	return ts, true
}

// FormatISO renders a naive timestamp as YYYY-MM-DDTHH:MM:SS, adding a
// six-digit fraction only when there is a sub-second part.
func FormatISO(ts time.Time) string {
	s := ts.Format("2006-01-02T15:04:05")
	if us := ts.Nanosecond() / int(time.Microsecond); us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}
