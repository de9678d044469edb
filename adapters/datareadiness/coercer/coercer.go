package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"serviceboard/domain/report"
)

var (
	percentPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*%\s*$`)
	numberPattern  = regexp.MustCompile(`^\s*-?\d+(?:\.\d+)?\s*$`)
)

// Coerce classifies one cell string as percent, number or string. It is purely
// syntactic: column context never changes the outcome.
//
//	""       -> ("", string)
//	"87%"    -> (87.0, percent)
//	"42"     -> (42, number)   integer literal
//	"42.0"   -> (42.0, number) decimal literal
//	"Jane"   -> ("Jane", string)
func Coerce(raw string) report.TypedValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return report.StringValue("")
	}

	if m := percentPattern.FindStringSubmatch(s); m != nil {
		if f, ok := parseFinite(m[1]); ok {
			return report.FloatValue(f, report.FieldPercent)
		}
		return report.StringValue(s)
	}

	if numberPattern.MatchString(s) {
		if !strings.Contains(s, ".") {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return report.IntegerValue(n)
			}
		}
		// decimal literal, or an integer too wide for int64
		if f, ok := parseFinite(s); ok {
			return report.FloatValue(f, report.FieldNumber)
		}
	}

	return report.StringValue(s)
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// TypeAnalysis summarizes how the cells of one column coerce.
type TypeAnalysis struct {
	TotalCount   int              `json:"total_count"`
	EmptyCount   int              `json:"empty_count"`
	StringCount  int              `json:"string_count"`
	NumberCount  int              `json:"number_count"`
	PercentCount int              `json:"percent_count"`
	NumericRatio float64          `json:"numeric_ratio"` // share of non-empty cells that are number or percent
	Promoted     report.FieldType `json:"promoted"`      // type of the first non-string cell, else string
}

// AnalyzeTypeDistribution coerces every value in order and reports the type
// counts along with the sticky promotion result for the sequence.
func AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
		Promoted:   report.FieldString,
	}

	for _, raw := range values {
		v := Coerce(raw)
		switch {
		case v.Type == report.FieldString && v.Str == "":
			analysis.EmptyCount++
		case v.Type == report.FieldString:
			analysis.StringCount++
		case v.Type == report.FieldPercent:
			analysis.PercentCount++
		default:
			analysis.NumberCount++
		}
		if analysis.Promoted == report.FieldString && v.Type.IsNumeric() {
			analysis.Promoted = v.Type
		}
	}

	nonEmpty := analysis.TotalCount - analysis.EmptyCount
	if nonEmpty > 0 {
		analysis.NumericRatio = float64(analysis.NumberCount+analysis.PercentCount) / float64(nonEmpty)
	}
	return analysis
}
