package dataset

import (
	"github.com/montanaflynn/stats"

	"serviceboard/domain/report"
)

// ColumnSummary holds descriptive statistics for one numeric column.
type ColumnSummary struct {
	Column string           `json:"column"`
	Type   report.FieldType `json:"type"`
	Count  int              `json:"count"`
	Min    float64          `json:"min"`
	Max    float64          `json:"max"`
	Mean   float64          `json:"mean"`
	Median float64          `json:"median"`
	StdDev float64          `json:"stdDev"`
}

// Summarize computes a summary for every number or percent column, in column
// order. String cells inside a promoted column are ignored. Columns without a
// single numeric cell are left out.
func Summarize(columns []string, rows []report.Record, fieldTypes map[string]report.FieldType) []ColumnSummary {
	out := make([]ColumnSummary, 0)
	for _, col := range columns {
		ft := fieldTypes[col]
		if !ft.IsNumeric() {
			continue
		}

		data := make(stats.Float64Data, 0, len(rows))
		for _, rec := range rows {
			if f, ok := rec[col].Number(); ok {
				data = append(data, f)
			}
		}
		if len(data) == 0 {
			continue
		}

		s, err := summarizeColumn(data)
		if err != nil {
			continue
		}
		s.Column = col
		s.Type = ft
		out = append(out, s)
	}
	return out
}

// SummarizeDataset is Summarize over a built dataset.
func SummarizeDataset(ds *report.Dataset) []ColumnSummary {
	if ds == nil {
		return []ColumnSummary{}
	}
	return Summarize(ds.Columns, ds.Rows, ds.FieldTypes)
}

func summarizeColumn(data stats.Float64Data) (ColumnSummary, error) {
	s := ColumnSummary{Count: data.Len()}

	min, err := stats.Min(data)
	if err != nil {
		return s, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return s, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return s, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return s, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return s, err
	}

	s.Min = min
	s.Max = max
	s.Mean = mean
	s.Median = median
	s.StdDev = stdDev
	return s, nil
}
