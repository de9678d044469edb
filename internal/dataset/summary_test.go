package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviceboard/domain/report"
)

func TestSummarize(t *testing.T) {
	ds, err := BuildDataset([][]string{
		{"Employee", "Rank", "Score", "CSI"},
		{"Jane", "1", "950", "90%"},
		{"John", "2", "n/a", "80%"},
		{"Ann", "3", "850", "70%"},
	})
	require.NoError(t, err)

	got := SummarizeDataset(ds)
	require.Len(t, got, 3)

	assert.Equal(t, "Rank", got[0].Column)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, 2.0, got[0].Median)

	score := got[1]
	assert.Equal(t, "Score", score.Column)
	assert.Equal(t, report.FieldNumber, score.Type)
	assert.Equal(t, 2, score.Count, "string cells are skipped")
	assert.Equal(t, 850.0, score.Min)
	assert.Equal(t, 950.0, score.Max)
	assert.InDelta(t, 900.0, score.Mean, 1e-9)

	csi := got[2]
	assert.Equal(t, report.FieldPercent, csi.Type)
	assert.InDelta(t, 80.0, csi.Mean, 1e-9)
}

func TestSummarizeDataset_Nil(t *testing.T) {
	assert.Empty(t, SummarizeDataset(nil))
}
