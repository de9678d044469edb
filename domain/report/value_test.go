package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		v    TypedValue
		want string
	}{
		{"string", StringValue("Jane"), `"Jane"`},
		{"empty string", StringValue(""), `""`},
		{"integer", IntegerValue(950), `950`},
		{"integral float", FloatValue(42, FieldNumber), `42.0`},
		{"percent", FloatValue(87.5, FieldPercent), `87.5`},
		{"negative", FloatValue(-3.5, FieldPercent), `-3.5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestTypedValue_UnmarshalJSON(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":3,"c":3.0,"d":null}`), &rec))

	assert.Equal(t, StringValue("x"), rec["a"])
	assert.Equal(t, IntegerValue(3), rec["b"])
	assert.Equal(t, FloatValue(3, FieldNumber), rec["c"])
	assert.Equal(t, StringValue(""), rec["d"])

	var v TypedValue
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestNewDocument_NoNulls(t *testing.T) {
	doc := NewDocument(nil, &Dataset{Title: DefaultTitle}, Source{DataSheet: "Sheet1"}, "2025-12-22T17:17:17Z")

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"meta": {},
		"dataset": {"title": "Service Employee Rank", "columns": [], "rows": []},
		"fieldTypes": {},
		"source": {"dataSheet": "Sheet1", "filtersSheet": "", "filename": ""},
		"generatedAt": "2025-12-22T17:17:17Z"
	}`, string(data))
}
