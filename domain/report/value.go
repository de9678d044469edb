package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the dominant type recorded for a dataset column.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldPercent FieldType = "percent"
)

// IsNumeric reports whether the type carries a numeric magnitude.
func (t FieldType) IsNumeric() bool {
	return t == FieldNumber || t == FieldPercent
}

// ValueKind selects which payload of a TypedValue is live.
type ValueKind uint8

const (
	KindString ValueKind = iota
	KindInteger
	KindFloat
)

// TypedValue is a coerced cell: a string, an integer or a float, tagged with
// the field type the coercer assigned it. Percent cells hold the magnitude
// before the % sign ("87%" is 87.0, not 0.87).
type TypedValue struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Type  FieldType
}

// StringValue builds a string-typed value.
func StringValue(s string) TypedValue {
	return TypedValue{Kind: KindString, Str: s, Type: FieldString}
}

// IntegerValue builds a number-typed integer value.
func IntegerValue(n int64) TypedValue {
	return TypedValue{Kind: KindInteger, Int: n, Type: FieldNumber}
}

// FloatValue builds a float value of the given numeric type.
func FloatValue(f float64, t FieldType) TypedValue {
	return TypedValue{Kind: KindFloat, Float: f, Type: t}
}

// IsString reports whether the value holds text.
func (v TypedValue) IsString() bool {
	return v.Kind == KindString
}

// Number returns the numeric magnitude, or false for strings.
func (v TypedValue) Number() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

func (v TypedValue) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	default:
		return v.Str
	}
}

// MarshalJSON writes strings as JSON strings, integers as integers and floats
// with a fractional part even when integral (87.0), so consumers can tell an
// integer count from a measured magnitude.
func (v TypedValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInteger:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case KindFloat:
		return []byte(formatFloat(v.Float)), nil
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON restores a value written by MarshalJSON. The field type is not
// part of the encoding; numeric values come back as FieldNumber.
func (v *TypedValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty typed value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = StringValue("")
		return nil
	}

	lit := string(data)
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			*v = IntegerValue(n)
			return nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("invalid typed value %s: %w", lit, err)
	}
	*v = FloatValue(f, FieldNumber)
	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
