package frame

import (
	"strconv"
	"strings"
	"time"
)

// TimeLayouts are tried in order when a timestamp is held as text.
var TimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

// ParseTime parses s with the first matching layout in TimeLayouts.
func ParseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range TimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// NullTokens are the cell texts read as missing, whatever the column kind.
// They match the defaults of the pandas CSV reader the LFB exports are
// usually produced with.
var NullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNullToken reports whether s, ignoring surrounding space, is a NullTokens entry.
func IsNullToken(s string) bool {
	_, ok := NullTokens[strings.TrimSpace(s)]
	return ok
}

// ParseValue converts text to a cell value of kind k. Blank text and
// NullTokens are missing and yield nil. String values are returned untrimmed.
func ParseValue(k Kind, s string) (any, error) {
	if IsNullToken(s) {
		return nil, nil
	}
	v := strings.TrimSpace(s)
	switch k {
	case KindFloat:
		return strconv.ParseFloat(v, 64)
	case KindInt:
		return strconv.ParseInt(v, 10, 64)
	case KindBool:
		return strconv.ParseBool(strings.ToLower(v))
	case KindTime:
		return ParseTime(v)
	default:
		return s, nil
	}
}

// SetText parses raw according to the kind of column name and stores it at row.
// Text that does not parse is reported as a MalformedValueError.
func (f *Frame) SetText(row int, name, raw string) error {
	c, err := f.Column(name)
	if err != nil {
		return err
	}
	v, err := ParseValue(c.Kind(), raw)
	if err != nil {
		return &MalformedValueError{Column: name, Row: row, Value: raw, Err: err}
	}
	return f.SetCell(row, name, v)
}

// FormatValue renders the cell at row of c as text; ok is false when missing.
func FormatValue(c Column, row int) (s string, ok bool) {
	if c.IsNull(row) {
		return "", false
	}
	switch col := c.(type) {
	case *FloatColumn:
		v, _ := col.Get(row)
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case *IntColumn:
		v, _ := col.Get(row)
		return strconv.FormatInt(v, 10), true
	case *BoolColumn:
		v, _ := col.Get(row)
		return strconv.FormatBool(v), true
	case *StringColumn:
		v, _ := col.Get(row)
		return v, true
	case *TimeColumn:
		v, _ := col.Get(row)
		return v.Format(time.RFC3339), true
	}
	return "", false
}
