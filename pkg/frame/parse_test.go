package frame

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2018-07-09T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Hour())

	got, err = ParseTime("09/07/2018 21:10")
	require.NoError(t, err)
	assert.Equal(t, time.July, got.Month())
	assert.Equal(t, 21, got.Hour())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind Kind
		in   string
		want any
	}{
		{KindFloat, " 4.5 ", 4.5},
		{KindInt, "7", int64(7)},
		{KindBool, "TRUE", true},
		{KindString, " NOT GEO-CODED", " NOT GEO-CODED"},
		{KindString, "  ", nil},
		{KindFloat, "", nil},
		{KindFloat, "NULL", nil},
		{KindFloat, " NaN ", nil},
		{KindTime, "N/A", nil},
		{KindString, "NA", nil},
		{KindString, "Null Island", "Null Island"},
	}
	for _, tc := range tests {
		got, err := ParseValue(tc.kind, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%v %q", tc.kind, tc.in)
	}
	_, err := ParseValue(KindFloat, "four")
	assert.Error(t, err)
}

func TestSetText(t *testing.T) {
	f := makeFrame(t)
	require.NoError(t, f.SetText(0, "x", "2.5"))
	assert.Equal(t, 2.5, f.Cell(0, "x"))

	err := f.SetText(1, "x", "slow")
	var mv *MalformedValueError
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, "x", mv.Column)
	assert.Equal(t, 1, mv.Row)
	assert.Equal(t, "slow", mv.Value)

	assert.True(t, errors.Is(f.SetText(0, "nope", "1"), ErrMissingColumn))
}

func TestFormatValue(t *testing.T) {
	c := NewFloatColumn("x", 2)
	c.Set(0, 1.5)
	c.SetNull(1)
	s, ok := FormatValue(c, 0)
	assert.True(t, ok)
	assert.Equal(t, "1.5", s)
	_, ok = FormatValue(c, 1)
	assert.False(t, ok)
}

func TestFloatColumnNaNIsMissing(t *testing.T) {
	c := NewFloatColumn("first_time", 2)
	c.Set(0, math.NaN())
	c.Set(1, 4)
	c.Append(math.NaN())

	assert.True(t, c.IsNull(0))
	assert.True(t, c.IsNull(2))
	assert.Equal(t, []float64{4}, c.Values())

	f := NewFrame(Schema{Columns: []ColumnSchema{{Name: "first_time", Type: KindFloat, Nullable: true}}})
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "first_time", math.NaN()))
	assert.Nil(t, f.Cell(0, "first_time"))
}
