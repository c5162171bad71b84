package impute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/lfbclean/pkg/frame"
)

// groupedFrame builds a two-column frame: a string key and a float value.
func groupedFrame(t *testing.T, keys []any, vals []any) *frame.Frame {
	t.Helper()
	s := frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "borough_name", Type: frame.KindString, Nullable: true},
		{Name: "first_time", Type: frame.KindFloat, Nullable: true},
	}}
	f := frame.NewFrame(s)
	for i := range keys {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "borough_name", keys[i]))
		require.NoError(t, f.SetCell(i, "first_time", vals[i]))
	}
	return f
}

func TestGroupMean(t *testing.T) {
	f := groupedFrame(t, []any{"A", "A", "B"}, []any{10.0, nil, 20.0})
	out, err := (&GroupMean{Column: "first_time", By: "borough_name"}).Apply(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 10.0, out.Cell(1, "first_time"))
	assert.Equal(t, 20.0, out.Cell(2, "first_time"))
	assert.Nil(t, f.Cell(1, "first_time"), "input must not change")
}

func TestGroupMeanWholeColumn(t *testing.T) {
	f := groupedFrame(t, []any{"A", "B", "C"}, []any{1.0, nil, 3.0})
	out, err := (&GroupMean{Column: "first_time"}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.Cell(1, "first_time"))
}

func TestGroupMeanGaps(t *testing.T) {
	f := groupedFrame(t,
		[]any{"A", "B", "B", nil, nil},
		[]any{1.0, nil, nil, nil, 5.0},
	)
	var notes frame.Notes
	ctx := frame.WithNotes(context.Background(), &notes)

	out, err := (&GroupMean{Column: "first_time", By: "borough_name"}).Apply(ctx, f)
	require.NoError(t, err)

	assert.Nil(t, out.Cell(1, "first_time"))
	assert.Nil(t, out.Cell(2, "first_time"))
	assert.Nil(t, out.Cell(3, "first_time"))
	assert.Equal(t, 5.0, out.Cell(4, "first_time"))

	gaps := notes.Drain()
	require.Len(t, gaps, 2)
	assert.Equal(t, frame.Gap{Column: "first_time", Group: "B", Rows: 2, Reason: frame.ReasonEmptyGroup}, gaps[0])
	assert.Equal(t, frame.Gap{Column: "first_time", Rows: 1, Reason: frame.ReasonMissingKey}, gaps[1])
}

func TestGroupMeanRound(t *testing.T) {
	f := groupedFrame(t,
		[]any{"A", "A", "A", "B", "B", "C"},
		[]any{2.0, 3.0, nil, 1.0, nil, nil},
	)
	out, err := (&GroupMean{Column: "first_time", By: "borough_name", Round: true}).Apply(context.Background(), f)
	require.NoError(t, err)

	c, err := out.String("first_time")
	require.NoError(t, err)
	got := make([]any, c.Len())
	for i := range got {
		got[i] = out.Cell(i, "first_time")
	}
	// 2.5 rounds half to even.
	assert.Equal(t, []any{"2", "3", "2", "1", "1", nil}, got)
}

func TestGroupMode(t *testing.T) {
	s := frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "ward_name", Type: frame.KindString, Nullable: true},
		{Name: "first_station", Type: frame.KindString, Nullable: true},
	}}
	f := frame.NewFrame(s)
	rows := [][2]any{
		{"W1", "Paddington"},
		{"W1", "Euston"},
		{"W1", "Euston"},
		{"W1", nil},
		{"W2", "Soho"},
		{"W2", "Lambeth"},
		{"W2", nil},
		{"W3", nil},
		{nil, nil},
	}
	for i, r := range rows {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "ward_name", r[0]))
		require.NoError(t, f.SetCell(i, "first_station", r[1]))
	}
	var notes frame.Notes
	ctx := frame.WithNotes(context.Background(), &notes)

	out, err := (&GroupMode{Column: "first_station", By: "ward_name"}).Apply(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, "Euston", out.Cell(3, "first_station"))
	assert.Equal(t, "Lambeth", out.Cell(6, "first_station"), "ties go to the smallest name")
	assert.Nil(t, out.Cell(7, "first_station"))
	assert.Nil(t, out.Cell(8, "first_station"))

	gaps := notes.Drain()
	require.Len(t, gaps, 2)
	assert.Equal(t, "W3", gaps[0].Group)
	assert.Equal(t, frame.ReasonMissingKey, gaps[1].Reason)
}
