package frame

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFrame(t *testing.T) *Frame {
	t.Helper()
	s := Schema{Columns: []ColumnSchema{
		{Name: "x", Type: KindFloat, Nullable: true},
		{Name: "s", Type: KindString, Nullable: true},
	}}
	f := NewFrame(s)
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
	}
	require.NoError(t, f.SetCell(0, "x", 1.0))
	require.NoError(t, f.SetCell(2, "x", 3))
	require.NoError(t, f.SetCell(0, "s", "a"))
	require.NoError(t, f.SetCell(1, "s", "b"))
	return f
}

func TestCloneIsIndependent(t *testing.T) {
	f := makeFrame(t)
	g := f.Clone()
	require.NoError(t, g.SetCell(0, "s", "changed"))

	assert.Equal(t, "a", f.Cell(0, "s"))
	assert.Equal(t, "changed", g.Cell(0, "s"))
}

func TestFilter(t *testing.T) {
	f := makeFrame(t)
	out := f.Filter(func(r int) bool { return r != 1 })

	assert.Equal(t, 3, f.Rows())
	require.Equal(t, 2, out.Rows())
	assert.Equal(t, 1.0, out.Cell(0, "x"))
	assert.Equal(t, 3.0, out.Cell(1, "x"))
	assert.Nil(t, out.Cell(1, "s"))
}

func TestDropAndWithColumn(t *testing.T) {
	f := makeFrame(t)

	dropped := f.Drop("x", "nope")
	assert.Equal(t, []string{"s"}, dropped.Schema().Names())
	assert.True(t, f.Has("x"))

	flag := NewIntColumn("flag", 3)
	added, err := f.WithColumn(flag)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "s", "flag"}, added.Schema().Names())
	assert.False(t, f.Has("flag"))

	repl := NewStringColumn("x", 3)
	replaced, err := f.WithColumn(repl)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "s"}, replaced.Schema().Names())
	assert.Equal(t, KindString, replaced.Schema().Columns[0].Type)

	_, err = f.WithColumn(NewIntColumn("short", 1))
	assert.Error(t, err)
}

func TestTypedLookups(t *testing.T) {
	f := makeFrame(t)

	_, err := f.String("missing")
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, err = f.String("x")
	assert.True(t, errors.Is(err, ErrKindMismatch))

	ints := NewIntColumn("n", 3)
	ints.Set(0, 4)
	ints.SetNull(1)
	g, err := f.WithColumn(ints)
	require.NoError(t, err)
	fc, err := g.Float("n")
	require.NoError(t, err)
	v, ok := fc.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)
	assert.True(t, fc.IsNull(1))

	assert.True(t, errors.Is(f.Require("x", "y"), ErrMissingColumn))
	assert.NoError(t, f.Require("x", "s"))
}

func TestFromColumns(t *testing.T) {
	a := NewStringColumn("a", 2)
	b := NewFloatColumn("b", 2)
	f, err := FromColumns(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Rows())

	_, err = FromColumns(a, NewFloatColumn("c", 1))
	assert.Error(t, err)
	_, err = FromColumns(a, a)
	assert.Error(t, err)
}

func TestMalformedValueError(t *testing.T) {
	err := error(&MalformedValueError{Column: "ts", Row: 4, Value: "nope"})
	assert.True(t, errors.Is(err, ErrMalformedValue))

	var mv *MalformedValueError
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, 4, mv.Row)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRecordGap(t *testing.T) {
	var n Notes
	ctx := WithNotes(context.Background(), &n)
	RecordGap(ctx, Gap{Column: "x", Group: "A", Rows: 2, Reason: ReasonEmptyGroup})
	RecordGap(context.Background(), Gap{Column: "ignored"})

	gaps := n.Drain()
	require.Len(t, gaps, 1)
	assert.Equal(t, "A", gaps[0].Group)
	assert.Empty(t, n.Drain())
}
