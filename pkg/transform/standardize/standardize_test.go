package standardize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/lfbclean/pkg/frame"
)

func stringFrame(t *testing.T, name string, vals ...any) *frame.Frame {
	t.Helper()
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: name, Type: frame.KindString, Nullable: true}}})
	for i, v := range vals {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, name, v))
	}
	return f
}

func values(t *testing.T, f *frame.Frame, name string) []any {
	t.Helper()
	out := make([]any, f.Rows())
	for i := range out {
		out[i] = f.Cell(i, name)
	}
	return out
}

func propertyMerge(t *testing.T) *Merge {
	t.Helper()
	m, err := NewMerge("property_category",
		Group{Target: "Residential", Sources: []string{"Dwelling", "Other Residential"}},
		Group{Target: "Vehicle", Sources: []string{"Road Vehicle", "Aircraft", "Boat", "Rail Vehicle"}},
		Group{Target: "Outdoor", Sources: []string{"Outdoor Structure"}},
	)
	require.NoError(t, err)
	return m
}

func TestMerge(t *testing.T) {
	f := stringFrame(t, "property_category", "Dwelling", "Road Vehicle", "Outdoor Structure", "Shed", nil)
	m := propertyMerge(t)

	out, err := m.Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{"Residential", "Vehicle", "Outdoor", "Shed", nil}, values(t, out, "property_category"))
	assert.Equal(t, "Dwelling", f.Cell(0, "property_category"), "input must not change")

	again, err := m.Apply(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, values(t, out, "property_category"), values(t, again, "property_category"))
}

func TestNewMergeRejectsOverlap(t *testing.T) {
	_, err := NewMerge("c", Group{Target: "A", Sources: []string{"x"}}, Group{Target: "B", Sources: []string{"x"}})
	assert.Error(t, err)

	_, err = NewMerge("c", Group{Target: "A", Sources: []string{"x"}}, Group{Target: "B", Sources: []string{"A"}})
	assert.Error(t, err)
}

func TestMergeMissingColumn(t *testing.T) {
	f := stringFrame(t, "other", "x")
	_, err := propertyMerge(t).Apply(context.Background(), f)
	assert.True(t, errors.Is(err, frame.ErrMissingColumn))
}

func TestNullIf(t *testing.T) {
	f := stringFrame(t, "borough_name", "CAMDEN", " NOT GEO-CODED", nil, "NOT GEO-CODED")
	out, err := (&NullIf{Column: "borough_name", Values: []string{" NOT GEO-CODED"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{"CAMDEN", nil, nil, "NOT GEO-CODED"}, values(t, out, "borough_name"))
}
