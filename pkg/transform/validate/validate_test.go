package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/lfbclean/pkg/frame"
)

func ptr(v float64) *float64 { return &v }

func TestRange(t *testing.T) {
	c := frame.NewIntColumn("Emergency", 3)
	c.Set(0, 0)
	c.Set(1, 1)
	c.SetNull(2)
	f, err := frame.FromColumns(c)
	require.NoError(t, err)

	r := &Range{Column: "Emergency", Min: ptr(0), Max: ptr(1)}
	_, err = r.Apply(context.Background(), f)
	assert.NoError(t, err)

	c.Set(2, 2)
	_, err = r.Apply(context.Background(), f)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = (&Range{Column: "absent", Max: ptr(0)}).Apply(context.Background(), f)
	assert.NoError(t, err)
}

func TestInSet(t *testing.T) {
	c := frame.NewStringColumn("ward_rank", 2)
	c.Set(0, "-1")
	c.Set(1, "9")
	f, err := frame.FromColumns(c)
	require.NoError(t, err)

	v := NewInSet("ward_rank", []string{"-1", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"})
	_, err = v.Apply(context.Background(), f)
	assert.NoError(t, err)

	c.Set(1, "10")
	_, err = v.Apply(context.Background(), f)
	assert.ErrorContains(t, err, "ward_rank")
}
