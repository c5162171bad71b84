// Package validate checks invariants of a frame without changing it.
package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// ErrInvalid is wrapped by every check failure.
var ErrInvalid = errors.New("validation failed")

// Range fails when a present value of Column falls outside [Min, Max].
// A missing column is not checked.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range_" + t.Column }

func (t *Range) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if !f.Has(t.Column) {
		return f, nil
	}
	c, err := f.Float(t.Column)
	if err != nil {
		return nil, err
	}
	var bad int
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			bad++
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("%w: column %s has %d out-of-range values", ErrInvalid, t.Column, bad)
	}
	return f, nil
}
