// Package filter removes rows from a frame.
package filter

import (
	"context"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// DropNull removes every row whose Column is missing.
type DropNull struct{ Column string }

func (t *DropNull) Name() string { return "dropnull_" + t.Column }

func (t *DropNull) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	c, err := f.Column(t.Column)
	if err != nil {
		return nil, err
	}
	return f.Filter(func(r int) bool { return !c.IsNull(r) }), nil
}
