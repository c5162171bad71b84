// Package project selects the columns handed to downstream consumers.
package project

import (
	"context"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Drop removes Columns from the frame. Columns that are already absent are skipped.
type Drop struct{ Columns []string }

func (t *Drop) Name() string { return "drop_columns" }

func (t *Drop) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return f.Drop(t.Columns...), nil
}
