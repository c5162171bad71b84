package standardize

import (
	"context"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// NullIf marks sentinel strings as missing.
type NullIf struct {
	Column string
	Values []string
}

func (t *NullIf) Name() string { return "nullif_" + t.Column }

func (t *NullIf) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	src, err := f.String(t.Column)
	if err != nil {
		return nil, err
	}
	sentinel := make(map[string]struct{}, len(t.Values))
	for _, v := range t.Values {
		sentinel[v] = struct{}{}
	}
	c := src.Clone().(*frame.StringColumn)
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if _, hit := sentinel[v]; hit {
			c.SetNull(i)
		}
	}
	return f.WithColumn(c)
}
