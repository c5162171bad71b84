package validate

import (
	"context"
	"fmt"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// InSet fails when a present value of Column is not one of Values.
// A missing column is not checked.
type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m}
}

func (t *InSet) Name() string { return "validate_in_" + t.Column }

func (t *InSet) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if !f.Has(t.Column) {
		return f, nil
	}
	sc, err := f.String(t.Column)
	if err != nil {
		return nil, err
	}
	var bad int
	for i := 0; i < sc.Len(); i++ {
		v, ok := sc.Get(i)
		if !ok {
			continue
		}
		if _, ok := t.Values[v]; !ok {
			bad++
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("%w: column %s has %d values outside allowed set", ErrInvalid, t.Column, bad)
	}
	return f, nil
}
