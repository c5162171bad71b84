// Package derive adds feature columns computed row by row from existing ones.
package derive

import (
	"context"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Flag collapses the Collapse values of Column into Label and writes an
// integer indicator Out that is 1 exactly when the collapsed value equals Label.
// Missing values give 0.
type Flag struct {
	Column   string
	Collapse []string
	Label    string
	Out      string
}

func (t *Flag) Name() string { return "flag_" + t.Out }

func (t *Flag) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	src, err := f.String(t.Column)
	if err != nil {
		return nil, err
	}
	collapse := make(map[string]struct{}, len(t.Collapse))
	for _, v := range t.Collapse {
		collapse[v] = struct{}{}
	}
	labels := src.Clone().(*frame.StringColumn)
	flag := frame.NewIntColumn(t.Out, labels.Len())
	for i := 0; i < labels.Len(); i++ {
		v, ok := labels.Get(i)
		if !ok {
			flag.Set(i, 0)
			continue
		}
		if _, hit := collapse[v]; hit {
			v = t.Label
			labels.Set(i, v)
		}
		if v == t.Label {
			flag.Set(i, 1)
		} else {
			flag.Set(i, 0)
		}
	}
	out, err := f.WithColumn(labels)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(flag)
}
