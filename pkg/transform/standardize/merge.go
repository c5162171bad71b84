package standardize

import (
	"context"
	"fmt"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Group collapses every value in Sources into Target.
type Group struct {
	Target  string
	Sources []string
}

// Merge replaces category values according to a set of disjoint groups.
// Values outside every group, and nulls, are left as they are.
type Merge struct {
	Column string
	Map    map[string]string
}

// NewMerge builds a Merge, rejecting overlapping sources and any target that is
// also a source, so that applying the merge twice equals applying it once.
func NewMerge(column string, groups ...Group) (*Merge, error) {
	m := make(map[string]string)
	for _, g := range groups {
		for _, s := range g.Sources {
			if prev, ok := m[s]; ok && prev != g.Target {
				return nil, fmt.Errorf("merge %s: %q mapped to both %q and %q", column, s, prev, g.Target)
			}
			m[s] = g.Target
		}
	}
	for _, g := range groups {
		if _, ok := m[g.Target]; ok {
			return nil, fmt.Errorf("merge %s: target %q is also a source", column, g.Target)
		}
	}
	return &Merge{Column: column, Map: m}, nil
}

func (t *Merge) Name() string { return "merge_" + t.Column }

func (t *Merge) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	src, err := f.String(t.Column)
	if err != nil {
		return nil, err
	}
	c := src.Clone().(*frame.StringColumn)
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if nv, hit := t.Map[v]; hit {
			c.Set(i, nv)
		}
	}
	return f.WithColumn(c)
}
