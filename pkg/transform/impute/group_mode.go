package impute

import (
	"context"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// GroupMode fills missing values of Column with the most frequent value among
// rows sharing the same By key. Ties go to the lexicographically smallest value.
// Keys with no known value, and rows whose key is missing, are left missing and
// recorded as gaps.
type GroupMode struct {
	Column string
	By     string
}

func (t *GroupMode) Name() string { return "impute_mode_" + t.Column }

func (t *GroupMode) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	src, err := f.String(t.Column)
	if err != nil {
		return nil, err
	}
	keys, err := f.String(t.By)
	if err != nil {
		return nil, err
	}
	c := src.Clone().(*frame.StringColumn)

	counts := map[string]map[string]int{}
	for i := 0; i < c.Len(); i++ {
		k, ok := keys.Get(i)
		if !ok {
			continue
		}
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if counts[k] == nil {
			counts[k] = map[string]int{}
		}
		counts[k][v]++
	}
	best := make(map[string]string, len(counts))
	for k, byValue := range counts {
		best[k] = mode(byValue)
	}

	var order []string
	unfilled := map[string]int{}
	missingKey := 0
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			continue
		}
		k, ok := keys.Get(i)
		if !ok {
			missingKey++
			continue
		}
		if v, ok := best[k]; ok {
			c.Set(i, v)
			continue
		}
		if unfilled[k] == 0 {
			order = append(order, k)
		}
		unfilled[k]++
	}
	for _, k := range order {
		frame.RecordGap(ctx, frame.Gap{Column: t.Column, Group: k, Rows: unfilled[k], Reason: frame.ReasonEmptyGroup})
	}
	if missingKey > 0 {
		frame.RecordGap(ctx, frame.Gap{Column: t.Column, Rows: missingKey, Reason: frame.ReasonMissingKey})
	}
	return f.WithColumn(c)
}

func mode(counts map[string]int) string {
	var best string
	bestc := 0
	for v, n := range counts {
		if n > bestc || (n == bestc && v < best) {
			best, bestc = v, n
		}
	}
	return best
}
