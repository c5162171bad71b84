package impute

import (
	"context"
	"math"
	"strconv"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// GroupMean fills missing values of Column with the mean of the non-missing
// values sharing the same By key. An empty By uses the whole column as one group.
//
// Groups without any value, and rows whose key is missing, stay missing and are
// recorded as gaps. With Round set the whole column is rounded half-to-even and
// replaced by a string column of integers.
type GroupMean struct {
	Column string
	By     string
	Round  bool
}

func (t *GroupMean) Name() string { return "impute_mean_" + t.Column }

type meanAcc struct {
	sum     float64
	n       int
	missing int
}

func (t *GroupMean) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	src, err := f.Float(t.Column)
	if err != nil {
		return nil, err
	}
	c := src.Clone().(*frame.FloatColumn)
	key := func(int) (string, bool) { return "", true }
	if t.By != "" {
		keys, err := f.String(t.By)
		if err != nil {
			return nil, err
		}
		key = keys.Get
	}

	groups := map[string]*meanAcc{}
	var order []string
	missingKey := 0
	for i := 0; i < c.Len(); i++ {
		k, ok := key(i)
		if !ok {
			if c.IsNull(i) {
				missingKey++
			}
			continue
		}
		acc, seen := groups[k]
		if !seen {
			acc = &meanAcc{}
			groups[k] = acc
			order = append(order, k)
		}
		if v, ok := c.Get(i); ok {
			acc.sum += v
			acc.n++
		} else {
			acc.missing++
		}
	}

	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			continue
		}
		k, ok := key(i)
		if !ok {
			continue
		}
		if acc := groups[k]; acc.n > 0 {
			c.Set(i, acc.sum/float64(acc.n))
		}
	}

	for _, k := range order {
		if acc := groups[k]; acc.n == 0 && acc.missing > 0 {
			frame.RecordGap(ctx, frame.Gap{Column: t.Column, Group: k, Rows: acc.missing, Reason: frame.ReasonEmptyGroup})
		}
	}
	if missingKey > 0 {
		frame.RecordGap(ctx, frame.Gap{Column: t.Column, Rows: missingKey, Reason: frame.ReasonMissingKey})
	}

	if !t.Round {
		return f.WithColumn(c)
	}
	return f.WithColumn(roundToCategory(c))
}

func roundToCategory(c *frame.FloatColumn) *frame.StringColumn {
	out := frame.NewStringColumn(c.Name(), c.Len())
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			out.SetNull(i)
			continue
		}
		out.Set(i, strconv.FormatInt(int64(math.RoundToEven(v)), 10))
	}
	return out
}
