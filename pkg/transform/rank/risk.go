// Package rank encodes categories by the historical rate of an indicator.
package rank

import (
	"context"
	"math"
	"strconv"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// NoEvents is the rank reserved for groups whose indicator never fired.
const NoEvents = -1

// Bucket maps an indicator sum over n rows to a risk rank: the rate as a
// percentage, in buckets of ten, capped at 9; NoEvents when sum is zero.
func Bucket(sum float64, n int) int {
	if sum == 0 || n == 0 {
		return NoEvents
	}
	pct := sum * 100 / float64(n)
	b := int(math.Floor(pct / 10))
	if b > 9 {
		b = 9
	}
	if b < 0 {
		b = 0
	}
	return b
}

// Risk groups rows by By, averages the 0/1 Indicator per group and writes the
// bucketed rank back onto every row of the group as a string category in Out.
// Every input row is kept; rows with a missing key get a missing rank.
type Risk struct {
	By        string
	Indicator string
	Out       string
}

func (t *Risk) Name() string { return "rank_" + t.By }

type rateAcc struct {
	sum float64
	n   int
}

// Summary returns the rank of every key in f.
func (t *Risk) Summary(f *frame.Frame) (map[string]int, error) {
	keys, err := f.String(t.By)
	if err != nil {
		return nil, err
	}
	ind, err := f.Float(t.Indicator)
	if err != nil {
		return nil, err
	}
	acc := map[string]*rateAcc{}
	for i := 0; i < keys.Len(); i++ {
		k, ok := keys.Get(i)
		if !ok {
			continue
		}
		a := acc[k]
		if a == nil {
			a = &rateAcc{}
			acc[k] = a
		}
		a.n++
		if v, ok := ind.Get(i); ok {
			a.sum += v
		}
	}
	out := make(map[string]int, len(acc))
	for k, a := range acc {
		out[k] = Bucket(a.sum, a.n)
	}
	return out, nil
}

func (t *Risk) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	ranks, err := t.Summary(f)
	if err != nil {
		return nil, err
	}
	keys, _ := f.String(t.By)
	out := frame.NewStringColumn(t.Out, keys.Len())
	missing := 0
	for i := 0; i < keys.Len(); i++ {
		k, ok := keys.Get(i)
		if !ok {
			out.SetNull(i)
			missing++
			continue
		}
		out.Set(i, strconv.Itoa(ranks[k]))
	}
	if missing > 0 {
		frame.RecordGap(ctx, frame.Gap{Column: t.Out, Rows: missing, Reason: frame.ReasonMissingKey})
	}
	return f.WithColumn(out)
}
