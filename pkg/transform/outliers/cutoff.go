package outliers

import (
	"context"
	"math"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Bound computes an exclusive upper cutoff from the non-missing values of a column.
type Bound interface {
	Cutoff(vals []float64) float64
}

// Fixed is a literal cutoff.
type Fixed float64

func (b Fixed) Cutoff([]float64) float64 { return float64(b) }

// MeanStd places the cutoff K population standard deviations above the mean.
type MeanStd struct{ K float64 }

func (b MeanStd) Cutoff(vals []float64) float64 {
	mean, std := MeanAndStd(vals)
	return mean + b.K*std
}

// MeanAndStd returns the mean and population standard deviation of vals.
func MeanAndStd(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(vals)))
}

// Cutoff drops rows whose Column is present and >= the bound's cutoff. The
// cutoff is computed once over the whole input. Missing values are kept.
type Cutoff struct {
	Column string
	Bound  Bound
}

func (t *Cutoff) Name() string { return "cutoff_" + t.Column }

func (t *Cutoff) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	c, err := f.Float(t.Column)
	if err != nil {
		return nil, err
	}
	vals := c.Values()
	if len(vals) == 0 {
		return f.Clone(), nil
	}
	limit := t.Bound.Cutoff(vals)
	return f.Filter(func(r int) bool {
		v, ok := c.Get(r)
		return !ok || v < limit
	}), nil
}
