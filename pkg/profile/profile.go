// Package profile summarizes the columns of a frame: counts, missing values,
// numeric ranges and the most frequent categories.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

func (s *NumStats) Mean() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.Count)
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

type StringStats struct {
	Count int
	Nulls int
	Freqs map[string]int
}

type ColumnProfile struct {
	Name string
	Kind frame.Kind
	Num  *NumStats
	Bool *BoolStats
	Str  *StringStats
}

// Collector accumulates column profiles over one or more frames sharing a schema.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
}

func NewCollector(schema frame.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case frame.KindFloat, frame.KindInt:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case frame.KindBool:
			cp.Bool = &BoolStats{}
		default:
			cp.Str = &StringStats{Freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

// ConsumeFrame adds the rows of f. Columns unknown to the collector, or whose
// kind changed, are skipped.
func (c *Collector) ConsumeFrame(f *frame.Frame) {
	for _, cs := range f.Schema().Columns {
		idx, ok := c.index[cs.Name]
		if !ok || c.cols[idx].Kind != cs.Type {
			continue
		}
		cp := &c.cols[idx]
		col, _ := f.ColumnByName(cs.Name)
		switch cs.Type {
		case frame.KindFloat, frame.KindInt:
			num, _ := frame.ToFloat(col)
			for i := 0; i < num.Len(); i++ {
				v, ok := num.Get(i)
				if !ok {
					cp.Num.Nulls++
					continue
				}
				cp.Num.Count++
				cp.Num.Min = math.Min(cp.Num.Min, v)
				cp.Num.Max = math.Max(cp.Num.Max, v)
				cp.Num.Sum += v
			}
		case frame.KindBool:
			bc := col.(*frame.BoolColumn)
			for i := 0; i < bc.Len(); i++ {
				v, ok := bc.Get(i)
				if !ok {
					cp.Bool.Nulls++
					continue
				}
				cp.Bool.Count++
				if v {
					cp.Bool.True++
				} else {
					cp.Bool.False++
				}
			}
		default:
			for i := 0; i < col.Len(); i++ {
				s, ok := frame.FormatValue(col, i)
				if !ok {
					cp.Str.Nulls++
					continue
				}
				cp.Str.Count++
				if c.topK > 0 {
					if tc, isTime := col.(*frame.TimeColumn); isTime {
						// bucket timestamps by day
						t, _ := tc.Get(i)
						s = t.Format(time.DateOnly)
					}
					cp.Str.Freqs[s]++
				}
			}
		}
	}
}

// Columns returns the collected profiles in schema order.
func (c *Collector) Columns() []ColumnProfile { return c.cols }

type kv struct {
	k string
	v int
}

func (c *Collector) top(freqs map[string]int) []kv {
	arr := make([]kv, 0, len(freqs))
	for k, v := range freqs {
		arr = append(arr, kv{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].v != arr[j].v {
			return arr[i].v > arr[j].v
		}
		return arr[i].k < arr[j].k
	})
	if c.topK > 0 && c.topK < len(arr) {
		arr = arr[:c.topK]
	}
	return arr
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, cp := range c.cols {
		fmt.Fprintf(&b, "- %s (%v): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d", cp.Num.Count, cp.Num.Nulls)
			if cp.Num.Count > 0 {
				fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g", cp.Num.Min, cp.Num.Max, cp.Num.Mean())
			}
			b.WriteString("\n")
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		default:
			fmt.Fprintf(&b, "count=%d nulls=%d distinct=%d\n", cp.Str.Count, cp.Str.Nulls, len(cp.Str.Freqs))
			for _, e := range c.top(cp.Str.Freqs) {
				fmt.Fprintf(&b, "    %q: %d\n", e.k, e.v)
			}
		}
	}
	return b.String()
}

type JSONProfile struct {
	Columns []JSONColumn `json:"columns"`
}

type JSONColumn struct {
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Num  *JSONNum   `json:"num,omitempty"`
	Bool *BoolStats `json:"bool,omitempty"`
	Str  *JSONStr   `json:"str,omitempty"`
}

// JSONNum omits the range and mean of an all-missing column, since JSON has no
// infinities or NaN.
type JSONNum struct {
	Count int      `json:"count"`
	Nulls int      `json:"nulls"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Mean  *float64 `json:"mean,omitempty"`
}

type JSONStr struct {
	Count int            `json:"count"`
	Nulls int            `json:"nulls"`
	Top   map[string]int `json:"top,omitempty"`
}

func (c *Collector) ReportJSON() JSONProfile {
	out := JSONProfile{Columns: make([]JSONColumn, 0, len(c.cols))}
	for _, cp := range c.cols {
		jc := JSONColumn{Name: cp.Name, Kind: cp.Kind.String()}
		switch {
		case cp.Num != nil:
			jc.Num = &JSONNum{Count: cp.Num.Count, Nulls: cp.Num.Nulls}
			if cp.Num.Count > 0 {
				lo, hi, mean := cp.Num.Min, cp.Num.Max, cp.Num.Mean()
				jc.Num.Min, jc.Num.Max, jc.Num.Mean = &lo, &hi, &mean
			}
		case cp.Bool != nil:
			jc.Bool = cp.Bool
		default:
			jc.Str = &JSONStr{Count: cp.Str.Count, Nulls: cp.Str.Nulls}
			if top := c.top(cp.Str.Freqs); len(top) > 0 {
				jc.Str.Top = make(map[string]int, len(top))
				for _, e := range top {
					jc.Str.Top[e.k] = e.v
				}
			}
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
