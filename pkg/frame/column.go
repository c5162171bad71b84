package frame

import (
	"math"
	"time"
)

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// Clone returns a deep copy.
	Clone() Column
	// Take returns a new column holding the rows at idx, in order.
	Take(idx []int) Column
}

// NewColumn allocates an all-null column of the given kind.
func NewColumn(name string, k Kind, n int) (Column, error) {
	var c Column
	switch k {
	case KindBool:
		c = NewBoolColumn(name, n)
	case KindInt:
		c = NewIntColumn(name, n)
	case KindFloat:
		c = NewFloatColumn(name, n)
	case KindString:
		c = NewStringColumn(name, n)
	case KindTime:
		c = NewTimeColumn(name, n)
	default:
		return nil, ErrKindMismatch
	}
	for i := 0; i < n; i++ {
		c.SetNull(i)
	}
	return c, nil
}

func takeNulls(nulls []bool, idx []int) []bool {
	out := make([]bool, len(idx))
	for i, r := range idx {
		out[i] = nulls[r]
	}
	return out
}

func cloneNulls(nulls []bool) []bool { return append([]bool(nil), nulls...) }

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Clone() Column {
	return &BoolColumn{name: c.name, data: append([]bool(nil), c.data...), nulls: cloneNulls(c.nulls)}
}
func (c *BoolColumn) Take(idx []int) Column {
	out := &BoolColumn{name: c.name, data: make([]bool, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for i, r := range idx {
		out.data[i] = c.data[r]
	}
	return out
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Clone() Column {
	return &IntColumn{name: c.name, data: append([]int64(nil), c.data...), nulls: cloneNulls(c.nulls)}
}
func (c *IntColumn) Take(idx []int) Column {
	out := &IntColumn{name: c.name, data: make([]int64, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for i, r := range idx {
		out.data[i] = c.data[r]
	}
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }

// Set stores v at row i. NaN is stored as missing.
func (c *FloatColumn) Set(i int, v float64) {
	if math.IsNaN(v) {
		c.data[i], c.nulls[i] = 0, true
		return
	}
	c.data[i] = v
	c.nulls[i] = false
}

// Append adds v as a new row. NaN is appended as missing.
func (c *FloatColumn) Append(v float64) {
	if math.IsNaN(v) {
		c.AppendNull()
		return
	}
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *FloatColumn) Clone() Column {
	return &FloatColumn{name: c.name, data: append([]float64(nil), c.data...), nulls: cloneNulls(c.nulls)}
}
func (c *FloatColumn) Take(idx []int) Column {
	out := &FloatColumn{name: c.name, data: make([]float64, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for i, r := range idx {
		out.data[i] = c.data[r]
	}
	return out
}

// Values returns the non-null values in row order.
func (c *FloatColumn) Values() []float64 {
	out := make([]float64, 0, len(c.data))
	for i, v := range c.data {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Clone() Column {
	return &StringColumn{name: c.name, data: append([]string(nil), c.data...), nulls: cloneNulls(c.nulls)}
}
func (c *StringColumn) Take(idx []int) Column {
	out := &StringColumn{name: c.name, data: make([]string, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for i, r := range idx {
		out.data[i] = c.data[r]
	}
	return out
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: make([]bool, n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) Clone() Column {
	return &TimeColumn{name: c.name, data: append([]time.Time(nil), c.data...), nulls: cloneNulls(c.nulls)}
}
func (c *TimeColumn) Take(idx []int) Column {
	out := &TimeColumn{name: c.name, data: make([]time.Time, len(idx)), nulls: takeNulls(c.nulls, idx)}
	for i, r := range idx {
		out.data[i] = c.data[r]
	}
	return out
}

// ToFloat returns c as a float column, converting integer columns.
func ToFloat(c Column) (*FloatColumn, error) {
	switch col := c.(type) {
	case *FloatColumn:
		return col, nil
	case *IntColumn:
		out := NewFloatColumn(col.name, col.Len())
		for i := range col.data {
			if col.nulls[i] {
				out.SetNull(i)
				continue
			}
			out.Set(i, float64(col.data[i]))
		}
		return out, nil
	default:
		return nil, kindError(c.Name(), KindFloat, c.Kind())
	}
}
