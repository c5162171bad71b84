package frame

import (
	"fmt"
	"math"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Lookup returns the schema entry for name.
func (s Schema) Lookup(name string) (ColumnSchema, bool) {
	for _, cs := range s.Columns {
		if cs.Name == name {
			return cs, true
		}
	}
	return ColumnSchema{}, false
}

// Frame is a columnar container for tabular data. Transforms treat a Frame as
// immutable and derive new frames through Clone, Filter, Drop and WithColumn.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			panic("invalid column kind")
		}
		f.cols[i] = c
		f.index[cs.Name] = i
	}
	return f
}

// FromColumns builds a frame from equal-length columns.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column: %s", c.Name())
		}
		if i == 0 {
			f.nrows = c.Len()
		} else if c.Len() != f.nrows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name(), c.Len(), f.nrows)
		}
		f.index[c.Name()] = i
		f.cols = append(f.cols, c)
		f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true})
	}
	return f, nil
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Column returns the named column or an ErrMissingColumn error.
func (f *Frame) Column(name string) (Column, error) {
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, missingColumn(name)
	}
	return c, nil
}

func (f *Frame) String(name string) (*StringColumn, error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	sc, ok := c.(*StringColumn)
	if !ok {
		return nil, kindError(name, KindString, c.Kind())
	}
	return sc, nil
}

func (f *Frame) Int(name string) (*IntColumn, error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	ic, ok := c.(*IntColumn)
	if !ok {
		return nil, kindError(name, KindInt, c.Kind())
	}
	return ic, nil
}

// Float returns the named column as floats; integer columns are converted.
func (f *Frame) Float(name string) (*FloatColumn, error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	return ToFloat(c)
}

// Require returns an ErrMissingColumn error naming the first absent column.
func (f *Frame) Require(names ...string) error {
	for _, n := range names {
		if !f.Has(n) {
			return missingColumn(n)
		}
	}
	return nil
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)},
		cols:   make([]Column, len(f.cols)),
		index:  make(map[string]int, len(f.index)),
		nrows:  f.nrows,
	}
	for i, c := range f.cols {
		out.cols[i] = c.Clone()
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	return out
}

// Filter returns a new frame holding the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	idx := make([]int, 0, f.nrows)
	for r := 0; r < f.nrows; r++ {
		if keep(r) {
			idx = append(idx, r)
		}
	}
	out := &Frame{
		schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)},
		cols:   make([]Column, len(f.cols)),
		index:  make(map[string]int, len(f.index)),
		nrows:  len(idx),
	}
	for i, c := range f.cols {
		out.cols[i] = c.Take(idx)
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	return out
}

// Drop returns a new frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := &Frame{index: make(map[string]int), nrows: f.nrows}
	for i, cs := range f.schema.Columns {
		if _, ok := drop[cs.Name]; ok {
			continue
		}
		out.index[cs.Name] = len(out.cols)
		out.cols = append(out.cols, f.cols[i].Clone())
		out.schema.Columns = append(out.schema.Columns, cs)
	}
	return out
}

// WithColumn returns a copy of f with c appended, or replacing the column of the
// same name in place (keeping its position).
func (f *Frame) WithColumn(c Column) (*Frame, error) {
	if c.Len() != f.nrows {
		return nil, fmt.Errorf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.nrows)
	}
	out := f.Clone()
	cs := ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true}
	if i, ok := out.index[c.Name()]; ok {
		out.cols[i] = c
		out.schema.Columns[i] = cs
		return out, nil
	}
	out.index[c.Name()] = len(out.cols)
	out.cols = append(out.cols, c)
	out.schema.Columns = append(out.schema.Columns, cs)
	return out, nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist). A nil value sets null.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return missingColumn(name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int32:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			if math.IsNaN(t) {
				col.SetNull(row)
				break
			}
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int32:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}

// Cell returns the value at (row, name) or nil when null.
func (f *Frame) Cell(row int, name string) any {
	c, ok := f.ColumnByName(name)
	if !ok || c.IsNull(row) {
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		v, _ := col.Get(row)
		return v
	case *IntColumn:
		v, _ := col.Get(row)
		return v
	case *FloatColumn:
		v, _ := col.Get(row)
		return v
	case *StringColumn:
		v, _ := col.Get(row)
		return v
	case *TimeColumn:
		v, _ := col.Get(row)
		return v
	}
	return nil
}
