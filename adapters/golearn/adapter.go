// Package golearn converts between frames and github.com/sjwhitworth/golearn
// DenseInstances, the input format of the downstream models.
package golearn

import (
	"errors"
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// ErrMissingValue is returned when a categorical cell is missing; golearn has
// no representation for it.
var ErrMissingValue = errors.New("missing categorical value")

// ToDenseInstances converts a Frame into golearn DenseInstances. Float and int
// columns become float attributes (missing as NaN); every other column becomes
// categorical. class, when set, names the class attribute.
func ToDenseInstances(f *frame.Frame, class string) (*base.DenseInstances, error) {
	cols := f.Schema().Columns
	attrs := make([]base.Attribute, len(cols))
	classIdx := -1
	for i, cs := range cols {
		switch cs.Type {
		case frame.KindFloat, frame.KindInt:
			attrs[i] = base.NewFloatAttribute(cs.Name)
		default:
			ca := new(base.CategoricalAttribute)
			ca.SetName(cs.Name)
			attrs[i] = ca
		}
		if cs.Name == class {
			classIdx = i
		}
	}
	if class != "" && classIdx < 0 {
		return nil, fmt.Errorf("class attribute: %w: %s", frame.ErrMissingColumn, class)
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	for c, cs := range cols {
		col, _ := f.ColumnByName(cs.Name)
		var num *frame.FloatColumn
		if cs.Type == frame.KindFloat || cs.Type == frame.KindInt {
			num, _ = frame.ToFloat(col)
		}
		for r := 0; r < f.Rows(); r++ {
			if num != nil {
				v, ok := num.Get(r)
				if !ok {
					v = math.NaN()
				}
				inst.Set(specs[c], r, base.PackFloatToBytes(v))
				continue
			}
			s, ok := frame.FormatValue(col, r)
			if !ok {
				return nil, &frame.MalformedValueError{Column: cs.Name, Row: r, Err: ErrMissingValue}
			}
			inst.Set(specs[c], r, attrs[c].GetSysValFromString(s))
		}
	}
	if classIdx >= 0 {
		if err := inst.AddClassAttribute(attrs[classIdx]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// FromDenseInstances converts golearn DenseInstances into a Frame.
func FromDenseInstances(inst *base.DenseInstances) (*frame.Frame, error) {
	attrs := inst.AllAttributes()
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := frame.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = frame.KindFloat
		}
		schema.Columns[i] = frame.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := frame.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			if cs.Type == frame.KindFloat {
				if v := base.UnpackBytesToFloat(raw); !math.IsNaN(v) {
					_ = f.SetCell(r, cs.Name, v)
				}
				continue
			}
			_ = f.SetCell(r, cs.Name, specs[c].GetAttribute().GetStringFromSysVal(raw))
		}
	}
	return f, nil
}
