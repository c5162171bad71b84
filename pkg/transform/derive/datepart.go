package derive

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Part selects a calendar component of a timestamp.
type Part int

const (
	Month Part = iota + 1
	Hour
)

func (p Part) String() string {
	switch p {
	case Month:
		return "month"
	case Hour:
		return "hour"
	default:
		return fmt.Sprintf("part(%d)", int(p))
	}
}

// DatePart writes the month or hour of Column into Out as a string category
// ("1".."12", "0".."23"). The stored wall clock is used as-is. A missing or
// unparsable timestamp fails the transform.
type DatePart struct {
	Column string
	Part   Part
	Out    string
}

func (t *DatePart) Name() string { return "date_" + t.Part.String() }

func (t *DatePart) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	c, err := f.Column(t.Column)
	if err != nil {
		return nil, err
	}
	out := frame.NewStringColumn(t.Out, c.Len())
	for i := 0; i < c.Len(); i++ {
		ts, err := timeAt(c, i)
		if err != nil {
			return nil, err
		}
		switch t.Part {
		case Month:
			out.Set(i, strconv.Itoa(int(ts.Month())))
		case Hour:
			out.Set(i, strconv.Itoa(ts.Hour()))
		default:
			return nil, fmt.Errorf("date part: unsupported %v", t.Part)
		}
	}
	return f.WithColumn(out)
}

func timeAt(c frame.Column, i int) (time.Time, error) {
	switch col := c.(type) {
	case *frame.TimeColumn:
		v, ok := col.Get(i)
		if !ok {
			return time.Time{}, &frame.MalformedValueError{Column: c.Name(), Row: i}
		}
		return v, nil
	case *frame.StringColumn:
		s, ok := col.Get(i)
		if !ok {
			return time.Time{}, &frame.MalformedValueError{Column: c.Name(), Row: i}
		}
		v, err := frame.ParseTime(s)
		if err != nil {
			return time.Time{}, &frame.MalformedValueError{Column: c.Name(), Row: i, Value: s, Err: err}
		}
		return v, nil
	default:
		return time.Time{}, fmt.Errorf("%w: column %s is %v, want time", frame.ErrKindMismatch, c.Name(), c.Kind())
	}
}
