package ioutils

import (
	"fmt"
	"strings"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// HeaderIndex maps each schema column to its position in header. Header names
// are matched after trimming spaces and a leading byte-order mark.
func HeaderIndex(header []string, schema frame.Schema) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	idx := make([]int, len(schema.Columns))
	for i, cs := range schema.Columns {
		p, ok := pos[cs.Name]
		if !ok {
			return nil, fmt.Errorf("header: %w: %s", frame.ErrMissingColumn, cs.Name)
		}
		idx[i] = p
	}
	return idx, nil
}

// AppendRecord appends rec as a new row of f, taking schema column i from
// rec[idx[i]]. Cells past the end of rec are missing; short reports whether
// any were.
func AppendRecord(f *frame.Frame, idx []int, rec []string) (short bool, err error) {
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range f.Schema().Columns {
		if idx[i] >= len(rec) {
			short = true
			continue
		}
		if err := f.SetText(row, cs.Name, strings.ToValidUTF8(rec[idx[i]], "?")); err != nil {
			return short, err
		}
	}
	return short, nil
}
