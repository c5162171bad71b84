package csvio

import (
	"encoding/csv"
	"io"

	"github.com/wdm0006/lfbclean/pkg/frame"
	iox "github.com/wdm0006/lfbclean/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with headers; a .gz path is compressed.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write writes f as CSV to w. Missing cells are written empty.
func Write(w io.Writer, f *frame.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	names := f.Schema().Names()
	if err := cw.Write(names); err != nil {
		return err
	}
	cols := make([]frame.Column, len(names))
	for i, n := range names {
		cols[i], _ = f.ColumnByName(n)
	}
	row := make([]string, len(names))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c], _ = frame.FormatValue(col, r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
