// Package parquetio reads frames from Parquet files and writes them back.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Read loads the top-level columns of schema from the Parquet file at path.
// The file's columns are matched by name; nested files are not supported.
func Read(path string, schema frame.Schema) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	st, err := file.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(file, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet %s: %w", path, err)
	}
	f, err := readFile(pf, schema)
	if err != nil {
		return nil, fmt.Errorf("parquet %s: %w", path, err)
	}
	return f, nil
}

func readFile(pf *parquet.File, schema frame.Schema) (*frame.Frame, error) {
	leaf := map[string]int{}
	for i, fld := range pf.Schema().Fields() {
		if !fld.Leaf() {
			return nil, fmt.Errorf("column %s is nested", fld.Name())
		}
		leaf[fld.Name()] = i
	}
	idx := make([]int, len(schema.Columns))
	for i, cs := range schema.Columns {
		p, ok := leaf[cs.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", frame.ErrMissingColumn, cs.Name)
		}
		idx[i] = p
	}

	f := frame.NewFrame(schema)
	buf := make([]parquet.Row, 1024)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, r := range buf[:n] {
				if err := appendRow(f, idx, r); err != nil {
					_ = rows.Close()
					return nil, err
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = rows.Close()
				return nil, err
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func appendRow(f *frame.Frame, idx []int, r parquet.Row) error {
	byColumn := make(map[int]parquet.Value, len(r))
	for _, v := range r {
		byColumn[v.Column()] = v
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range f.Schema().Columns {
		v, ok := byColumn[idx[i]]
		if !ok || v.IsNull() {
			continue
		}
		cell, err := cellValue(cs.Type, v)
		if err != nil {
			return &frame.MalformedValueError{Column: cs.Name, Row: row, Value: v.String(), Err: err}
		}
		if err := f.SetCell(row, cs.Name, cell); err != nil {
			return err
		}
	}
	return nil
}

// cellValue converts a physical Parquet value to a cell of kind k. Text is
// parsed like CSV; INT64 timestamps are Unix milliseconds.
func cellValue(k frame.Kind, v parquet.Value) (any, error) {
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return frame.ParseValue(k, string(v.ByteArray()))
	case parquet.Boolean:
		if k == frame.KindBool {
			return v.Boolean(), nil
		}
	case parquet.Int32:
		if k == frame.KindInt || k == frame.KindFloat {
			return int64(v.Int32()), nil
		}
	case parquet.Int64:
		switch k {
		case frame.KindInt, frame.KindFloat:
			return v.Int64(), nil
		case frame.KindTime:
			return time.UnixMilli(v.Int64()).UTC(), nil
		}
	case parquet.Float:
		if k == frame.KindFloat {
			return float64(v.Float()), nil
		}
	case parquet.Double:
		if k == frame.KindFloat {
			return v.Double(), nil
		}
	}
	return nil, fmt.Errorf("cannot read %v as %v", v.Kind(), k)
}
