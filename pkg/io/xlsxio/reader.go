// Package xlsxio reads frames from Excel workbooks.
package xlsxio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/lfbclean/pkg/frame"
	iox "github.com/wdm0006/lfbclean/pkg/io/ioutils"
)

// Read loads sheet (the first sheet when empty) of the workbook at path. The
// first row is the header; columns are matched to schema by name. Date cells
// are read from their stored serial number, so the display format does not
// matter.
func Read(path, sheet string, schema frame.Schema) (*frame.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, fmt.Errorf("sheet %q: no header row", sheet)
	}
	hdr, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	idx, err := iox.HeaderIndex(hdr, schema)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	f := frame.NewFrame(schema)
	for rows.Next() {
		rec, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		if err := appendRow(f, idx, rec); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
	}
	return f, rows.Error()
}

func appendRow(f *frame.Frame, idx []int, rec []string) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range f.Schema().Columns {
		if idx[i] >= len(rec) {
			continue
		}
		raw := rec[idx[i]]
		if cs.Type == frame.KindTime {
			if serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				t, err := excelize.ExcelDateToTime(serial, false)
				if err != nil {
					return &frame.MalformedValueError{Column: cs.Name, Row: row, Value: raw, Err: err}
				}
				if err := f.SetCell(row, cs.Name, t); err != nil {
					return err
				}
				continue
			}
		}
		if err := f.SetText(row, cs.Name, raw); err != nil {
			return err
		}
	}
	return nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
