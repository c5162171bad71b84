// Package jsonlio writes frames as newline-delimited JSON objects.
package jsonlio

import (
	"encoding/json"
	"io"

	"github.com/wdm0006/lfbclean/pkg/frame"
	iox "github.com/wdm0006/lfbclean/pkg/io/ioutils"
)

// WriteAll writes one object per row to path; a .gz path is compressed.
func WriteAll(path string, f *frame.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write encodes each row of f as a JSON object. Missing cells are omitted.
func Write(w io.Writer, f *frame.Frame) error {
	enc := json.NewEncoder(w)
	names := f.Schema().Names()
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, len(names))
		for _, n := range names {
			if v := f.Cell(r, n); v != nil {
				m[n] = v
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
