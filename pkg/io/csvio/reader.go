// Package csvio reads and writes frames as delimited text with a header row.
package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/wdm0006/lfbclean/pkg/frame"
	iox "github.com/wdm0006/lfbclean/pkg/io/ioutils"
)

type ReaderOptions struct {
	Delimiter rune // 0 = sniff, default ','
	Strict    bool // if true, error on short/long records
}

type Reader struct {
	r   *csv.Reader
	opt ReaderOptions
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
// With no delimiter set it is sniffed from the first 4KiB.
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(r)
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	rr.ReuseRecord = true
	return &Reader{r: rr, opt: opt}
}

// Read loads the file at path (or stdin for "-") into a frame of the given
// schema. Columns are matched to the header by name; extra columns are ignored.
// warnings summarizes short or long records that were accepted, as Warnings does.
func Read(path string, schema frame.Schema, opt ReaderOptions) (f *frame.Frame, warnings string, err error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = rc.Close() }()
	r := NewReaderFrom(rc, opt)
	f, err = r.ReadAll(schema)
	if err != nil {
		return nil, "", fmt.Errorf("csv %s: %w", path, err)
	}
	return f, r.Warnings(), nil
}

// ReadAll reads the header and every remaining record. Blank cells are
// missing; a cell that does not parse as its column kind fails the read.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	hdr, err := r.r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, err
	}
	idx, err := iox.HeaderIndex(hdr, schema)
	if err != nil {
		return nil, err
	}
	width := len(hdr)
	f := frame.NewFrame(schema)
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > width {
			r.longRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv long record at row %d: need %d fields, got %d", f.Rows(), width, len(rec))
			}
		}
		if len(rec) < width {
			r.shortRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv short record at row %d: need %d fields, got %d", f.Rows(), width, len(rec))
			}
		}
		if _, err := iox.AppendRecord(f, idx, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	// an odd quote count in the header line hints at stray quotes
	quotes := strings.Count(string(sample), `"`)
	return rune(best), quotes%2 != 0
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
