// Package pgio fetches incident rows from a Postgres warehouse.
package pgio

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// Source identifies where a query runs: DSN is the connection string and
// Location, when set, becomes the session search_path.
type Source struct {
	DSN      string `json:"dsn" yaml:"dsn" toml:"dsn"`
	Location string `json:"location" yaml:"location" toml:"location"`
}

// Querier is the subset of *pgxpool.Pool that Load needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a pool for src.
func Connect(ctx context.Context, src Source) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(src.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if src.Location != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = src.Location
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return pool, nil
}

// Fetch runs query against src and materializes the result as a frame of schema.
func Fetch(ctx context.Context, src Source, schema frame.Schema, query string, args ...any) (*frame.Frame, error) {
	pool, err := Connect(ctx, src)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return Load(ctx, pool, schema, query, args...)
}

// Load runs query on q. Result columns are matched to schema by name; extra
// result columns are ignored.
func Load(ctx context.Context, q Querier, schema frame.Schema, query string, args ...any) (*frame.Frame, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	pos := map[string]int{}
	for i, fd := range rows.FieldDescriptions() {
		pos[fd.Name] = i
	}
	idx := make([]int, len(schema.Columns))
	for i, cs := range schema.Columns {
		p, ok := pos[cs.Name]
		if !ok {
			return nil, fmt.Errorf("query result: %w: %s", frame.ErrMissingColumn, cs.Name)
		}
		idx[i] = p
	}

	f := frame.NewFrame(schema)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		f.AppendNullRow()
		row := f.Rows() - 1
		for i, cs := range schema.Columns {
			v, err := Cell(cs.Type, vals[idx[i]])
			if err != nil {
				return nil, &frame.MalformedValueError{Column: cs.Name, Row: row, Value: fmt.Sprint(vals[idx[i]]), Err: err}
			}
			if err := f.SetCell(row, cs.Name, v); err != nil {
				return nil, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// Cell converts a value decoded by pgx into a cell of kind k. NULL gives nil.
func Cell(k frame.Kind, v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case pgtype.Numeric:
		if !t.Valid {
			return nil, nil
		}
		f8, err := t.Float64Value()
		if err != nil {
			return nil, err
		}
		return Cell(k, f8.Float64)
	case []byte:
		return frame.ParseValue(k, string(t))
	case string:
		return frame.ParseValue(k, t)
	}

	switch k {
	case frame.KindString:
		switch t := v.(type) {
		case time.Time:
			return t.Format(time.RFC3339), nil
		case float64:
			return strconv.FormatFloat(t, 'g', -1, 64), nil
		}
		return fmt.Sprint(v), nil
	case frame.KindFloat, frame.KindInt:
		switch t := v.(type) {
		case int16:
			return int64(t), nil
		case int32:
			return int64(t), nil
		case int64:
			return t, nil
		case float32:
			return float64(t), nil
		case float64:
			if k == frame.KindInt && t != float64(int64(t)) {
				return nil, fmt.Errorf("%v is not an integer", t)
			}
			return t, nil
		}
	case frame.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case frame.KindTime:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("cannot read %T as %v", v, k)
}
