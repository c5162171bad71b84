package pgio

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/lfbclean/pkg/frame"
)

// fakeRows serves fixed values through the pgx.Rows interface.
type fakeRows struct {
	names []string
	data  [][]any
	i     int
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.names))
	for i, n := range r.names {
		out[i] = pgconn.FieldDescription{Name: n}
	}
	return out
}
func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.data)
}
func (r *fakeRows) Scan(dest ...any) error { return errors.New("not supported") }
func (r *fakeRows) Values() ([]any, error) { return r.data[r.i-1], nil }
func (r *fakeRows) RawValues() [][]byte     { return nil }
func (r *fakeRows) Conn() *pgx.Conn         { return nil }

type fakeQuerier struct {
	rows  *fakeRows
	query string
	args  []any
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.query, q.args = sql, args
	return q.rows, nil
}

func schema() frame.Schema {
	return frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "borough_name", Type: frame.KindString, Nullable: true},
		{Name: "timestamp_of_call", Type: frame.KindTime, Nullable: true},
		{Name: "first_time", Type: frame.KindFloat, Nullable: true},
		{Name: "pumps_attending", Type: frame.KindFloat, Nullable: true},
	}}
}

func TestLoad(t *testing.T) {
	call := time.Date(2017, time.January, 1, 0, 2, 0, 0, time.UTC)
	q := &fakeQuerier{rows: &fakeRows{
		names: []string{"incident_number", "borough_name", "timestamp_of_call", "first_time", "pumps_attending"},
		data: [][]any{
			{"000008-01012017", "Camden", call, pgtype.Numeric{Int: big.NewInt(52), Exp: -1, Valid: true}, int64(1)},
			{"000010-01012017", nil, call, nil, int32(2)},
		},
	}}

	f, err := Load(context.Background(), q, schema(), "SELECT * FROM incidents WHERE cal_year = $1", 2017)
	require.NoError(t, err)
	assert.Equal(t, []any{2017}, q.args)
	require.Equal(t, 2, f.Rows())
	assert.Equal(t, "Camden", f.Cell(0, "borough_name"))
	assert.Equal(t, call, f.Cell(0, "timestamp_of_call"))
	assert.InDelta(t, 5.2, f.Cell(0, "first_time"), 1e-9)
	assert.Equal(t, 1.0, f.Cell(0, "pumps_attending"))
	assert.Nil(t, f.Cell(1, "borough_name"))
	assert.Nil(t, f.Cell(1, "first_time"))
	assert.Equal(t, 2.0, f.Cell(1, "pumps_attending"))
}

func TestLoadMissingColumn(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{names: []string{"borough_name"}}}
	_, err := Load(context.Background(), q, schema(), "SELECT borough_name FROM incidents")
	assert.True(t, errors.Is(err, frame.ErrMissingColumn))
}

func TestCell(t *testing.T) {
	tests := []struct {
		name string
		kind frame.Kind
		in   any
		want any
	}{
		{"null", frame.KindFloat, nil, nil},
		{"text float", frame.KindFloat, "4.5", 4.5},
		{"int to float", frame.KindFloat, int16(3), int64(3)},
		{"float to string", frame.KindString, 2.0, "2"},
		{"bytes", frame.KindString, []byte("Camden"), "Camden"},
		{"invalid numeric", frame.KindFloat, pgtype.Numeric{}, nil},
		{"bool", frame.KindBool, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Cell(tc.kind, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Cell(frame.KindTime, 12)
	assert.Error(t, err)
	_, err = Cell(frame.KindInt, 2.5)
	assert.Error(t, err)
}
