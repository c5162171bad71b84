package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/observability"
	"github.com/wdm0006/lfbclean/pkg/pipeline"
	"github.com/wdm0006/lfbclean/pkg/transform/filter"
	"github.com/wdm0006/lfbclean/pkg/transform/impute"
)

func sampleFrame(t *testing.T) *frame.Frame {
	t.Helper()
	s := frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "borough_name", Type: frame.KindString, Nullable: true},
		{Name: "first_time", Type: frame.KindFloat, Nullable: true},
	}}
	f := frame.NewFrame(s)
	rows := [][2]any{{"A", 1.0}, {"A", nil}, {nil, 3.0}, {"B", nil}}
	for i, r := range rows {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "borough_name", r[0]))
		require.NoError(t, f.SetCell(i, "first_time", r[1]))
	}
	return f
}

// tick advances a fake clock on every transform so durations are non-zero.
type tick struct {
	clock *clockwork.FakeClock
	inner frame.Transform
}

func (t tick) Name() string { return t.inner.Name() }
func (t tick) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	t.clock.Advance(time.Second)
	return t.inner.Apply(ctx, f)
}

func TestPipelineRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(pipeline.WithClock(clock), pipeline.WithMetrics(metrics)).
		Add(pipeline.Step{
			Name:      "drop_missing_borough",
			Requires:  []string{"borough_name"},
			Transform: tick{clock, &filter.DropNull{Column: "borough_name"}},
		}).
		Add(pipeline.Step{
			Name:      "impute_first_time",
			Requires:  []string{"first_time", "borough_name"},
			After:     []string{"drop_missing_borough"},
			Transform: tick{clock, &impute.GroupMean{Column: "first_time", By: "borough_name"}},
		})

	in := sampleFrame(t)
	out, rep, err := p.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 4, in.Rows())
	assert.Equal(t, 1.0, out.Cell(1, "first_time"))
	assert.Nil(t, out.Cell(2, "first_time"))

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 4, rep.RowsIn)
	assert.Equal(t, 3, rep.RowsOut)
	require.Len(t, rep.Steps, 2)
	assert.Equal(t, 1, rep.Steps[0].Dropped())
	assert.Equal(t, time.Second, rep.Steps[1].Duration)
	assert.Equal(t, 2*time.Second, rep.FinishedAt.Sub(rep.StartedAt))
	require.Len(t, rep.Gaps, 1)
	assert.Equal(t, frame.Gap{Column: "first_time", Group: "B", Rows: 1, Reason: frame.ReasonEmptyGroup}, rep.Gaps[0])
	assert.Equal(t, 1, rep.MissingRows("first_time"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("drop_missing_borough")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GapRows.WithLabelValues("first_time", frame.ReasonEmptyGroup)))
}

type failing struct{ applied *bool }

func (f failing) Name() string { return "failing" }
func (f failing) Apply(ctx context.Context, fr *frame.Frame) (*frame.Frame, error) {
	*f.applied = true
	return nil, errors.New("boom")
}

func TestPlanDependency(t *testing.T) {
	applied := false
	p := pipeline.New().
		Add(pipeline.Step{Name: "first", Transform: failing{&applied}}).
		Add(pipeline.Step{Name: "rank", After: []string{"flag"}, Transform: failing{&applied}})

	_, _, err := p.Run(context.Background(), sampleFrame(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrDependency))
	assert.False(t, applied, "no step may run when planning fails")
}

func TestPlanTracksColumns(t *testing.T) {
	s := sampleFrame(t).Schema()

	p := pipeline.New().
		Add(pipeline.Step{Name: "flag", Produces: []string{"Emergency"}}).
		Add(pipeline.Step{Name: "rank", Requires: []string{"Emergency"}})
	assert.NoError(t, p.Plan(s))

	p = pipeline.New().
		Add(pipeline.Step{Name: "project", Removes: []string{"borough_name"}}).
		Add(pipeline.Step{Name: "impute", Requires: []string{"borough_name"}})
	err := p.Plan(s)
	assert.True(t, errors.Is(err, frame.ErrMissingColumn))
	assert.Contains(t, err.Error(), "impute")
}

func TestRunStepError(t *testing.T) {
	applied := false
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(pipeline.WithMetrics(metrics)).Add(pipeline.Step{Name: "failing", Transform: failing{&applied}})

	out, rep, err := p.Run(context.Background(), sampleFrame(t))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.NotNil(t, rep)
	assert.Contains(t, err.Error(), "step failing")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunFailures))
}

func TestChain(t *testing.T) {
	tf := pipeline.Chain("clean_first_time",
		&filter.DropNull{Column: "borough_name"},
		&impute.GroupMean{Column: "first_time", By: "borough_name"},
	)
	assert.Equal(t, "clean_first_time", tf.Name())

	in := sampleFrame(t)
	out, err := tf.Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, 1.0, out.Cell(1, "first_time"))

	_, err = pipeline.Chain("broken", &filter.DropNull{Column: "ward_name"}).Apply(context.Background(), in)
	assert.True(t, errors.Is(err, frame.ErrMissingColumn))
}
