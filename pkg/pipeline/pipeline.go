// Package pipeline runs an ordered list of declared steps over a frame.
//
// Each Step names the columns it needs and the columns it adds or removes, plus
// the earlier steps it depends on. Plan checks a step list against an input
// schema before anything runs, so a bad configuration fails up front instead of
// deep inside an aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/observability"
)

// ErrDependency is returned when a step needs an earlier step that is not scheduled.
var ErrDependency = errors.New("step dependency not satisfied")

// Step is a named transform together with its column contract.
type Step struct {
	Name      string
	Requires  []string // columns that must exist before the step
	Produces  []string // columns the step adds
	Removes   []string // columns the step drops
	After     []string // steps that must run earlier
	Transform frame.Transform
}

// Pipeline composes a sequence of Steps.
type Pipeline struct {
	steps   []Step
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	narrate slog.Level
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.logger = l } }

func WithMetrics(m *observability.Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

func WithClock(c clockwork.Clock) Option { return func(p *Pipeline) { p.clock = c } }

// Verbose logs per-step progress at Info instead of Debug.
func Verbose(on bool) Option {
	return func(p *Pipeline) {
		if on {
			p.narrate = slog.LevelInfo
		}
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:  observability.Discard(),
		clock:   clockwork.NewRealClock(),
		narrate: slog.LevelDebug,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Add(s Step) *Pipeline {
	p.steps = append(p.steps, s)
	return p
}

// Steps returns the scheduled step names in order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Name
	}
	return out
}

// Plan checks the step list against the input schema.
func (p *Pipeline) Plan(s frame.Schema) error {
	avail := make(map[string]struct{}, len(s.Columns))
	for _, cs := range s.Columns {
		avail[cs.Name] = struct{}{}
	}
	done := map[string]struct{}{}
	for _, st := range p.steps {
		for _, dep := range st.After {
			if _, ok := done[dep]; !ok {
				return fmt.Errorf("%w: %s needs %s to run first", ErrDependency, st.Name, dep)
			}
		}
		for _, col := range st.Requires {
			if _, ok := avail[col]; !ok {
				return fmt.Errorf("step %s: %w: %s", st.Name, frame.ErrMissingColumn, col)
			}
		}
		for _, col := range st.Produces {
			avail[col] = struct{}{}
		}
		for _, col := range st.Removes {
			delete(avail, col)
		}
		done[st.Name] = struct{}{}
	}
	return nil
}

// Run plans and applies every step in order. The first error aborts the run
// and no frame is returned.
func (p *Pipeline) Run(ctx context.Context, f *frame.Frame) (*frame.Frame, *Report, error) {
	rep := &Report{RunID: uuid.NewString(), StartedAt: p.clock.Now(), RowsIn: f.Rows()}
	p.count(func(m *observability.Metrics) {
		m.Runs.Inc()
		m.RowsIn.Add(float64(f.Rows()))
	})
	out, err := p.run(ctx, f, rep)
	rep.FinishedAt = p.clock.Now()
	if err != nil {
		p.count(func(m *observability.Metrics) { m.RunFailures.Inc() })
		p.logger.Error("pipeline failed", "run_id", rep.RunID, "error", err)
		return nil, rep, err
	}
	rep.RowsOut = out.Rows()
	p.count(func(m *observability.Metrics) { m.RowsOut.Add(float64(out.Rows())) })
	p.logger.Log(ctx, p.narrate, "pipeline finished",
		"run_id", rep.RunID,
		"rows_in", rep.RowsIn,
		"rows_out", rep.RowsOut,
		"gaps", len(rep.Gaps),
	)
	return out, rep, nil
}

func (p *Pipeline) run(ctx context.Context, f *frame.Frame, rep *Report) (*frame.Frame, error) {
	if err := p.Plan(f.Schema()); err != nil {
		return nil, err
	}
	var notes frame.Notes
	ctx = frame.WithNotes(ctx, &notes)
	cur := f
	for _, st := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := p.clock.Now()
		next, err := st.Transform.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", st.Name, err)
		}
		sr := StepReport{
			Name:     st.Name,
			RowsIn:   cur.Rows(),
			RowsOut:  next.Rows(),
			Duration: p.clock.Since(start),
			Gaps:     notes.Drain(),
		}
		rep.Steps = append(rep.Steps, sr)
		rep.Gaps = append(rep.Gaps, sr.Gaps...)
		p.observe(sr)
		p.logger.Log(ctx, p.narrate, "step done",
			"step", sr.Name,
			"rows_in", sr.RowsIn,
			"rows_out", sr.RowsOut,
			"duration", sr.Duration,
		)
		for _, g := range sr.Gaps {
			p.logger.Warn("values left missing",
				"step", sr.Name, "column", g.Column, "group", g.Group, "rows", g.Rows, "reason", g.Reason)
		}
		cur = next
	}
	return cur, nil
}

func (p *Pipeline) observe(sr StepReport) {
	p.count(func(m *observability.Metrics) {
		m.StepDuration.WithLabelValues(sr.Name).Observe(sr.Duration.Seconds())
		if d := sr.Dropped(); d > 0 {
			m.RowsDropped.WithLabelValues(sr.Name).Add(float64(d))
		}
		for _, g := range sr.Gaps {
			m.GapRows.WithLabelValues(g.Column, g.Reason).Add(float64(g.Rows))
		}
	})
}

func (p *Pipeline) count(fn func(m *observability.Metrics)) {
	if p.metrics != nil {
		fn(p.metrics)
	}
}

// Report summarizes one run.
type Report struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	RowsIn     int          `json:"rows_in"`
	RowsOut    int          `json:"rows_out"`
	Steps      []StepReport `json:"steps"`
	Gaps       []frame.Gap  `json:"gaps,omitempty"`
}

// StepReport records the effect of a single step.
type StepReport struct {
	Name     string        `json:"name"`
	RowsIn   int           `json:"rows_in"`
	RowsOut  int           `json:"rows_out"`
	Duration time.Duration `json:"duration"`
	Gaps     []frame.Gap   `json:"gaps,omitempty"`
}

func (s StepReport) Dropped() int { return s.RowsIn - s.RowsOut }

// MissingRows totals the rows left missing for column across all gaps.
func (r *Report) MissingRows(column string) int {
	n := 0
	for _, g := range r.Gaps {
		if g.Column == column {
			n += g.Rows
		}
	}
	return n
}

// Chain applies ts in order as a single transform named name.
func Chain(name string, ts ...frame.Transform) frame.Transform {
	return chain{name: name, ts: ts}
}

type chain struct {
	name string
	ts   []frame.Transform
}

func (c chain) Name() string { return c.name }

func (c chain) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cur := f
	for _, t := range c.ts {
		next, err := t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
