package lfb

import (
	"context"

	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/pipeline"
)

// NewPipeline schedules the steps enabled by cfg.
func NewPipeline(cfg Config, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	steps, err := Steps(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts[:len(opts):len(opts)], pipeline.Verbose(cfg.Verbose))
	p := pipeline.New(opts...)
	for _, s := range steps {
		p.Add(s)
	}
	return p, nil
}

// Clean runs the steps enabled by cfg over raw incidents. The input is never
// modified. On error no frame is returned; the report covers the steps that ran.
func Clean(ctx context.Context, raw *frame.Frame, cfg Config, opts ...pipeline.Option) (*frame.Frame, *pipeline.Report, error) {
	p, err := NewPipeline(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return p.Run(ctx, raw)
}
