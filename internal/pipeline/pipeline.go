package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/apscan/internal/model"
)

// Step is one stage of a scan. Steps share a single ScanReport: the scan
// steps fill Result, later steps read it.
type Step interface {
	// Do runs the stage. A failure that only affects part of the scan is
	// recorded in the report and Do returns nil; a returned error stops
	// the pipeline.
	Do(ctx context.Context, report *model.ScanReport) error

	// Name identifies the step in logs and in ScanReport.Steps.
	Name() string
}

// Pipeline runs its steps in order against one report.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in the given order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}

// Execute runs the steps until one fails or ctx is done. Each finished step
// is appended to report.Steps. When the run stops because ctx was
// cancelled, report.Cancelled is set and ctx.Err() is returned.
func (p *Pipeline) Execute(ctx context.Context, report *model.ScanReport) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			report.Cancelled = true
			return err
		}

		p.logger.Debug("executing step", "step", step.Name())
		if err := step.Do(ctx, report); err != nil {
			if ctx.Err() != nil {
				report.Cancelled = true
			}
			p.logger.Error("step failed", "step", step.Name(), "error", err)
			report.AddWarning("%s: %v", step.Name(), err)
			return err
		}
		p.logger.Debug("step completed", "step", step.Name())

		report.Steps = append(report.Steps, step.Name())
	}
	return nil
}
