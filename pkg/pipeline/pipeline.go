// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"
)

// Stage is one fallible step of a build
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// StageError reports which stage stopped the pipeline
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result records how far a run got
type Result struct {
	Completed []string
	Failed    string
	Skipped   []string
	Duration  time.Duration
}

// Pipeline runs stages in order; the first failure stops it
type Pipeline struct {
	Stages []Stage
	Logger *log.Logger
}

// Add appends a stage and returns the pipeline for chaining
func (p *Pipeline) Add(name string, run func(ctx context.Context) error) *Pipeline {
	p.Stages = append(p.Stages, Stage{Name: name, Run: run})
	return p
}

// Names lists the stage names in order
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.Stages))
	for _, s := range p.Stages {
		names = append(names, s.Name)
	}
	return names
}

// Run executes the stages. On failure the returned error is a *StageError
// and the remaining stages are listed in Result.Skipped.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	start := time.Now()
	res := &Result{}

	for i, s := range p.Stages {
		if err := ctx.Err(); err != nil {
			return p.fail(res, i, start, &StageError{Stage: s.Name, Err: err}, logger)
		}

		logger.Printf("Step %d/%d: %s", i+1, len(p.Stages), s.Name)
		if err := s.Run(ctx); err != nil {
			return p.fail(res, i, start, &StageError{Stage: s.Name, Err: err}, logger)
		}
		logger.Printf("  ✓ %s", s.Name)
		res.Completed = append(res.Completed, s.Name)
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (p *Pipeline) fail(res *Result, i int, start time.Time, err *StageError, logger *log.Logger) (*Result, error) {
	logger.Printf("  ❌ %s: %v", err.Stage, err.Err)
	res.Failed = err.Stage
	for _, s := range p.Stages[i+1:] {
		res.Skipped = append(res.Skipped, s.Name)
	}
	res.Duration = time.Since(start)
	return res, err
}
