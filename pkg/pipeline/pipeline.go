// Package pipeline runs solves behind the report cache.
//
// Both the CLI and the HTTP API go through a [Runner] so that cache keys,
// hooks and logging behave the same way at every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Solve(ctx, inst, pipeline.Options{TimeLimit: time.Minute})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Report.BestUB, res.Cached)
//
// Several instances are solved concurrently with [Runner.SolveAll], which
// bounds the number of simultaneous searches and records a per-job outcome
// instead of stopping at the first failure.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/solver"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Lambda
// =============================================================================

const (
	// DefaultTimeLimit is the per-solve time budget when none is given.
	DefaultTimeLimit = solver.DefaultTimeLimit

	// DefaultTTL is how long optimal reports stay cached.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultWorkers is the number of concurrent solves in SolveAll.
	DefaultWorkers = 4
)

// keyType labels report entries in cache metrics.
const keyType = "report"

// Options configures one solve.
type Options struct {
	// TimeLimit bounds the search. Zero means DefaultTimeLimit.
	TimeLimit time.Duration
	// TimerCycle is passed to the solver. Zero means the solver default.
	TimerCycle int64
	// Refresh skips the cache lookup. The new report is still stored.
	Refresh bool
	// Progress receives solver events. It is not called on cache hits.
	Progress func(solver.Progress)
	// Logger receives solver debug events. Nil uses the runner's logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills unset fields and validates the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.TimeLimit == 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if err := errors.ValidateTimeLimit(o.TimeLimit); err != nil {
		return err
	}
	if o.TimerCycle < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timer cycle must not be negative, got %d", o.TimerCycle)
	}
	return nil
}

// Result is a report together with how it was obtained.
type Result struct {
	Report *solver.Report `json:"report"`
	// Cached is set when the report came from the cache.
	Cached bool `json:"cached"`
	// Key is the cache key of the instance.
	Key string `json:"key"`
	// Duration is the wall time of the call, including cache access.
	Duration time.Duration `json:"duration"`
}
