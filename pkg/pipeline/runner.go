package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/buildinfo"
	"github.com/matzehuels/relocator/pkg/cache"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/observability"
	"github.com/matzehuels/relocator/pkg/solver"
)

// Runner encapsulates solving with caching.
//
// The Runner holds no per-solve state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of stored reports.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Key returns the cache key of inst for the running build.
func (r *Runner) Key(inst *bay.Instance) string {
	return r.Keyer.ReportKey(inst, cache.ReportKeyOpts{SolverVersion: buildinfo.CacheTag()})
}

// Solve returns the report for inst, from the cache when possible.
//
// Only proven optimal reports are stored. An infeasible instance yields an
// error with code ErrCodeInfeasible that also matches solver.ErrInfeasible.
func (r *Runner) Solve(ctx context.Context, inst *bay.Instance, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	key := r.Key(inst)
	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, inst.NumStacks(), inst.Tiers, inst.NumBlocks())

	if !opts.Refresh {
		if rep, ok := r.lookup(ctx, key); ok {
			res := &Result{Report: rep, Cached: true, Key: key, Duration: time.Since(start)}
			hooks.OnSolveComplete(ctx, summarize(res), nil)
			r.Logger.Info("cached report",
				"relocations", rep.BestUB,
				"key", key)
			return res, nil
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	sv := solver.New(solver.Options{
		TimeLimit:  opts.TimeLimit,
		TimerCycle: opts.TimerCycle,
		Logger:     logger,
		Progress:   opts.Progress,
	})
	rep, err := sv.Solve(ctx, inst)
	if err != nil {
		if stderrors.Is(err, solver.ErrInfeasible) {
			err = errors.Wrap(errors.ErrCodeInfeasible, err, "no relocation sequence empties the bay")
		}
		hooks.OnSolveComplete(ctx, observability.SolveResult{Duration: time.Since(start)}, err)
		return nil, err
	}

	res := &Result{Report: rep, Key: key}
	if rep.Optimal() && !rep.TimedOut {
		r.store(ctx, key, rep)
	}
	res.Duration = time.Since(start)
	hooks.OnSolveComplete(ctx, summarize(res), nil)

	r.Logger.Info("solved",
		"relocations", rep.BestUB,
		"lower_bound", rep.BestLB,
		"nodes", rep.Nodes,
		"timed_out", rep.TimedOut,
		"duration", rep.TimeUsed)
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*solver.Report, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	var rep solver.Report
	if err := json.Unmarshal(data, &rep); err != nil || rep.Solution == nil {
		r.Logger.Warn("discarding unreadable cache entry", "key", key)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return &rep, true
}

func (r *Runner) store(ctx context.Context, key string, rep *solver.Report) {
	data, err := json.Marshal(rep)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func summarize(res *Result) observability.SolveResult {
	rep := res.Report
	return observability.SolveResult{
		Relocations: rep.BestUB,
		Gap:         rep.Gap(),
		Nodes:       rep.Nodes,
		Probes:      rep.Probes,
		Duration:    res.Duration,
		TimedOut:    rep.TimedOut,
		Cached:      res.Cached,
	}
}

// Job names one instance of a batch.
type Job struct {
	Name     string
	Instance *bay.Instance
}

// Outcome is the result of one Job. Exactly one of Result and Err is set.
type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// SolveAll solves jobs with at most workers searches running at once.
// A failing job does not stop the others; its error is kept in its Outcome.
// Outcomes are in job order. opts.Progress, if set, is called from several
// goroutines.
func (r *Runner) SolveAll(ctx context.Context, jobs []Job, opts Options, workers int) ([]Outcome, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	outcomes := make([]Outcome, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.Solve(gCtx, job.Instance, opts)
			outcomes[i] = Outcome{Name: job.Name, Result: res, Err: err}
			if err != nil {
				r.Logger.Warn("job failed", "job", job.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}
