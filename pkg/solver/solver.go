package solver

import (
	"context"
	stderrors "errors"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/bound"
	"github.com/matzehuels/relocator/pkg/heuristic"
	"github.com/matzehuels/relocator/pkg/state"
)

const (
	DefaultTimeLimit  = 30 * time.Minute
	DefaultTimerCycle = 100000
)

// ErrInfeasible is returned when no relocation sequence empties the bay.
var ErrInfeasible = stderrors.New("solver: instance has no feasible solution")

// Event names a point of interest during a solve.
type Event string

const (
	EventStart   Event = "start"   // bounds initialized, search about to begin
	EventRunning Event = "running" // periodic heartbeat
	EventGoal    Event = "goal"    // a pass reached its bound
	EventUpdate  Event = "update"  // a probe improved the incumbent
	EventDeepen  Event = "deepen"  // a pass failed, lower bound raised
	EventEnd     Event = "end"     // search finished
)

// Progress is a snapshot of the search handed to [Options.Progress].
type Progress struct {
	Event   Event
	BestLB  int
	BestUB  int
	Nodes   int64
	Probes  int64
	Elapsed time.Duration
}

// Options configures a [Solver]. The zero value is usable.
type Options struct {
	// TimeLimit bounds the wall clock time of one solve. Zero means
	// DefaultTimeLimit.
	TimeLimit time.Duration
	// TimerCycle is the number of node expansions between two clock checks.
	// Zero means DefaultTimerCycle.
	TimerCycle int64
	// Logger receives search events at debug level. Nil discards them.
	Logger *log.Logger
	// Progress, if set, is called synchronously on every search event.
	Progress func(Progress)
}

// Solver computes optimal relocation sequences. A Solver holds no per-solve
// state, so one value may serve concurrent calls to Solve.
type Solver struct {
	Options
}

// New returns a solver with the given options.
func New(opts Options) *Solver {
	return &Solver{Options: opts}
}

// Solve computes a minimum-length relocation sequence for inst.
//
// The search stops early when the time limit passes or ctx is done; the
// report then has TimedOut set and holds the best solution found so far. An
// instance that cannot be emptied yields ErrInfeasible. Validation failures
// are returned as *errors.Error with code ErrCodeInvalidInstance.
func (sv *Solver) Solve(ctx context.Context, inst *bay.Instance) (*Report, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	e := newEngine(ctx, inst, sv.Options)
	return e.solve()
}

// Solve runs a solver with default options.
func Solve(ctx context.Context, inst *bay.Instance) (*Report, error) {
	return New(Options{}).Solve(ctx, inst)
}

func newEngine(ctx context.Context, inst *bay.Instance, opts Options) *engine {
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultTimeLimit
	}
	if opts.TimerCycle <= 0 {
		opts.TimerCycle = DefaultTimerCycle
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	n := inst.NumStacks()
	start := time.Now()
	return &engine{
		ctx:           ctx,
		opts:          opts,
		log:           logger,
		start:         start,
		end:           start.Add(opts.TimeLimit),
		stacks:        n,
		tiers:         inst.Tiers,
		inst:          inst,
		minChangeLeft: make([]int, n),
		maxOutRight:   make([]int, n),
		maxSrcRight:   make([]int, n),
		maxDstRight:   make([]int, n),
		group:         make([]int, inst.MaxPriority()),
	}
}

func (e *engine) solve() (*Report, error) {
	root := state.New(e.inst)
	root.RetrieveAll(0)
	if root.Blocks() == 0 {
		return &Report{Solution: []bay.Move{}, TimeUsed: time.Since(e.start)}, nil
	}

	best, bestLen := -1, math.MaxInt
	for i, h := range heuristic.All {
		if _, n := h.Func(root.Clone(), nil, 0, math.MaxInt); n < bestLen {
			best, bestLen = i, n
		}
	}
	if best < 0 {
		return nil, ErrInfeasible
	}
	maxDepth := bestLen

	e.path = make([]bay.Move, maxDepth)
	e.hist = make([]*state.State, maxDepth+1)
	e.hist[0] = root

	rootLB := bound.LBTS(root)
	e.bestLB = rootLB
	e.bestSol, e.bestUB = heuristic.All[best].Func(root.Clone(), make([]bay.Move, 0, maxDepth), 0, math.MaxInt)

	e.event(EventStart)
	for e.bestLB < e.bestUB {
		if e.search(0) {
			break
		}
		e.bestLB++
		e.timeLB = time.Since(e.start)
		e.event(EventDeepen)
	}
	e.event(EventEnd)

	return &Report{
		InitLB:       rootLB,
		InitUB:       maxDepth,
		BestLB:       e.bestLB,
		BestUB:       e.bestUB,
		Solution:     e.bestSol[:e.bestUB:e.bestUB],
		TimeToBestLB: e.timeLB,
		TimeToBestUB: e.timeUB,
		TimeUsed:     time.Since(e.start),
		Nodes:        e.nodes,
		Probes:       e.probes,
		TimedOut:     e.timedOut,
	}, nil
}

// event logs a search event and forwards it to the progress callback.
func (e *engine) event(ev Event) {
	elapsed := time.Since(e.start)
	e.log.Debug(string(ev),
		"best_lb", e.bestLB, "lb_at", e.timeLB.Round(time.Millisecond),
		"best_ub", e.bestUB, "ub_at", e.timeUB.Round(time.Millisecond),
		"elapsed", elapsed.Round(time.Millisecond),
		"nodes", e.nodes, "probes", e.probes)
	if e.opts.Progress != nil {
		e.opts.Progress(Progress{
			Event:   ev,
			BestLB:  e.bestLB,
			BestUB:  e.bestUB,
			Nodes:   e.nodes,
			Probes:  e.probes,
			Elapsed: elapsed,
		})
	}
}

// expired reports whether the search must stop, and records why.
func (e *engine) expired() bool {
	if time.Now().After(e.end) || e.ctx.Err() != nil {
		e.timedOut = true
		return true
	}
	return false
}
