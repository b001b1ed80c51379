package solver

import (
	"time"

	"github.com/matzehuels/relocator/pkg/bay"
)

// Report is the outcome of one solve.
type Report struct {
	// InitLB is the LB-TS bound of the root state.
	InitLB int `json:"init_lb"`
	// InitUB is the best heuristic result from the root.
	InitUB int `json:"init_ub"`
	// BestLB is the proven lower bound when the search stopped.
	BestLB int `json:"best_lb"`
	// BestUB is the length of Solution.
	BestUB int `json:"best_ub"`
	// Solution empties the bay in BestUB relocations. Never nil.
	Solution []bay.Move `json:"solution"`

	TimeToBestLB time.Duration `json:"time_to_best_lb"`
	TimeToBestUB time.Duration `json:"time_to_best_ub"`
	TimeUsed     time.Duration `json:"time_used"`

	Nodes  int64 `json:"nodes"`
	Probes int64 `json:"probes"`

	// TimedOut is set when the time limit or the context stopped the search
	// before the bounds met.
	TimedOut bool `json:"timed_out"`
}

// Optimal reports whether Solution is proven to be of minimum length.
func (r *Report) Optimal() bool { return r.BestLB == r.BestUB }

// Gap returns BestUB - BestLB.
func (r *Report) Gap() int { return r.BestUB - r.BestLB }
