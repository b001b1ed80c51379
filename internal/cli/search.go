package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relocator/pkg/solver"
)

// heartbeatInterval is the minimum time between two "still searching" lines.
const heartbeatInterval = 10 * time.Second

// searchReporter turns solver events into log lines or spinner text.
// With a spinner, events only update its message; without one, bound
// changes are logged at info level and heartbeats every heartbeatInterval.
//
// The reporter is not safe for concurrent use.
type searchReporter struct {
	logger  *log.Logger
	spinner *Spinner
	name    string
	lastLog time.Time
}

func newSearchReporter(logger *log.Logger, spinner *Spinner, name string) *searchReporter {
	return &searchReporter{logger: logger, spinner: spinner, name: name}
}

// onProgress is passed to the solver as its progress callback.
func (r *searchReporter) onProgress(p solver.Progress) {
	if r.spinner != nil {
		r.spinner.SetMessage(fmt.Sprintf("Solving %s: %d ≤ optimum ≤ %d · %s nodes",
			r.name, p.BestLB, p.BestUB, formatCount(p.Nodes)))
		return
	}

	switch p.Event {
	case solver.EventStart:
		r.logger.Info("Initial bounds", "lower", p.BestLB, "upper", p.BestUB)
		r.lastLog = time.Now()
	case solver.EventUpdate:
		r.logger.Info("Improved solution", "relocations", p.BestUB, "nodes", p.Nodes, "elapsed", p.Elapsed.Round(time.Millisecond))
		r.lastLog = time.Now()
	case solver.EventDeepen:
		r.logger.Debug("Lower bound raised", "lower", p.BestLB, "nodes", p.Nodes)
	case solver.EventGoal:
		r.logger.Debug("Pass reached bound", "lower", p.BestLB, "upper", p.BestUB)
	case solver.EventRunning:
		if time.Since(r.lastLog) >= heartbeatInterval {
			r.logger.Infof("Searching... %v elapsed, %d ≤ optimum ≤ %d (%s nodes)",
				p.Elapsed.Truncate(time.Second), p.BestLB, p.BestUB, formatCount(p.Nodes))
			r.lastLog = time.Now()
		}
	case solver.EventEnd:
		r.logger.Debug("Search finished", "nodes", p.Nodes, "probes", p.Probes)
	}
}
