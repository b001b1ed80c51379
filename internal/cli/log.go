package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped records to w. Search events are emitted at
// debug level, so the level decides whether solves are traced node by node.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logSummary records a finished bench run as one structured line.
func logSummary(l *log.Logger, s benchSummary) {
	l.Info("bench finished",
		"instances", s.instances,
		"failed", s.failed,
		"cached", s.cached,
		"timed_out", s.timedOut,
		"nodes", s.nodes,
		"elapsed", s.elapsed.Round(time.Millisecond),
	)
}
