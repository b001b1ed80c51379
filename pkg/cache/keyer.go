package cache

import (
	"github.com/matzehuels/relocator/pkg/bay"
)

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey returns the key of the solve report for inst.
	ReportKey(inst *bay.Instance, opts ReportKeyOpts) string
}

// ReportKeyOpts holds the inputs besides the instance that change a report.
type ReportKeyOpts struct {
	// SolverVersion separates reports of different solver builds.
	SolverVersion string `json:"solver_version,omitempty"`
}

// DefaultKeyer hashes the instance and options into "report:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(inst *bay.Instance, opts ReportKeyOpts) string {
	return hashKey("report", inst.Tiers, inst.Stacks, opts)
}
