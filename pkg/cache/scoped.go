package cache

import (
	"github.com/matzehuels/relocator/pkg/bay"
)

// ScopedKeyer prepends a fixed prefix to the keys of another Keyer, giving
// each deployment its own namespace in a shared store.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey implements Keyer.
func (k *ScopedKeyer) ReportKey(inst *bay.Instance, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(inst, opts)
}
