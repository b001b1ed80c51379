// Package bound computes admissible lower bounds on the number of relocations
// a Block Relocation Problem state still needs.
//
// [LBTS] counts every badly placed block once (each must move at least once)
// and adds the number of "blocking layers" found by peeling the bay from the
// top: a layer is a set of top slots, one per stack, none of which can become
// a destination that avoids another relocation. Each such layer forces one
// extra relocation beyond the badly placed blocks. The bound never exceeds the
// true minimum, so the solver may prune on it.
package bound

import (
	"math"

	"github.com/matzehuels/relocator/pkg/state"
)

// LBTS returns the LB-TS lower bound of s.
//
// The simulation works on a copy of the heights. In each round it looks for a
// stack whose simulated top either holds the smallest top quality of the bay,
// or is badly placed with a priority no larger than the best top quality among
// stacks with spare room. Such a stack is lowered by one and the round starts
// over. When no stack qualifies the tops form a blocking layer: the layer
// counter grows and every stack is lowered. The loop ends when some stack is
// exhausted.
func LBTS(s *state.State) int {
	n := s.Stacks()
	tiers := s.Tiers()

	h := make([]int, n)
	lowest := math.MaxInt
	for st := range n {
		h[st] = s.Height(st)
		lowest = min(lowest, h[st])
	}

	layers := 0
	for lowest > 0 {
		qMin, qMax := math.MaxInt, 0
		for st := range n {
			q := s.Quality(st, h[st])
			qMin = min(qMin, q)
			if h[st] < tiers {
				qMax = max(qMax, q)
			}
		}

		layer := true
		for st := range n {
			p := s.Prio(st, h[st])
			if p == qMin || (s.Badness(st, h[st]) > 0 && p <= qMax) {
				h[st]--
				lowest = min(lowest, h[st])
				layer = false
				break
			}
		}

		if layer {
			layers++
			for st := range n {
				h[st]--
				lowest = min(lowest, h[st])
			}
		}
	}

	return s.BadCount() + layers
}
