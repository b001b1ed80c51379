package heuristic

import (
	"math"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/bound"
	"github.com/matzehuels/relocator/pkg/state"
)

// Infeasible is the length reported when no sequence within the budget was found.
const Infeasible = math.MaxInt

// Func completes a relocation sequence from s. moves holds the sequence that
// led to s and depth is its length; new moves are appended to it. The state
// is consumed. The returned length is the number of relocations of the whole
// sequence, or Infeasible when it would exceed limit or gets stuck.
type Func func(s *state.State, moves []bay.Move, depth, limit int) ([]bay.Move, int)

// Named pairs a heuristic with a display name.
type Named struct {
	Name string
	Func Func
}

// All lists the heuristics in the order the solver runs them.
var All = []Named{
	{Name: "tight-fit", Func: TightFit},
	{Name: "min-badness", Func: MinBadness},
}

// chooser picks a destination for the top block of src, or -1 when every
// other stack is full.
type chooser func(s *state.State, src int) int

// TightFit relocates blockers of the target stack onto the non-full stack
// whose top quality is the smallest one not below the block. If the block
// cannot be placed well anywhere it goes to the stack with the largest top
// quality. Ties prefer the lower stack, then the lower index.
func TightFit(s *state.State, moves []bay.Move, depth, limit int) ([]bay.Move, int) {
	return run(s, moves, depth, limit, tightFit)
}

// MinBadness relocates blockers of the target stack onto the stack where
// they get the smallest badness. Among well placed options the smallest top
// quality wins; among badly placed ones the largest. Remaining ties prefer
// the lower stack, then the lower index.
func MinBadness(s *state.State, moves []bay.Move, depth, limit int) ([]bay.Move, int) {
	return run(s, moves, depth, limit, minBadness)
}

func run(s *state.State, moves []bay.Move, depth, limit int, pick chooser) ([]bay.Move, int) {
	s.RetrieveAll(depth)
	for s.Blocks() > 0 {
		if depth+bound.LBTS(s) > limit {
			return moves, Infeasible
		}
		src := s.Target()
		dst := pick(s, src)
		if dst < 0 {
			return moves, Infeasible
		}

		moves = append(moves, bay.Move{Priority: s.Top(src), Source: src, Dest: dst})
		depth++
		s.Relocate(src, dst, depth)
		s.RetrieveAll(depth)
	}
	if depth > limit {
		return moves, Infeasible
	}
	return moves, depth
}

func tightFit(s *state.State, src int) int {
	p := s.Top(src)
	best, bestQ, fits := -1, 0, false
	for d := range s.Stacks() {
		if d == src || s.Full(d) {
			continue
		}
		q := s.TopQuality(d)
		switch {
		case q >= p:
			if !fits || q < bestQ || (q == bestQ && s.Height(d) < s.Height(best)) {
				best, bestQ, fits = d, q, true
			}
		case !fits:
			if best < 0 || q > bestQ || (q == bestQ && s.Height(d) < s.Height(best)) {
				best, bestQ = d, q
			}
		}
	}
	return best
}

func minBadness(s *state.State, src int) int {
	p := s.Top(src)
	best, bestBad, bestKey := -1, 0, 0
	for d := range s.Stacks() {
		if d == src || s.Full(d) {
			continue
		}
		q := s.TopQuality(d)
		bad, key := 0, q
		if p > q {
			bad, key = s.TopBadness(d)+1, -q
		}
		if best < 0 || bad < bestBad || (bad == bestBad && (key < bestKey ||
			(key == bestKey && s.Height(d) < s.Height(best)))) {
			best, bestBad, bestKey = d, bad, key
		}
	}
	return best
}
