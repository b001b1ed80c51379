// Package brute computes exact relocation counts by exhaustive breadth-first
// search. It is only practical for tiny bays and serves as a test oracle for
// the lower bound and the branch-and-bound solver. It also draws the random
// instances used by the bench command.
package brute

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/state"
)

// Unreachable is returned when no relocation sequence empties the bay.
const Unreachable = -1

// Key encodes the stack contents of s; bookkeeping is ignored.
func Key(s *state.State) string {
	var b strings.Builder
	for st := 0; st < s.Stacks(); st++ {
		for t := 1; t <= s.Height(st); t++ {
			b.WriteString(strconv.Itoa(s.Prio(st, t)))
			b.WriteByte(',')
		}
		b.WriteByte('|')
	}
	return b.String()
}

// successors returns every state one relocation away from s, with forced
// retrievals applied.
func successors(s *state.State, time int) []*state.State {
	var out []*state.State
	for src := 0; src < s.Stacks(); src++ {
		if s.Empty(src) {
			continue
		}
		for dst := 0; dst < s.Stacks(); dst++ {
			if dst == src || s.Full(dst) {
				continue
			}
			c := s.Clone()
			c.Relocate(src, dst, time)
			c.RetrieveAll(time)
			out = append(out, c)
		}
	}
	return out
}

// MinRelocations returns the fewest relocations that empty the bay starting
// from s, or Unreachable. Forced retrievals are applied to a copy of s first.
func MinRelocations(s *state.State) int {
	root := s.Clone()
	root.RetrieveAll(0)

	seen := map[string]bool{Key(root): true}
	frontier := []*state.State{root}
	for depth := 0; len(frontier) > 0; depth++ {
		var next []*state.State
		for _, cur := range frontier {
			if cur.Blocks() == 0 {
				return depth
			}
			for _, c := range successors(cur, depth+1) {
				if k := Key(c); !seen[k] {
					seen[k] = true
					next = append(next, c)
				}
			}
		}
		frontier = next
	}
	return Unreachable
}

// Distances lists every distinct state reachable from inst's root (forced
// retrievals applied, root first) together with its exact remaining
// relocation count, Unreachable when the bay cannot be emptied from it.
func Distances(inst *bay.Instance) ([]*state.State, []int) {
	root := state.New(inst)
	root.RetrieveAll(0)

	index := map[string]int{Key(root): 0}
	all := []*state.State{root}
	var succ [][]int
	for i := 0; i < len(all); i++ {
		var next []int
		for _, c := range successors(all[i], 1) {
			k := Key(c)
			j, ok := index[k]
			if !ok {
				j = len(all)
				index[k] = j
				all = append(all, c)
			}
			next = append(next, j)
		}
		succ = append(succ, next)
	}

	dist := make([]int, len(all))
	for i, s := range all {
		dist[i] = Unreachable
		if s.Blocks() == 0 {
			dist[i] = 0
		}
	}
	for changed := true; changed; {
		changed = false
		for i := range all {
			for _, j := range succ[i] {
				if dist[j] != Unreachable && (dist[i] == Unreachable || dist[j]+1 < dist[i]) {
					dist[i] = dist[j] + 1
					changed = true
				}
			}
		}
	}
	return all, dist
}

// RandomInstance draws a bay with distinct priorities 1..blocks spread over
// the stacks at random. blocks is clamped to (stacks-1)*tiers+1, which keeps
// every instance solvable by relocating blockers off the target stack.
func RandomInstance(r *rand.Rand, stacks, tiers, blocks int) *bay.Instance {
	blocks = min(blocks, (stacks-1)*tiers+1)
	prios := r.Perm(blocks)
	for i := range prios {
		prios[i]++
	}
	return scatter(r, stacks, tiers, prios)
}

// RandomGroupedInstance is like RandomInstance but draws every priority from
// 1..groups, so blocks share priorities whenever groups < blocks.
func RandomGroupedInstance(r *rand.Rand, stacks, tiers, blocks, groups int) *bay.Instance {
	blocks = min(blocks, (stacks-1)*tiers+1)
	prios := make([]int, blocks)
	for i := range prios {
		prios[i] = 1 + r.IntN(max(groups, 1))
	}
	return scatter(r, stacks, tiers, prios)
}

// scatter places prios in order onto random stacks with spare capacity.
func scatter(r *rand.Rand, stacks, tiers int, prios []int) *bay.Instance {
	cols := make([][]int, stacks)
	for _, p := range prios {
		st := r.IntN(stacks)
		for len(cols[st]) == tiers {
			st = (st + 1) % stacks
		}
		cols[st] = append(cols[st], p)
	}
	inst, err := bay.New(tiers, cols)
	if err != nil {
		panic(err)
	}
	return inst
}
