package solver

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/bound"
	"github.com/matzehuels/relocator/pkg/heuristic"
	"github.com/matzehuels/relocator/pkg/state"
)

// engine holds the data of one solve. It is not safe for concurrent use.
type engine struct {
	ctx   context.Context
	opts  Options
	log   *log.Logger
	start time.Time
	end   time.Time

	inst   *bay.Instance
	stacks int
	tiers  int

	// path[k-1] is the relocation performed at time k on the current branch;
	// hist[k] is the state after it and its forced retrievals.
	path []bay.Move
	hist []*state.State

	bestLB, bestUB int
	bestSol        []bay.Move
	timeLB, timeUB time.Duration
	nodes, probes  int64
	timedOut       bool

	// Per-node rule tables. Filled before branching and only read while the
	// node's children are generated, so one set serves the whole tree.
	minChangeLeft []int // TC: min last change of non-full stacks left of s
	maxOutRight   []int // IB: max last move-out of stacks right of s
	maxSrcRight   []int // SC: max time a block like the top of s left a stack right of s
	maxDstRight   []int // SD: max time a block like the source top entered a stack right of s
	group         []int // SC scratch indexed by priority
}

type branch struct {
	move    bay.Move
	qSrc    int
	qDst    int
	childLB int
	child   *state.State
}

func compareBranches(a, b branch) int {
	if a.childLB != b.childLB {
		return a.childLB - b.childLB
	}
	if a.qDst != b.qDst {
		return a.qDst - b.qDst
	}
	return a.qSrc - b.qSrc
}

// search expands the node at hist[level]. It returns true when the whole
// solve is over: a solution of length bestLB was found, or time ran out.
func (e *engine) search(level int) bool {
	e.nodes++
	if e.nodes%e.opts.TimerCycle == 0 {
		if e.expired() {
			return true
		}
		e.event(EventRunning)
	}

	curr := e.hist[level]
	e.prepare(curr)

	var branches []branch
	for sn := range e.stacks {
		if curr.Empty(sn) {
			continue
		}
		pn := curr.Top(sn)
		lv := curr.TopPlaced(sn)

		if lv > 0 {
			sk := e.path[lv-1].Source
			if curr.LastChange(sk) == lv && curr.LastChangeKind(sk) == state.ChangeMoveOut {
				continue // TA
			}
		}
		if e.minChangeLeft[sn] < lv {
			continue // TC
		}
		if curr.LastChange(sn) < e.maxSrcRight[sn] {
			continue // SC
		}

		e.prepareDest(curr, pn)
		firstEmpty := true
		for dn := range e.stacks {
			if dn == sn || curr.Full(dn) {
				continue
			}
			if curr.Empty(dn) {
				if !firstEmpty {
					continue // EA
				}
				firstEmpty = false
			}
			if curr.LastChange(dn) < lv {
				continue // TB
			}
			if max(curr.LastChange(sn), curr.LastChange(dn)) < e.maxOutRight[sn] {
				continue // IB
			}
			if curr.LastChangeKind(dn) == state.ChangeMoveOut {
				k := curr.LastChange(dn)
				if prev := e.path[k-1]; prev.Priority == pn {
					if curr.LastChange(sn) < k {
						continue // SA
					}
					if curr.LastChange(prev.Dest) == k {
						continue // SB
					}
				}
			}
			if curr.LastChange(dn) < e.maxDstRight[dn] {
				continue // SD
			}

			move := bay.Move{Priority: pn, Source: sn, Dest: dn}
			child := curr.Clone()
			child.Relocate(sn, dn, level+1)
			e.path[level] = move

			if e.retrieveDominated(child, level+1) {
				continue
			}

			if child.Blocks() == 0 {
				e.bestUB = level + 1
				e.bestSol = slices.Clone(e.path[:level+1])
				e.timeUB = time.Since(e.start)
				e.event(EventGoal)
				return true
			}

			childLB := bound.LBTS(child)
			if level+1+childLB > e.bestLB {
				continue
			}
			if level+1+childLB == e.bestLB-1 && e.probe(child, level+1) {
				return true
			}

			branches = append(branches, branch{
				move:    move,
				qSrc:    curr.TopQuality(sn),
				qDst:    curr.TopQuality(dn),
				childLB: childLB,
				child:   child,
			})
		}
	}

	slices.SortStableFunc(branches, compareBranches)
	for _, b := range branches {
		e.path[level] = b.move
		e.hist[level+1] = b.child
		if e.search(level + 1) {
			return true
		}
	}
	return false
}

// prepare fills the TC, IB and SC tables for curr.
func (e *engine) prepare(curr *state.State) {
	n := e.stacks

	m := math.MaxInt
	for s := range n {
		e.minChangeLeft[s] = m
		if !curr.Full(s) {
			m = min(m, curr.LastChange(s))
		}
	}

	m = 0
	for s := n - 1; s >= 0; s-- {
		e.maxOutRight[s] = m
		m = max(m, curr.LastMoveOut(s))
	}

	// group[p-minPrio-1] is the latest time a block of priority p left one of
	// the stacks visited so far.
	minPrio := curr.MinPriority()
	group := e.group[:max(0, curr.Ground()-1-minPrio)]
	clear(group)
	for s := n - 1; s >= 0; s-- {
		e.maxSrcRight[s] = 0
		if !curr.Empty(s) {
			if p := curr.Top(s); p > minPrio {
				e.maxSrcRight[s] = group[p-minPrio-1]
			}
		}
		if curr.LastChangeKind(s) == state.ChangeMoveOut {
			k := curr.LastChange(s)
			if pk := e.path[k-1].Priority; pk > minPrio {
				group[pk-minPrio-1] = max(group[pk-minPrio-1], k)
			}
		}
	}
}

// prepareDest fills the SD table for a source whose top block is pn.
func (e *engine) prepareDest(curr *state.State, pn int) {
	m := 0
	for d := e.stacks - 1; d >= 0; d-- {
		e.maxDstRight[d] = m
		if curr.LastChangeKind(d) == state.ChangeMoveIn {
			k := curr.LastChange(d)
			if e.path[k-1].Priority == pn {
				m = max(m, k)
			}
		}
	}
}

// retrieveDominated performs the forced retrievals of child at time at. It
// stops and returns true as soon as a retrieval shows that the branch is
// dominated by RA or RB.
func (e *engine) retrieveDominated(child *state.State, at int) bool {
	for child.Retrievable() {
		sMin := child.Target()
		p := child.Top(sMin)
		k := child.TopPlaced(sMin)

		if k > 0 {
			sk := e.path[k-1].Source
			before := e.hist[k-1]

			// RA: the block could have been retrieved from the stack it
			// was relocated from, which received nothing since.
			if child.LastMoveOut(sk) == k && child.LastMoveIn(sk) < k && before.TopQuality(sk) == p {
				return true
			}

			// RB: a stack further left, untouched since, could have taken
			// the block well placed.
			for d := range sMin {
				if !before.Full(d) && child.LastMoveOut(d) < k && child.LastMoveIn(d) < k && before.TopQuality(d) >= p {
					return true
				}
			}
		}

		child.Retrieve(at)
	}
	return false
}

// probe completes child with both heuristics, capped one below the
// incumbent. It returns true when the incumbent drops to bestLB.
func (e *engine) probe(child *state.State, depth int) bool {
	e.probes++
	for _, h := range heuristic.All {
		moves, n := h.Func(child.Clone(), slices.Clip(e.path[:depth]), depth, e.bestUB-1)
		if n == heuristic.Infeasible {
			continue
		}
		e.bestUB = n
		e.bestSol = moves
		e.timeUB = time.Since(e.start)
		e.event(EventUpdate)
		if e.bestLB == e.bestUB {
			return true
		}
	}
	return false
}
