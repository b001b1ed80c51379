package state

import (
	"github.com/matzehuels/relocator/pkg/bay"
)

// Change tells how a stack was last modified.
type Change uint8

const (
	ChangeNone     Change = iota // never touched
	ChangeMoveOut                // lost its top block to a relocation
	ChangeMoveIn                 // received a relocated block
	ChangeRetrieve               // had its top block retrieved
)

// String returns the change kind as a lowercase word.
func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeMoveOut:
		return "move-out"
	case ChangeMoveIn:
		return "move-in"
	case ChangeRetrieve:
		return "retrieve"
	default:
		return "unknown"
	}
}

// NoTarget is returned by [State.Target] once every block has been retrieved.
const NoTarget = -1

// State is one node of the search tree. It is not safe for concurrent use;
// the solver gives every node its own clone.
type State struct {
	stacks int
	tiers  int
	stride int // tiers + 1, tier 0 is ground

	blocks int // blocks not yet retrieved
	bad    int // slots with positive badness
	target int

	// buf backs every int slice below.
	buf        []int
	h          []int
	lastChange []int
	lastOut    []int
	lastIn     []int
	p, q, b, l []int

	kind []Change
}

func alloc(stacks, tiers int) *State {
	s := &State{stacks: stacks, tiers: tiers, stride: tiers + 1}
	s.buf = make([]int, 4*stacks+4*stacks*s.stride)
	s.kind = make([]Change, stacks)
	s.carve()
	return s
}

// carve slices buf into the per-stack vectors and the grids.
func (s *State) carve() {
	n, g := s.stacks, s.stacks*s.stride
	off := 0
	next := func(size int) []int {
		v := s.buf[off : off+size : off+size]
		off += size
		return v
	}
	s.h = next(n)
	s.lastChange = next(n)
	s.lastOut = next(n)
	s.lastIn = next(n)
	s.p = next(g)
	s.q = next(g)
	s.b = next(g)
	s.l = next(g)
}

// New builds the initial state of inst. No retrievals are applied; callers
// that want the force-free retrievals done call [State.RetrieveAll].
func New(inst *bay.Instance) *State {
	s := alloc(inst.NumStacks(), inst.Tiers)
	s.blocks = inst.NumBlocks()
	ground := inst.MaxPriority() + 1

	for st := 0; st < s.stacks; st++ {
		s.h[st] = inst.Height(st)
		s.place(st, 0, ground, 0)
		for t := 1; t <= s.h[st]; t++ {
			s.place(st, t, inst.Priority(st, t), 0)
			if s.b[s.at(st, t)] > 0 {
				s.bad++
			}
		}
	}

	s.resetTarget()
	return s
}

// Clone returns a deep, independent copy.
func (s *State) Clone() *State {
	c := *s
	c.buf = make([]int, len(s.buf))
	copy(c.buf, s.buf)
	c.kind = make([]Change, len(s.kind))
	copy(c.kind, s.kind)
	c.carve()
	return &c
}

func (s *State) at(st, t int) int { return st*s.stride + t }

// place writes a block into slot (st, t) and derives its quality and badness
// from the slot below.
func (s *State) place(st, t, p, time int) {
	i := s.at(st, t)
	s.p[i] = p
	if t == 0 || p <= s.q[i-1] {
		s.q[i] = p
		s.b[i] = 0
	} else {
		s.q[i] = s.q[i-1]
		s.b[i] = s.b[i-1] + 1
	}
	s.l[i] = time
}

// compare orders stacks by top quality, then by top badness.
func (s *State) compare(s1, s2 int) int {
	i1, i2 := s.at(s1, s.h[s1]), s.at(s2, s.h[s2])
	if s.q[i1] != s.q[i2] {
		return s.q[i1] - s.q[i2]
	}
	return s.b[i1] - s.b[i2]
}

func (s *State) resetTarget() {
	if s.blocks == 0 {
		s.target = NoTarget
		return
	}
	s.target = 0
	for st := 1; st < s.stacks; st++ {
		if s.compare(st, s.target) < 0 {
			s.target = st
		}
	}
}

// Relocate moves the top block of src onto dst at the given time. The caller
// guarantees that src is non-empty, dst differs from src and dst has room.
func (s *State) Relocate(src, dst, time int) {
	top := s.at(src, s.h[src])
	p := s.p[top]

	if s.b[top] > 0 {
		s.bad--
	}
	s.h[src]--
	s.lastChange[src] = time
	s.kind[src] = ChangeMoveOut
	s.lastOut[src] = time

	s.h[dst]++
	s.place(dst, s.h[dst], p, time)
	if s.b[s.at(dst, s.h[dst])] > 0 {
		s.bad++
	}
	s.lastChange[dst] = time
	s.kind[dst] = ChangeMoveIn
	s.lastIn[dst] = time

	s.resetTarget()
}

// Retrieve removes the target block at the given time. The caller checks
// [State.Retrievable] first.
func (s *State) Retrieve(time int) {
	s.blocks--
	s.h[s.target]--
	s.lastChange[s.target] = time
	s.kind[s.target] = ChangeRetrieve
	s.resetTarget()
}

// Retrievable reports whether blocks remain and the target block is exposed.
func (s *State) Retrievable() bool {
	return s.blocks > 0 && s.b[s.at(s.target, s.h[s.target])] == 0
}

// RetrieveAll applies every forced retrieval at the given time and returns
// how many blocks left the bay.
func (s *State) RetrieveAll(time int) int {
	n := 0
	for s.Retrievable() {
		s.Retrieve(time)
		n++
	}
	return n
}
