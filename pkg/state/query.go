package state

// Stacks returns the number of stacks.
func (s *State) Stacks() int { return s.stacks }

// Tiers returns the capacity of every stack.
func (s *State) Tiers() int { return s.tiers }

// Blocks returns the number of blocks not yet retrieved.
func (s *State) Blocks() int { return s.blocks }

// BadCount returns the number of badly placed blocks in the bay.
func (s *State) BadCount() int { return s.bad }

// Target returns the stack holding the next block to retrieve, or NoTarget.
func (s *State) Target() int { return s.target }

// Height returns the number of blocks in stack st.
func (s *State) Height(st int) int { return s.h[st] }

// Full reports whether stack st has no spare tier.
func (s *State) Full(st int) bool { return s.h[st] == s.tiers }

// Empty reports whether stack st holds no block.
func (s *State) Empty(st int) bool { return s.h[st] == 0 }

// Prio returns the priority in slot (st, t). Tier 0 yields the ground sentinel.
func (s *State) Prio(st, t int) int { return s.p[s.at(st, t)] }

// Quality returns the smallest priority in stack st at or below tier t.
func (s *State) Quality(st, t int) int { return s.q[s.at(st, t)] }

// Badness returns the length of the badly placed run ending at (st, t).
func (s *State) Badness(st, t int) int { return s.b[s.at(st, t)] }

// Placed returns the relocation time at which the block in (st, t) arrived.
func (s *State) Placed(st, t int) int { return s.l[s.at(st, t)] }

// Top returns the priority on top of stack st (the ground sentinel if empty).
func (s *State) Top(st int) int { return s.p[s.at(st, s.h[st])] }

// TopQuality returns the quality of the top slot of stack st.
func (s *State) TopQuality(st int) int { return s.q[s.at(st, s.h[st])] }

// TopBadness returns the badness of the top slot of stack st.
func (s *State) TopBadness(st int) int { return s.b[s.at(st, s.h[st])] }

// TopPlaced returns the placement time of the top block of stack st.
func (s *State) TopPlaced(st int) int { return s.l[s.at(st, s.h[st])] }

// LastChange returns the time stack st last changed.
func (s *State) LastChange(st int) int { return s.lastChange[st] }

// LastChangeKind returns how stack st last changed.
func (s *State) LastChangeKind(st int) Change { return s.kind[st] }

// LastMoveOut returns the last time stack st was the source of a relocation.
func (s *State) LastMoveOut(st int) int { return s.lastOut[st] }

// LastMoveIn returns the last time stack st was the destination of a relocation.
func (s *State) LastMoveIn(st int) int { return s.lastIn[st] }

// Ground returns the sentinel priority of the ground slots.
func (s *State) Ground() int { return s.p[0] }

// MinPriority returns the priority of the next block to retrieve, or the
// ground sentinel when the bay is empty.
func (s *State) MinPriority() int {
	if s.target == NoTarget {
		return s.Ground()
	}
	return s.TopQuality(s.target)
}
