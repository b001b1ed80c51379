// Package bay defines the problem data of the Block Relocation Problem.
//
// A bay is a row of stacks, each holding up to [Instance.Tiers] blocks. Every
// block carries a priority; blocks are retrieved in ascending priority order
// and a block can only leave the bay when it is on top of its stack. Blocks
// sitting on top of a more urgent block must first be relocated to another
// stack, and the goal of a solver is to minimize those relocations.
//
// # Instances
//
// [Instance] is immutable once built with [New]. Stacks are listed bottom to
// top; stack indices start at 0 and tiers at 1:
//
//	inst, err := bay.New(3, [][]int{
//	    {2, 1}, // stack 0: priority 2 at the bottom, 1 on top
//	    {3},    // stack 1
//	    {},     // stack 2 is empty
//	})
//
// Several blocks may share a priority; any of them may be retrieved once the
// smaller priorities are gone.
//
// # Moves
//
// [Move] records one relocation: the block's priority, the source stack and the
// destination stack. A solution is a []Move; retrievals are implicit because
// they are forced and cost nothing.
package bay
