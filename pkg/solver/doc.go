// Package solver finds relocation sequences of minimum length for the Block
// Relocation Problem.
//
// [Solver.Solve] runs an iterative deepening branch-and-bound. The root lower
// bound comes from [bound.LBTS] and the initial incumbent from the better of
// the two constructive heuristics in package heuristic. Each deepening pass
// searches for a solution of exactly the current lower bound; a failed pass
// proves the bound can be raised by one. The search stops when the bounds
// meet or the time limit runs out, in which case the report carries the best
// solution found and the proven lower bound.
//
// Inside a pass, branches are filtered by move-dominance rules that discard
// relocation sequences equivalent to, or no better than, one that is
// enumerated elsewhere in the tree:
//
//	TA, TB   two relocations of the same block can be merged
//	TC       a stack further left could have served as the transit stack
//	IB       an independent relocation to the right must come first
//	EA       only the leftmost empty stack is used as a destination
//	SA, SB   relocations of equal priorities can be merged
//	SC, SD   relocations of equal priorities are taken in canonical order
//	RA       a relocation that is undone by retrieval can be left out
//	RB       a stack further left could have received the retrieved block
//
// Nodes that fall one relocation short of the pass bound are probed with
// both heuristics, which often tightens the incumbent early.
//
// Use [Replay] to check a move list against an instance.
package solver
