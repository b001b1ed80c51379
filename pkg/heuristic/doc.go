// Package heuristic builds feasible relocation sequences quickly. The solver
// uses them for its initial upper bound and to probe nodes that sit just below
// the current pass bound.
//
// Both heuristics follow the same loop: apply the forced retrievals, then
// relocate the top block of the target stack and repeat until the bay is
// empty. They differ only in how the destination stack is chosen:
//
//   - [TightFit] prefers a stack where the block lands well placed, taking
//     the one whose top quality is closest above the block.
//   - [MinBadness] minimizes the badness the block gets at its destination.
//
// Every step also checks the LB-TS bound against the caller's budget, so a
// run that cannot beat the budget stops early and reports [Infeasible].
package heuristic
