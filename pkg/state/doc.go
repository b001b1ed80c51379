// Package state holds the mutable search state of a Block Relocation Problem
// solve: the current stack contents plus the bookkeeping that the lower bound
// and the dominance rules of the solver read.
//
// # Grids
//
// For each slot (stack s, tier t) a [State] stores
//
//   - the priority of the block there,
//   - its quality: the smallest priority at or below t in stack s,
//   - its badness: the length of the run of badly placed blocks ending at t,
//   - its placement time: the relocation index that put the block there
//     (0 for blocks that have not moved).
//
// A block is badly placed when its priority exceeds the quality beneath it,
// i.e. it sits on top of a more urgent block. Tier 0 is a ground slot whose
// priority and quality are one above the largest priority of the instance, so
// an empty stack accepts any block as well placed.
//
// The four grids live in one flat buffer, row-major by stack, which makes
// [State.Clone] a single allocation and copy.
//
// # Bookkeeping
//
// Every stack remembers when it last changed and how ([Change]), and
// separately when it last lost a block to a relocation and when it last
// received one. Times are relocation indices: the k-th relocation of a plan
// happens at time k, and the retrievals it enables share that time.
//
// # Target
//
// The target stack holds the next block to retrieve. Stacks are compared by
// the quality of their top slot, ties broken by the top slot's badness, and
// the leftmost minimum wins. With duplicate priorities this picks the stack
// where that priority is least buried, which keeps the retrieval order
// deterministic.
package state
