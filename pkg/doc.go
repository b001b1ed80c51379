// Package pkg provides the core libraries for Relocator, an exact solver for
// the Block Relocation Problem.
//
// # Overview
//
// A bay is a row of stacks holding prioritized blocks. Blocks leave the bay in
// priority order and only from the top of a stack, so blocks resting on a
// smaller priority have to be relocated first. Relocator finds a retrieval
// plan with the minimum number of relocations, or reports the best bounds it
// proved before its time limit ran out.
//
// The packages are organized into three areas:
//
//  1. Model - [bay], [state] and [io] describe instances and search states
//  2. Search - [bound], [heuristic] and [solver] compute bounds and plans
//  3. Infrastructure - [pipeline], [cache], [api] and [observability]
//
// # Architecture
//
// The typical data flow through Relocator:
//
//	Text or JSON instance
//	         ↓
//	    [io] package (decode and validate)
//	         ↓
//	    [pipeline] package (cache lookup)
//	         ↓
//	    [solver] package (iterative deepening branch and bound)
//	         ↓
//	    Report with bounds and a relocation sequence
//
// # Quick Start
//
//	inst, _ := io.ImportText("bay.txt")
//	rep, _ := solver.New(solver.Options{TimeLimit: time.Minute}).Solve(ctx, inst)
//	if rep.Optimal() {
//	    fmt.Println(rep.BestUB, bay.Moves(rep.Solution))
//	}
//
// # Main Packages
//
// [bay] - Instances and moves. An instance is a tier limit plus stacks listed
// bottom to top.
//
// [state] - The mutable search state with per-block quality, badness and
// placement times used by the dominance rules.
//
// [bound] - The LB-TS lower bound on the relocations still required.
//
// [heuristic] - Upper bound heuristics probed from search nodes.
//
// [solver] - Branch and bound with dominance and retrieval rules, plus
// [solver.Replay] for checking a relocation sequence.
//
// [io] - Text and JSON codecs for instances and move lists.
//
// [pipeline] - Cached solves shared by the CLI and the HTTP API.
//
// [cache] - File, Badger and Redis report caches.
//
// [api] - HTTP and AWS Lambda front ends.
//
// [observability] - Hooks for metrics, with a Prometheus implementation.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/solver/...             # Specific package
//	go test -run Example                 # Examples only
//
// [bay]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/bay
// [state]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/state
// [io]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/io
// [bound]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/bound
// [heuristic]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/heuristic
// [solver]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/solver
// [solver.Replay]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/solver#Replay
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/relocator/pkg/observability
package pkg
