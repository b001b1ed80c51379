package bay

import (
	"github.com/matzehuels/relocator/pkg/errors"
)

// MaxTiers bounds the tier capacity accepted by [New]. It keeps the per-state
// grids small; real yards stack far lower.
const MaxTiers = 64

// MaxStacks bounds the number of stacks accepted by [New]. Every search node
// clones grids of MaxStacks*(MaxTiers+1) slots at most.
const MaxStacks = 256

// Instance is an immutable Block Relocation Problem instance.
type Instance struct {
	// Tiers is the capacity of every stack.
	Tiers int
	// Stacks holds the priorities of each stack from bottom to top.
	Stacks [][]int
}

// New builds a validated instance. The stacks are copied, so the caller may
// reuse its slices.
func New(tiers int, stacks [][]int) (*Instance, error) {
	inst := &Instance{Tiers: tiers, Stacks: make([][]int, len(stacks))}
	for s, col := range stacks {
		inst.Stacks[s] = append([]int(nil), col...)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate reports structural problems: no stacks, a tier count out of range,
// an overfull stack, or a priority below 1.
func (in *Instance) Validate() error {
	if err := errors.ValidateDimension("stacks", len(in.Stacks), 1, MaxStacks); err != nil {
		return err
	}
	if err := errors.ValidateDimension("tiers", in.Tiers, 1, MaxTiers); err != nil {
		return err
	}
	for s, col := range in.Stacks {
		if len(col) > in.Tiers {
			return errors.New(errors.ErrCodeInvalidInstance,
				"stack %d holds %d blocks but only %d tiers are available", s, len(col), in.Tiers)
		}
		for t, p := range col {
			if p < 1 {
				return errors.New(errors.ErrCodeInvalidInstance,
					"stack %d tier %d: priority must be positive, got %d", s, t+1, p)
			}
		}
	}
	return nil
}

// NumStacks returns the number of stacks.
func (in *Instance) NumStacks() int { return len(in.Stacks) }

// Height returns the number of blocks initially in stack s.
func (in *Instance) Height(s int) int { return len(in.Stacks[s]) }

// Priority returns the priority at stack s, tier t (1-based from the bottom).
func (in *Instance) Priority(s, t int) int { return in.Stacks[s][t-1] }

// NumBlocks returns the total number of blocks.
func (in *Instance) NumBlocks() int {
	n := 0
	for _, col := range in.Stacks {
		n += len(col)
	}
	return n
}

// MaxPriority returns the largest priority present, or 0 for an empty bay.
func (in *Instance) MaxPriority() int {
	m := 0
	for _, col := range in.Stacks {
		for _, p := range col {
			m = max(m, p)
		}
	}
	return m
}
