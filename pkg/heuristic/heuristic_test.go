package heuristic_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/relocator/internal/brute"
	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/heuristic"
	"github.com/matzehuels/relocator/pkg/state"
)

func newState(t *testing.T, tiers int, stacks ...[]int) (*bay.Instance, *state.State) {
	t.Helper()
	inst, err := bay.New(tiers, stacks)
	require.NoError(t, err)
	s := state.New(inst)
	s.RetrieveAll(0)
	return inst, s
}

// replay applies moves to a fresh state of inst and reports whether every
// move was legal and the bay ended empty.
func replay(inst *bay.Instance, moves []bay.Move) bool {
	s := state.New(inst)
	s.RetrieveAll(0)
	for i, m := range moves {
		if m.Source < 0 || m.Source >= s.Stacks() || m.Dest < 0 || m.Dest >= s.Stacks() {
			return false
		}
		if m.Source == m.Dest || s.Empty(m.Source) || s.Full(m.Dest) || s.Top(m.Source) != m.Priority {
			return false
		}
		s.Relocate(m.Source, m.Dest, i+1)
		s.RetrieveAll(i + 1)
	}
	return s.Blocks() == 0
}

func TestSingleBlocker(t *testing.T) {
	for _, h := range heuristic.All {
		t.Run(h.Name, func(t *testing.T) {
			_, s := newState(t, 2, []int{1, 2}, nil)
			moves, n := h.Func(s, nil, 0, math.MaxInt)
			require.Equal(t, 1, n)
			assert.Equal(t, []bay.Move{{Priority: 2, Source: 0, Dest: 1}}, moves)
		})
	}
}

func TestNothingToRelocate(t *testing.T) {
	for _, h := range heuristic.All {
		t.Run(h.Name, func(t *testing.T) {
			_, s := newState(t, 2, []int{2, 1}, []int{3})
			moves, n := h.Func(s, nil, 0, 0)
			assert.Equal(t, 0, n)
			assert.Empty(t, moves)
		})
	}
}

func TestDestinationPolicy(t *testing.T) {
	// No stack takes 5 well placed. TightFit goes for the largest top quality
	// (stack 2), MinBadness for the smallest resulting badness (stack 1).
	stacks := [][]int{{1, 5}, {2}, {3, 4}}
	tests := []struct {
		name string
		fn   heuristic.Func
		want bay.Move
	}{
		{"tight-fit", heuristic.TightFit, bay.Move{Priority: 5, Source: 0, Dest: 2}},
		{"min-badness", heuristic.MinBadness, bay.Move{Priority: 5, Source: 0, Dest: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, s := newState(t, 3, stacks...)
			moves, n := tt.fn(s, nil, 0, math.MaxInt)
			require.NotEqual(t, heuristic.Infeasible, n)
			require.NotEmpty(t, moves)
			assert.Equal(t, tt.want, moves[0])
			assert.True(t, replay(inst, moves))
		})
	}
}

func TestTightFitPrefersClosestQuality(t *testing.T) {
	_, s := newState(t, 3, []int{1, 3}, []int{6}, []int{4}, nil)
	moves, _ := heuristic.TightFit(s, nil, 0, math.MaxInt)
	require.NotEmpty(t, moves)
	assert.Equal(t, bay.Move{Priority: 3, Source: 0, Dest: 2}, moves[0])
}

func TestRandomInstancesReplay(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := range 60 {
		stacks := 2 + r.IntN(3)
		tiers := 2 + r.IntN(3)
		inst := brute.RandomInstance(r, stacks, tiers, stacks*tiers)

		var exact int
		if stacks*tiers <= 9 {
			exact = brute.MinRelocations(state.New(inst))
		}
		for _, h := range heuristic.All {
			s := state.New(inst)
			moves, n := h.Func(s, nil, 0, math.MaxInt)
			require.NotEqual(t, heuristic.Infeasible, n, "instance %d %v: %s", i, inst.Stacks, h.Name)
			assert.Len(t, moves, n)
			assert.True(t, replay(inst, moves), "instance %d %v: %s produced %v", i, inst.Stacks, h.Name, moves)
			assert.GreaterOrEqual(t, n, exact)
		}
	}
}

func TestLimit(t *testing.T) {
	inst, err := bay.New(3, [][]int{{1, 5, 4}, {2, 6}, {3}})
	require.NoError(t, err)
	for _, h := range heuristic.All {
		t.Run(h.Name, func(t *testing.T) {
			_, n := h.Func(state.New(inst), nil, 0, math.MaxInt)
			require.Greater(t, n, 0)

			_, got := h.Func(state.New(inst), nil, 0, n)
			assert.Equal(t, n, got)

			_, got = h.Func(state.New(inst), nil, 0, n-1)
			assert.Equal(t, heuristic.Infeasible, got)
		})
	}
}

func TestPrefixIsKept(t *testing.T) {
	_, s := newState(t, 2, []int{1, 2}, nil)
	prefix := []bay.Move{{Priority: 9, Source: 1, Dest: 0}, {Priority: 8, Source: 0, Dest: 1}}
	moves, n := heuristic.MinBadness(s, prefix, len(prefix), math.MaxInt)
	require.Equal(t, 3, n)
	assert.Equal(t, prefix, moves[:2])
	assert.Equal(t, bay.Move{Priority: 2, Source: 0, Dest: 1}, moves[2])
}
