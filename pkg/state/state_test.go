package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/relocator/pkg/bay"
)

func mustInstance(t *testing.T, tiers int, stacks ...[]int) *bay.Instance {
	t.Helper()
	inst, err := bay.New(tiers, stacks)
	require.NoError(t, err)
	return inst
}

// checkInvariants recomputes quality, badness and the bad counter from the
// priority grid and compares them with the incremental values.
func checkInvariants(t *testing.T, s *State) {
	t.Helper()
	bad := 0
	for st := 0; st < s.Stacks(); st++ {
		require.GreaterOrEqual(t, s.Height(st), 0)
		require.LessOrEqual(t, s.Height(st), s.Tiers())
		q, run := s.Ground(), 0
		for tier := 1; tier <= s.Height(st); tier++ {
			p := s.Prio(st, tier)
			if p <= q {
				q, run = p, 0
			} else {
				run++
				bad++
			}
			assert.Equal(t, q, s.Quality(st, tier), "quality at (%d,%d)", st, tier)
			assert.Equal(t, run, s.Badness(st, tier), "badness at (%d,%d)", st, tier)
		}
	}
	assert.Equal(t, bad, s.BadCount(), "bad counter")
}

func TestNew(t *testing.T) {
	s := New(mustInstance(t, 3, []int{3, 1, 4}, []int{2}, nil))

	require.Equal(t, 3, s.Stacks())
	require.Equal(t, 3, s.Tiers())
	require.Equal(t, 4, s.Blocks())
	require.Equal(t, 5, s.Ground())

	// 4 sits on 1: badly placed. 1 sits on 3: well placed.
	assert.Equal(t, 0, s.Badness(0, 2))
	assert.Equal(t, 1, s.Badness(0, 3))
	assert.Equal(t, 1, s.Quality(0, 3))
	assert.Equal(t, 1, s.BadCount())

	// Stack 0 holds priority 1 under one blocker.
	assert.Equal(t, 0, s.Target())
	assert.False(t, s.Retrievable())
	assert.Equal(t, 1, s.MinPriority())

	for st := 0; st < s.Stacks(); st++ {
		assert.Equal(t, ChangeNone, s.LastChangeKind(st))
		assert.Equal(t, 0, s.LastChange(st))
	}
	checkInvariants(t, s)
}

func TestRelocate(t *testing.T) {
	s := New(mustInstance(t, 3, []int{3, 1, 4}, []int{2}, nil))

	s.Relocate(0, 2, 1)
	checkInvariants(t, s)

	assert.Equal(t, 2, s.Height(0))
	assert.Equal(t, 1, s.Height(2))
	assert.Equal(t, 4, s.Top(2))
	assert.Equal(t, 1, s.TopPlaced(2))
	assert.Equal(t, 0, s.BadCount())

	assert.Equal(t, ChangeMoveOut, s.LastChangeKind(0))
	assert.Equal(t, 1, s.LastMoveOut(0))
	assert.Equal(t, ChangeMoveIn, s.LastChangeKind(2))
	assert.Equal(t, 1, s.LastMoveIn(2))
	assert.Equal(t, 0, s.LastMoveIn(0))

	require.True(t, s.Retrievable())
	assert.Equal(t, 0, s.Target())
}

func TestRetrieve(t *testing.T) {
	s := New(mustInstance(t, 2, []int{2, 1}, []int{3}))

	var order []int
	for s.Retrievable() {
		order = append(order, s.Top(s.Target()))
		s.Retrieve(0)
		checkInvariants(t, s)
	}

	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, s.Blocks())
	assert.Equal(t, NoTarget, s.Target())
	assert.False(t, s.Retrievable())
	assert.Equal(t, ChangeRetrieve, s.LastChangeKind(0))
}

func TestRetrieveAll(t *testing.T) {
	s := New(mustInstance(t, 2, []int{1, 2}, nil))
	assert.Equal(t, 0, s.RetrieveAll(0))

	s.Relocate(0, 1, 1)
	assert.Equal(t, 2, s.RetrieveAll(1))
	assert.Equal(t, 0, s.Blocks())
}

func TestTargetTieBreak(t *testing.T) {
	// Both stacks hold priority 1; stack 1 has it exposed, stack 0 buried.
	s := New(mustInstance(t, 3, []int{1, 5}, []int{1}))
	assert.Equal(t, 1, s.Target(), "least buried copy wins")
	assert.True(t, s.Retrievable())

	// Leftmost wins among identical tops.
	s = New(mustInstance(t, 3, []int{2}, []int{2}))
	assert.Equal(t, 0, s.Target())
}

func TestTargetAfterRelocation(t *testing.T) {
	// Burying the exposed copy of 1 must move the target to the other copy.
	s := New(mustInstance(t, 3, []int{1, 5}, []int{1}, []int{3}))
	require.Equal(t, 1, s.Target())

	s.Relocate(2, 1, 1)
	checkInvariants(t, s)
	assert.Equal(t, 0, s.Target())
	assert.Equal(t, 1, s.TopBadness(0))
}

func TestClone(t *testing.T) {
	s := New(mustInstance(t, 3, []int{3, 1, 4}, []int{2}, nil))
	c := s.Clone()

	c.Relocate(0, 2, 1)

	assert.Equal(t, 3, s.Height(0), "original untouched")
	assert.Equal(t, 0, s.Height(2))
	assert.Equal(t, 1, s.BadCount())
	assert.Equal(t, ChangeNone, s.LastChangeKind(2))
	checkInvariants(t, s)
	checkInvariants(t, c)

	// Clones of clones stay independent too.
	cc := c.Clone()
	assert.Equal(t, 4, cc.RetrieveAll(1))
	assert.Equal(t, 0, cc.Blocks())
	assert.Equal(t, 4, c.Blocks())
	assert.Equal(t, 2, c.Height(0))
	checkInvariants(t, c)
}

func TestEmptyBay(t *testing.T) {
	s := New(mustInstance(t, 2, nil, nil))
	assert.Equal(t, NoTarget, s.Target())
	assert.False(t, s.Retrievable())
	assert.Equal(t, s.Ground(), s.MinPriority())
	assert.Equal(t, 0, s.BadCount())
}

func TestChangeString(t *testing.T) {
	tests := []struct {
		c    Change
		want string
	}{
		{ChangeNone, "none"},
		{ChangeMoveOut, "move-out"},
		{ChangeMoveIn, "move-in"},
		{ChangeRetrieve, "retrieve"},
		{Change(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Change(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
