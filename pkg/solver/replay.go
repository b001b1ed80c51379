package solver

import (
	"fmt"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/state"
)

// Replay applies moves to the initial state of inst, performing the forced
// retrievals after each relocation, and returns the number of relocations.
// It fails with [errors.ErrCodeInvalidMove] on the first illegal move and
// with [errors.ErrCodeIncomplete] if blocks remain after the last one.
func Replay(inst *bay.Instance, moves []bay.Move) (int, error) {
	if err := inst.Validate(); err != nil {
		return 0, err
	}
	s := state.New(inst)
	s.RetrieveAll(0)

	for i, m := range moves {
		if reason := checkMove(s, m); reason != "" {
			return i, errors.New(errors.ErrCodeInvalidMove, "move %d (%s): %s", i+1, m, reason)
		}
		s.Relocate(m.Source, m.Dest, i+1)
		s.RetrieveAll(i + 1)
	}

	if s.Blocks() > 0 {
		return len(moves), errors.New(errors.ErrCodeIncomplete,
			"%d blocks remain after %d relocations", s.Blocks(), len(moves))
	}
	return len(moves), nil
}

// checkMove returns why m cannot be applied to s, or "" if it can.
func checkMove(s *state.State, m bay.Move) string {
	n := s.Stacks()
	switch {
	case m.Source < 0 || m.Source >= n:
		return fmt.Sprintf("source stack out of range [0, %d)", n)
	case m.Dest < 0 || m.Dest >= n:
		return fmt.Sprintf("destination stack out of range [0, %d)", n)
	case m.Source == m.Dest:
		return "source and destination are the same stack"
	case s.Blocks() == 0:
		return "bay is already empty"
	case s.Empty(m.Source):
		return fmt.Sprintf("stack %d is empty", m.Source)
	case s.Full(m.Dest):
		return fmt.Sprintf("stack %d is full", m.Dest)
	case s.Top(m.Source) != m.Priority:
		return fmt.Sprintf("stack %d has %d on top", m.Source, s.Top(m.Source))
	}
	return ""
}
