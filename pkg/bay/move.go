package bay

import (
	"fmt"
	"strings"
)

// Move is one relocation: the block with Priority leaves the top of Source
// and is placed on top of Dest.
type Move struct {
	Priority int `json:"priority"`
	Source   int `json:"source"`
	Dest     int `json:"dest"`
}

// String renders the move as "p: s -> d".
func (m Move) String() string {
	return fmt.Sprintf("%d: %d -> %d", m.Priority, m.Source, m.Dest)
}

// Moves is a relocation sequence.
type Moves []Move

// String renders the sequence as "[p: s -> d, p: s -> d]".
func (ms Moves) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, m := range ms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	b.WriteByte(']')
	return b.String()
}
