package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/relocator/pkg/bay"
)

// WriteText encodes inst in the text format, header on the first line and
// one stack per line. The output is accepted by [ReadText].
func WriteText(w io.Writer, inst *bay.Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", inst.NumStacks(), inst.Tiers, inst.NumBlocks())
	for _, col := range inst.Stacks {
		fmt.Fprintf(bw, "%d", len(col))
		for _, p := range col {
			fmt.Fprintf(bw, " %d", p)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write instance: %w", err)
	}
	return nil
}

// ExportText writes inst to a text file at path.
func ExportText(inst *bay.Instance, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteText(f, inst)
}

// WriteJSON encodes inst as indented JSON.
func WriteJSON(w io.Writer, inst *bay.Instance) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(instanceJSON{Tiers: inst.Tiers, Stacks: inst.Stacks}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayout draws inst tier by tier from the top, each slot as a bracketed
// three-digit priority or blank, followed by a rule and the stack indices.
func WriteLayout(w io.Writer, inst *bay.Instance) error {
	var b strings.Builder
	n := inst.NumStacks()
	for t := inst.Tiers; t >= 1; t-- {
		for s := range n {
			if inst.Height(s) < t {
				b.WriteString("[   ]")
			} else {
				fmt.Fprintf(&b, "[%3d]", inst.Priority(s, t))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("-----", n))
	b.WriteByte('\n')
	for s := range n {
		fmt.Fprintf(&b, " %3d ", s)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatMoves renders moves as "[p: s -> d, ...]", or "?" when the
// instance has no feasible sequence.
func FormatMoves(moves []bay.Move, feasible bool) string {
	if !feasible {
		return "?"
	}
	return bay.Moves(moves).String()
}
