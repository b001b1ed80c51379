package cli

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/solver"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var expect int

	cmd := &cobra.Command{
		Use:   "verify [instance] [solution]",
		Short: "Check that a relocation sequence empties the bay",
		Long: `Verify replays a relocation sequence against an instance and reports
the number of relocations, or the first illegal move.

The solution file is either a JSON report written by "solve -o", a JSON array
of {"priority","source","dest"} objects, or text with one "p: s -> d" move
per line.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(cmd.Context(), args[0], args[1], expect)
		},
	}

	cmd.Flags().IntVar(&expect, "expect", -1, "fail unless the sequence has exactly this many relocations")

	return cmd
}

func (c *CLI) runVerify(_ context.Context, instPath, solPath string, expect int) error {
	inst, err := loadInstance(instPath)
	if err != nil {
		return err
	}
	moves, err := readMoves(solPath)
	if err != nil {
		return err
	}

	n, err := solver.Replay(inst, moves)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	if expect >= 0 && n != expect {
		printWarning("sequence has %d relocations, expected %d", n, expect)
		return errors.New(errors.ErrCodeInvalidInput, "expected %d relocations, got %d", expect, n)
	}
	printSuccess("Valid: %d relocations empty %s", n, instanceName(instPath))
	return nil
}

// readMoves loads a relocation sequence from path.
func readMoves(path string) ([]bay.Move, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "solution %s", path)
		}
		return nil, err
	}
	return parseMoves(data)
}

var moveLine = regexp.MustCompile(`^\s*\(?\s*(\d+)\s*:\s*(\d+)\s*->\s*(\d+)\s*\)?\s*,?\s*$`)

// parseMoves decodes a relocation sequence in any of the formats accepted by
// the verify command.
func parseMoves(data []byte) ([]bay.Move, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && gjson.ValidBytes(trimmed) {
		return parseJSONMoves(trimmed)
	}

	var moves []bay.Move
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if len(bytes.TrimSpace([]byte(text))) == 0 {
			continue
		}
		m := moveLine.FindStringSubmatch(text)
		if m == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: %q is not a move (want \"p: s -> d\")", line, text)
		}
		p, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		moves = append(moves, bay.Move{Priority: p, Source: s, Dest: d})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read moves")
	}
	return moves, nil
}

func parseJSONMoves(data []byte) ([]bay.Move, error) {
	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("solution")
	}
	if !list.IsArray() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "expected a move array or a report with a solution field")
	}

	var moves []bay.Move
	var bad error
	list.ForEach(func(_, v gjson.Result) bool {
		p, s, d := v.Get("priority"), v.Get("source"), v.Get("dest")
		if !p.Exists() || !s.Exists() || !d.Exists() {
			bad = errors.New(errors.ErrCodeInvalidFormat, "move %d: need priority, source and dest", len(moves))
			return false
		}
		moves = append(moves, bay.Move{Priority: int(p.Int()), Source: int(s.Int()), Dest: int(d.Int())})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return moves, nil
}
