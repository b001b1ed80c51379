package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/relocator/pkg/bay"
	instio "github.com/matzehuels/relocator/pkg/io"
	"github.com/matzehuels/relocator/pkg/solver"
)

// Replay styles
var (
	replayBayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	replayMoveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	replayDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Frames
// =============================================================================

// replayFrame is the bay after one relocation and the retrievals it enabled.
type replayFrame struct {
	stacks    [][]int
	move      *bay.Move // nil for the initial frame
	retrieved []int
}

// buildFrames checks moves against inst and returns one frame per step,
// starting with the bay after the initial retrievals.
func buildFrames(inst *bay.Instance, moves []bay.Move) ([]replayFrame, error) {
	if _, err := solver.Replay(inst, moves); err != nil {
		return nil, err
	}

	stacks := cloneStacks(inst.Stacks)
	frames := make([]replayFrame, 0, len(moves)+1)
	retrieved := retrieveReady(stacks)
	frames = append(frames, replayFrame{stacks: cloneStacks(stacks), retrieved: retrieved})

	for i := range moves {
		m := moves[i]
		src := stacks[m.Source]
		stacks[m.Dest] = append(stacks[m.Dest], src[len(src)-1])
		stacks[m.Source] = src[:len(src)-1]
		retrieved := retrieveReady(stacks)
		frames = append(frames, replayFrame{stacks: cloneStacks(stacks), move: &m, retrieved: retrieved})
	}
	return frames, nil
}

// retrieveReady removes blocks in priority order while the lowest remaining
// priority sits on top of a stack, and returns them.
func retrieveReady(stacks [][]int) []int {
	var out []int
	for {
		lowest, found := 0, false
		for _, st := range stacks {
			for _, p := range st {
				if !found || p < lowest {
					lowest, found = p, true
				}
			}
		}
		if !found {
			return out
		}
		s := slices.IndexFunc(stacks, func(st []int) bool {
			return len(st) > 0 && st[len(st)-1] == lowest
		})
		if s < 0 {
			return out
		}
		stacks[s] = stacks[s][:len(stacks[s])-1]
		out = append(out, lowest)
	}
}

func cloneStacks(stacks [][]int) [][]int {
	out := make([][]int, len(stacks))
	for i, st := range stacks {
		out[i] = slices.Clone(st)
	}
	return out
}

// =============================================================================
// ReplayModel - Interactive step-through of a relocation sequence
// =============================================================================

// ReplayModel is the bubbletea model for stepping through a solution.
type ReplayModel struct {
	Name   string
	Tiers  int
	Frames []replayFrame
	Cursor int
}

// NewReplayModel creates a replay model positioned at the first frame.
func NewReplayModel(name string, tiers int, frames []replayFrame) ReplayModel {
	return ReplayModel{Name: name, Tiers: tiers, Frames: frames}
}

func (m ReplayModel) Init() tea.Cmd {
	return nil
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "p":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l", "n", " ":
			if m.Cursor < len(m.Frames)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Frames) - 1
		}
	}
	return m, nil
}

func (m ReplayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Replay " + m.Name))
	b.WriteString(replayDimStyle.Render(fmt.Sprintf("  step %d/%d", m.Cursor, len(m.Frames)-1)))
	b.WriteString("\n")
	b.WriteString(replayDimStyle.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderFrame(m.Tiers, m.Frames[m.Cursor]))
	return b.String()
}

// renderFrame draws the bay of f with the move and retrievals below it.
func renderFrame(tiers int, f replayFrame) string {
	var layout strings.Builder
	_ = instio.WriteLayout(&layout, &bay.Instance{Tiers: tiers, Stacks: f.stacks})

	var b strings.Builder
	b.WriteString(replayBayStyle.Render(strings.TrimRight(layout.String(), "\n")))
	b.WriteString("\n")
	if f.move != nil {
		b.WriteString("Move      " + replayMoveStyle.Render(f.move.String()) + "\n")
	} else {
		b.WriteString("Move      " + replayDimStyle.Render("(initial bay)") + "\n")
	}
	retrieved := replayDimStyle.Render("none")
	if len(f.retrieved) > 0 {
		parts := make([]string, len(f.retrieved))
		for i, p := range f.retrieved {
			parts[i] = fmt.Sprint(p)
		}
		retrieved = StyleSuccess.Render(strings.Join(parts, ", "))
	}
	b.WriteString("Retrieved " + retrieved + "\n")
	return b.String()
}
