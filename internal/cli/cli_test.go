package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/solver"
)

// runCLI executes the root command with args in isolated config and cache
// directories. Debug logging keeps the spinner off.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogDebug)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// oneBlocker needs exactly one relocation: block 3 sits on block 1.
const oneBlocker = "3 3 3\n2 1 3\n1 2\n0\n"

func TestSolveAndVerify(t *testing.T) {
	inst := writeFile(t, "bay.txt", oneBlocker)
	report := filepath.Join(t.TempDir(), "report.json")

	if err := runCLI(t, "solve", inst, "-o", report); err != nil {
		t.Fatalf("solve: %v", err)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep solver.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.BestUB != 1 || !rep.Optimal() {
		t.Errorf("report = %+v", rep)
	}

	if err := runCLI(t, "verify", inst, report); err != nil {
		t.Errorf("verify: %v", err)
	}
	if err := runCLI(t, "verify", inst, report, "--expect", "2"); err == nil {
		t.Error("verify --expect 2 should fail")
	}
	if err := runCLI(t, "replay", inst, report, "--plain"); err != nil {
		t.Errorf("replay: %v", err)
	}
}

func TestSolveJSONInstance(t *testing.T) {
	inst := writeFile(t, "bay.json", `{"tiers":2,"stacks":[[2,1],[3]]}`)
	if err := runCLI(t, "solve", inst, "--json", "--no-cache"); err != nil {
		t.Fatalf("solve: %v", err)
	}
}

func TestSolveErrors(t *testing.T) {
	if err := runCLI(t, "solve", filepath.Join(t.TempDir(), "absent.txt")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: error = %v", err)
	}
	bad := writeFile(t, "bad.txt", "2 2 3\n1 1\n1 2\n")
	if err := runCLI(t, "solve", bad); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad block count: error = %v", err)
	}
	cfg := writeFile(t, "config.toml", "[cache]\nbackend = \"tape\"\n")
	if err := runCLI(t, "--config", cfg, "solve", bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad config: error = %v", err)
	}
}

func TestVerifyRejectsIllegalMove(t *testing.T) {
	inst := writeFile(t, "bay.txt", oneBlocker)
	moves := writeFile(t, "moves.txt", "1: 0 -> 2\n")
	err := runCLI(t, "verify", inst, moves)
	if !errors.Is(err, errors.ErrCodeInvalidMove) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidMove)
	}
}

func TestBenchRandom(t *testing.T) {
	err := runCLI(t, "bench", "--random", "3", "--stacks", "3", "--tiers", "3", "--blocks", "5", "--workers", "2")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if err := runCLI(t, "bench"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bench without input: error = %v", err)
	}
}

func TestBenchRandomGroups(t *testing.T) {
	err := runCLI(t, "bench", "--random", "2", "--stacks", "3", "--tiers", "3", "--blocks", "6", "--groups", "2")
	if err != nil {
		t.Fatalf("bench --groups: %v", err)
	}
	err = runCLI(t, "bench", "--random", "2", "--groups=-1")
	if !errors.Is(err, errors.ErrCodeInvalidInstance) {
		t.Errorf("negative groups: error = %v, want %s", err, errors.ErrCodeInvalidInstance)
	}
}

func TestCachePath(t *testing.T) {
	if err := runCLI(t, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}

func TestParseMoves(t *testing.T) {
	want := []bay.Move{{Priority: 3, Source: 0, Dest: 2}, {Priority: 5, Source: 1, Dest: 0}}

	tests := []struct {
		name  string
		input string
	}{
		{"text", "3: 0 -> 2\n5: 1 -> 0\n"},
		{"text with blank lines", "\n3: 0 -> 2\n\n  5: 1 -> 0  \n"},
		{"parenthesized", "(3: 0 -> 2),\n(5: 1 -> 0)\n"},
		{"json array", `[{"priority":3,"source":0,"dest":2},{"priority":5,"source":1,"dest":0}]`},
		{"json report", `{"best_ub":2,"solution":[{"priority":3,"source":0,"dest":2},{"priority":5,"source":1,"dest":0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMoves([]byte(tt.input))
			if err != nil {
				t.Fatalf("parseMoves: %v", err)
			}
			if !slices.Equal(got, want) {
				t.Errorf("parseMoves = %v, want %v", got, want)
			}
		})
	}

	for _, bad := range []string{"3 -> 2\n", `{"moves":[]}`, `[{"priority":3}]`} {
		if _, err := parseMoves([]byte(bad)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("parseMoves(%q) error = %v", bad, err)
		}
	}
}

func TestBuildFrames(t *testing.T) {
	inst, err := bay.New(3, [][]int{{1, 3}, {2}, nil})
	if err != nil {
		t.Fatal(err)
	}
	frames, err := buildFrames(inst, []bay.Move{{Priority: 3, Source: 0, Dest: 2}})
	if err != nil {
		t.Fatalf("buildFrames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].move != nil || len(frames[0].retrieved) != 0 {
		t.Errorf("initial frame = %+v", frames[0])
	}
	if !slices.Equal(frames[1].retrieved, []int{1, 2, 3}) {
		t.Errorf("retrieved = %v, want [1 2 3]", frames[1].retrieved)
	}
	for s, st := range frames[1].stacks {
		if len(st) != 0 {
			t.Errorf("stack %d not empty: %v", s, st)
		}
	}

	if _, err := buildFrames(inst, []bay.Move{{Priority: 2, Source: 1, Dest: 0}}); err == nil {
		t.Error("illegal move accepted")
	}
}

func TestReplayModelNavigation(t *testing.T) {
	inst, _ := bay.New(3, [][]int{{1, 3}, {2}, nil})
	frames, err := buildFrames(inst, []bay.Move{{Priority: 3, Source: 0, Dest: 2}})
	if err != nil {
		t.Fatal(err)
	}
	m := NewReplayModel("bay", 3, frames)

	step := func(key string) {
		next, _ := m.Update(keyMsg(key))
		m = next.(ReplayModel)
	}
	step("l")
	step("l")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after stepping past the end, want 1", m.Cursor)
	}
	step("h")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
