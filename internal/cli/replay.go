package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relocator/pkg/bay"
)

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var plain, noCache bool

	cmd := &cobra.Command{
		Use:   "replay [instance] [solution]",
		Short: "Step through a relocation sequence",
		Long: `Replay shows the bay after every relocation and the retrievals it enables.
Without a solution file the instance is solved first.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			solution := ""
			if len(args) == 2 {
				solution = args[1]
			}
			return c.runReplay(cmd.Context(), args[0], solution, plain, noCache)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print every step instead of the interactive viewer")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache when solving")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, instPath, solPath string, plain, noCache bool) error {
	inst, err := loadInstance(instPath)
	if err != nil {
		return err
	}
	name := instanceName(instPath)

	var moves []bay.Move
	if solPath != "" {
		if moves, err = readMoves(solPath); err != nil {
			return err
		}
	} else {
		runner, err := c.newRunner(ctx, noCache)
		if err != nil {
			return err
		}
		defer runner.Cache.Close()
		res, err := c.solveWithFeedback(ctx, runner, name, inst, c.solveOptions(solveOpts{}))
		if err != nil {
			return err
		}
		moves = res.Report.Solution
	}

	frames, err := buildFrames(inst, moves)
	if err != nil {
		return err
	}

	if plain {
		for i, f := range frames {
			fmt.Println(StyleDim.Render(fmt.Sprintf("step %d/%d", i, len(frames)-1)))
			fmt.Println(renderFrame(inst.Tiers, f))
		}
		return nil
	}

	_, err = tea.NewProgram(NewReplayModel(name, inst.Tiers, frames), tea.WithContext(ctx)).Run()
	return err
}
