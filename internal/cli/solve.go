package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relocator/pkg/bay"
	instio "github.com/matzehuels/relocator/pkg/io"
	"github.com/matzehuels/relocator/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	timeLimit  time.Duration // overrides solver.time_limit_seconds
	timerCycle int64         // overrides solver.timer_cycle
	noCache    bool          // bypass the report cache entirely
	refresh    bool          // ignore cached reports but store the new one
	jsonOut    bool          // print the report as JSON instead of a summary
	layout     bool          // print the bay before solving
	output     string        // write the report JSON to this file
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Compute a minimum relocation sequence for an instance",
		Long: `Solve reads an instance and prints a relocation sequence of minimum length.

Files ending in .json use the JSON format {"tiers": n, "stacks": [[...], ...]};
all other files, and "-" for stdin, use the text format:

  <stacks> <tiers> <blocks>
  <height> <priority> ... <priority>   (one line per stack, bottom to top)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().DurationVarP(&opts.timeLimit, "time-limit", "t", 0, "search time limit (default from config, 30m)")
	cmd.Flags().Int64Var(&opts.timerCycle, "timer-cycle", 0, "node expansions between clock checks")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached report exists")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.layout, "layout", false, "print the bay layout")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report JSON to a file")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, path string, opts solveOpts) error {
	inst, err := loadInstance(path)
	if err != nil {
		return err
	}
	name := instanceName(path)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	if opts.layout && !opts.jsonOut {
		if err := instio.WriteLayout(os.Stdout, inst); err != nil {
			return err
		}
		fmt.Println()
	}

	res, err := c.solveWithFeedback(ctx, runner, name, inst, c.solveOptions(opts))
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := writeReport(opts.output, res); err != nil {
			return err
		}
	}
	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}

	printReport(name, res)
	fmt.Println()
	fmt.Println(instio.FormatMoves(res.Report.Solution, true))
	if opts.output != "" {
		printFile(opts.output)
		printNextStep("Step through it", fmt.Sprintf("%s replay %s %s", appName, path, opts.output))
	}
	return nil
}

// solveOptions merges flags over the configuration.
func (c *CLI) solveOptions(opts solveOpts) pipeline.Options {
	po := pipeline.Options{
		TimeLimit:  c.Config.TimeLimit(),
		TimerCycle: c.Config.Solver.TimerCycle,
		Refresh:    opts.refresh,
	}
	if opts.timeLimit != 0 {
		po.TimeLimit = opts.timeLimit
	}
	if opts.timerCycle != 0 {
		po.TimerCycle = opts.timerCycle
	}
	return po
}

// solveWithFeedback runs one solve with a spinner, or with progress logging
// when verbose.
func (c *CLI) solveWithFeedback(ctx context.Context, runner *pipeline.Runner, name string, inst *bay.Instance, opts pipeline.Options) (*pipeline.Result, error) {
	var spinner *Spinner
	if !c.verbose() {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", name))
		spinner.Start()
	}
	opts.Progress = newSearchReporter(c.Logger, spinner, name).onProgress
	res, err := runner.Solve(ctx, inst, opts)

	switch {
	case spinner == nil:
	case err != nil && !spinner.Cancelled():
		spinner.StopWithError(fmt.Sprintf("Solving %s failed", name))
	default:
		spinner.Stop()
	}
	return res, err
}

// writeReport stores the report of res as indented JSON.
func writeReport(path string, res *pipeline.Result) error {
	data, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
