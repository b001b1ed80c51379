package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relocator/internal/brute"
	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/pipeline"
)

// benchOpts holds the command-line flags for the bench command.
type benchOpts struct {
	solveOpts
	workers int
	random  int    // number of random instances to generate
	stacks  int    // random instance width
	tiers   int    // random instance height
	blocks  int    // random instance block count
	groups  int    // distinct priorities of random instances, 0 for all distinct
	seed    uint64 // random seed for reproducibility
}

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	opts := benchOpts{stacks: 4, tiers: 4, blocks: 12, seed: 1}

	cmd := &cobra.Command{
		Use:   "bench [files...]",
		Short: "Solve many instances in parallel and tabulate the results",
		Long: `Bench solves instance files, or randomly generated instances with --random,
using several workers, and prints one table row per instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.random == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "give instance files or --random N")
			}
			return c.runBench(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().DurationVarP(&opts.timeLimit, "time-limit", "t", 0, "search time limit per instance")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached reports exist")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent solves (default from config)")
	cmd.Flags().IntVar(&opts.random, "random", 0, "number of random instances to generate")
	cmd.Flags().IntVar(&opts.stacks, "stacks", opts.stacks, "stacks of random instances")
	cmd.Flags().IntVar(&opts.tiers, "tiers", opts.tiers, "tiers of random instances")
	cmd.Flags().IntVar(&opts.blocks, "blocks", opts.blocks, "blocks of random instances")
	cmd.Flags().IntVar(&opts.groups, "groups", 0, "draw random priorities from 1..N so blocks share them (0: all distinct)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "seed for random instances")

	return cmd
}

func (c *CLI) runBench(ctx context.Context, files []string, opts benchOpts) error {
	jobs, err := benchJobs(files, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	workers := opts.workers
	if workers == 0 {
		workers = c.Config.Bench.Workers
	}

	var spinner *Spinner
	if !c.verbose() {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d instances with %d workers...", len(jobs), workers))
		spinner.Start()
	}
	start := time.Now()
	outcomes, err := runner.SolveAll(ctx, jobs, c.solveOptions(opts.solveOpts), workers)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Benchmark aborted")
		}
		return err
	}
	sum := summarize(outcomes, time.Since(start))
	if spinner != nil {
		spinner.StopWithSuccess(sum.String())
	} else {
		logSummary(c.Logger, sum)
	}

	fmt.Println(benchTable(outcomes))
	if sum.failed > 0 {
		printWarning("%d of %d instances failed", sum.failed, sum.instances)
	}
	return nil
}

// benchSummary aggregates the outcomes of one bench run.
type benchSummary struct {
	instances, failed, cached, timedOut int
	nodes                               int64
	elapsed                             time.Duration
}

func summarize(outcomes []pipeline.Outcome, elapsed time.Duration) benchSummary {
	sum := benchSummary{instances: len(outcomes), elapsed: elapsed}
	for _, o := range outcomes {
		if o.Err != nil {
			sum.failed++
			continue
		}
		if o.Result.Cached {
			sum.cached++
		}
		if o.Result.Report.TimedOut {
			sum.timedOut++
		}
		sum.nodes += o.Result.Report.Nodes
	}
	return sum
}

// String is the one-line form shown when the spinner stops.
func (s benchSummary) String() string {
	msg := fmt.Sprintf("Solved %d instances in %s", s.instances-s.failed, formatDuration(s.elapsed))
	if s.timedOut > 0 {
		msg += fmt.Sprintf(", %d hit the time limit", s.timedOut)
	}
	return msg
}

// benchJobs loads files and appends opts.random generated instances.
func benchJobs(files []string, opts benchOpts) ([]pipeline.Job, error) {
	jobs := make([]pipeline.Job, 0, len(files)+opts.random)
	for _, f := range files {
		inst, err := loadInstance(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		jobs = append(jobs, pipeline.Job{Name: instanceName(f), Instance: inst})
	}

	if opts.random > 0 {
		if err := errors.ValidateDimension("stacks", opts.stacks, 2, 0); err != nil {
			return nil, err
		}
		if err := errors.ValidateDimension("tiers", opts.tiers, 1, 0); err != nil {
			return nil, err
		}
		if err := errors.ValidateDimension("blocks", opts.blocks, 1, 0); err != nil {
			return nil, err
		}
		if err := errors.ValidateDimension("groups", opts.groups, 0, 0); err != nil {
			return nil, err
		}
		r := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
		for i := range opts.random {
			var inst *bay.Instance
			if opts.groups > 0 {
				inst = brute.RandomGroupedInstance(r, opts.stacks, opts.tiers, opts.blocks, opts.groups)
			} else {
				inst = brute.RandomInstance(r, opts.stacks, opts.tiers, opts.blocks)
			}
			jobs = append(jobs, pipeline.Job{Name: fmt.Sprintf("random-%03d", i+1), Instance: inst})
		}
	}
	return jobs, nil
}

// benchTable renders one row per outcome.
func benchTable(outcomes []pipeline.Outcome) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			rows[i] = []string{o.Name, "", "", "", "", "", "", errors.UserMessage(o.Err)}
			continue
		}
		rep := o.Result.Report
		status := "optimal"
		if !rep.Optimal() {
			status = fmt.Sprintf("gap %d", rep.Gap())
		}
		if o.Result.Cached {
			status += " (" + iconCached + ")"
		}
		rows[i] = []string{
			o.Name,
			fmt.Sprint(rep.InitLB),
			fmt.Sprint(rep.InitUB),
			fmt.Sprint(rep.BestUB),
			formatCount(rep.Nodes),
			formatCount(rep.Probes),
			formatDuration(rep.TimeUsed),
			status,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Instance", "LB₀", "UB₀", "Relocations", "Nodes", "Probes", "Time", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 7 {
				status := rows[row][col]
				switch {
				case outcomes[row].Err != nil:
					return cell.Foreground(colorRed)
				case strings.HasPrefix(status, "optimal"):
					return cell.Foreground(colorGreen)
				default:
					return cell.Foreground(colorYellow)
				}
			}
			return cell
		})
	return t.Render()
}
