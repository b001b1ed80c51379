package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relocator/internal/brute"
	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/solver"
	"github.com/matzehuels/relocator/pkg/state"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c *memCache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func mustInstance(t *testing.T, tiers int, stacks ...[]int) *bay.Instance {
	t.Helper()
	inst, err := bay.New(tiers, stacks)
	if err != nil {
		t.Fatalf("bay.New: %v", err)
	}
	return inst
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero value", Options{}, false},
		{"explicit limit", Options{TimeLimit: time.Second}, false},
		{"negative limit", Options{TimeLimit: -time.Second}, true},
		{"too long", Options{TimeLimit: 48 * time.Hour}, true},
		{"negative cycle", Options{TimerCycle: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.opts.TimeLimit <= 0 {
				t.Errorf("TimeLimit not set: %v", tt.opts.TimeLimit)
			}
		})
	}
}

func TestSolveUsesCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := quietRunner(c)
	inst := mustInstance(t, 3, []int{1, 3}, []int{2}, nil)

	first, err := r.Solve(ctx, inst, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if first.Cached {
		t.Error("first solve should not be cached")
	}
	if c.sets != 1 {
		t.Fatalf("sets = %d, want 1", c.sets)
	}

	second, err := r.Solve(ctx, inst, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !second.Cached {
		t.Error("second solve should be cached")
	}
	if second.Key != first.Key {
		t.Errorf("keys differ: %q vs %q", second.Key, first.Key)
	}
	if second.Report.BestUB != first.Report.BestUB || len(second.Report.Solution) != len(first.Report.Solution) {
		t.Errorf("cached report %+v differs from %+v", second.Report, first.Report)
	}
	if n, err := solver.Replay(inst, second.Report.Solution); err != nil || n != 1 {
		t.Errorf("Replay(cached) = %d, %v", n, err)
	}

	third, err := r.Solve(ctx, inst, Options{Refresh: true})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if third.Cached {
		t.Error("refresh should bypass the cache")
	}
	if c.sets != 2 {
		t.Errorf("sets = %d, want 2", c.sets)
	}
}

func TestSolveDiscardsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := quietRunner(c)
	inst := mustInstance(t, 2, []int{1, 2}, nil)

	_ = c.Set(ctx, r.Key(inst), []byte("{not json"), 0)
	res, err := r.Solve(ctx, inst, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Cached {
		t.Error("corrupt entry was used")
	}
	if res.Report.BestUB != 1 {
		t.Errorf("BestUB = %d, want 1", res.Report.BestUB)
	}
}

func TestSolveDoesNotStoreTimedOut(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	var inst *bay.Instance
	for range 200 {
		cand := brute.RandomInstance(rng, 4, 4, 13)
		rep, err := solver.Solve(context.Background(), cand)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if rep.InitLB < rep.InitUB {
			inst = cand
			break
		}
	}
	if inst == nil {
		t.Skip("no instance with an initial gap found")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newMemCache()
	res, err := quietRunner(c).Solve(ctx, inst, Options{TimerCycle: 1})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Report.TimedOut {
		t.Fatal("expected a timed out report")
	}
	if c.sets != 0 {
		t.Errorf("sets = %d, want 0", c.sets)
	}
}

func TestSolveInfeasible(t *testing.T) {
	inst := mustInstance(t, 2, []int{1, 2})
	_, err := quietRunner(newMemCache()).Solve(context.Background(), inst, Options{})
	if !errors.Is(err, errors.ErrCodeInfeasible) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeInfeasible)
	}
	if !stderrors.Is(err, solver.ErrInfeasible) {
		t.Errorf("error = %v, want solver.ErrInfeasible in chain", err)
	}
}

func TestSolveInvalidOptions(t *testing.T) {
	inst := mustInstance(t, 2, []int{1})
	_, err := quietRunner(newMemCache()).Solve(context.Background(), inst, Options{TimeLimit: -1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestSolveAll(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	jobs := []Job{{Name: "infeasible", Instance: mustInstance(t, 2, []int{1, 2})}}
	for i := range 6 {
		jobs = append(jobs, Job{
			Name:     string(rune('a' + i)),
			Instance: brute.RandomInstance(rng, 3, 3, 6),
		})
	}

	outcomes, err := quietRunner(newMemCache()).SolveAll(context.Background(), jobs, Options{}, 3)
	if err != nil {
		t.Fatalf("SolveAll: %v", err)
	}
	if len(outcomes) != len(jobs) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(jobs))
	}
	for i, o := range outcomes {
		if o.Name != jobs[i].Name {
			t.Errorf("outcome %d is %q, want %q", i, o.Name, jobs[i].Name)
		}
		if i == 0 {
			if o.Err == nil {
				t.Error("infeasible job should fail")
			}
			continue
		}
		if o.Err != nil {
			t.Errorf("job %s: %v", o.Name, o.Err)
			continue
		}
		want := brute.MinRelocations(state.New(jobs[i].Instance))
		if o.Result.Report.BestUB != want {
			t.Errorf("job %s: BestUB = %d, want %d", o.Name, o.Result.Report.BestUB, want)
		}
	}
}
