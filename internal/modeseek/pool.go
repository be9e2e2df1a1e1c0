package modeseek

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/hupe1980/meanshift/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultChunkSize is the number of points handed to a worker at a time.
const DefaultChunkSize = 64

// DefaultProgressInterval is the minimum time between two progress reports.
const DefaultProgressInterval = time.Second

// ProgressFunc receives the number of finished points out of total.
type ProgressFunc func(done, total int)

// RunOptions controls the worker pool.
type RunOptions struct {
	// Workers caps concurrent workers. Zero means runtime.GOMAXPROCS(0).
	Workers int
	// ChunkSize is the number of consecutive points per task. Zero means DefaultChunkSize.
	ChunkSize int
	// Progress is called at most once per ProgressInterval while running,
	// and once more when all points are done.
	Progress ProgressFunc
	// ProgressInterval throttles Progress. Zero means DefaultProgressInterval.
	ProgressInterval time.Duration
}

// Result holds the modes of a whole feature space.
type Result struct {
	Modes model.ModeSet
	// Iterations is the number of passes each point needed.
	Iterations []int
	// NonConverged lists, in ascending order, the points that hit MaxIterations.
	NonConverged    []int
	TotalIterations int
}

// Run computes the mode of every point of space in parallel.
//
// space must not be modified until Run returns. The returned ModeSet has the
// same length and index order as space.
func (s Seeker) Run(ctx context.Context, space model.FeatureSpace, opts RunOptions) (Result, error) {
	n := len(space)
	if n == 0 {
		return Result{}, model.ErrEmptyInput
	}
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	var limiter *rate.Limiter
	if opts.Progress != nil {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
		// The first token is spent so the first report comes after one interval.
		limiter.Allow()
	}

	modes := make(model.ModeSet, n)
	iterations := make([]int, n)
	converged := make([]bool, n)

	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunk {
		if gctx.Err() != nil {
			break
		}
		end := min(start+chunk, n)

		g.Go(func() error {
			for i := start; i < end; i++ {
				out, err := s.FindMode(gctx, space, i)
				if err != nil {
					return err
				}
				modes[i] = out.Mode
				iterations[i] = out.Iterations
				converged[i] = out.Converged
			}
			finished := done.Add(int64(end - start))
			if limiter != nil && limiter.Allow() {
				opts.Progress(int(finished), n)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Modes: modes, Iterations: iterations}
	for i := range n {
		res.TotalIterations += iterations[i]
		if !converged[i] {
			res.NonConverged = append(res.NonConverged, i)
		}
	}

	if opts.Progress != nil {
		opts.Progress(n, n)
	}

	return res, nil
}
