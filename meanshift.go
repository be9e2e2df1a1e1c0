package meanshift

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/meanshift/internal/bitmap"
	"github.com/hupe1980/meanshift/internal/merge"
	"github.com/hupe1980/meanshift/internal/modeseek"
	"github.com/hupe1980/meanshift/internal/normalize"
	"github.com/hupe1980/meanshift/model"
	"github.com/hupe1980/meanshift/persistence"
)

// Stats describes the last successful run of an Engine.
type Stats struct {
	Points          int
	Dimension       int
	Segments        int
	TotalIterations int
	// NonConverged lists points whose mode is the last estimate at the iteration cap.
	NonConverged []int
	// Degenerate lists dimensions with a zero maximum, left unscaled.
	Degenerate        []int
	NormalizeDuration time.Duration
	SeekDuration      time.Duration
	MergeDuration     time.Duration
}

// Engine runs normalization, parallel mode seeking and sequential merging.
//
// An Engine is safe for concurrent use; runs are serialized.
type Engine struct {
	mu     sync.Mutex
	opts   options
	seeker modeseek.Seeker

	input    model.FeatureSpace
	space    model.FeatureSpace
	maxima   model.Maxima
	modes    model.ModeSet
	segments model.SegmentCollection
	stats    Stats
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		opts: o,
		seeker: modeseek.Seeker{
			Radius:          o.radius,
			ChangeTolerance: o.changeTolerance,
			MaxIterations:   o.maxIterations,
		},
	}, nil
}

// SetFeatureSpace supplies the points of the next Run. The space is copied;
// the caller keeps ownership of fs.
func (e *Engine) SetFeatureSpace(fs model.FeatureSpace) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.setFeatureSpaceLocked(fs)
}

func (e *Engine) setFeatureSpaceLocked(fs model.FeatureSpace) error {
	if len(fs) == 0 {
		return ErrEmptyInput
	}
	if err := fs.Validate(); err != nil {
		return err
	}
	e.input = fs.Clone()
	return nil
}

// Segment supplies fs and runs the pipeline on it as one step. Concurrent
// calls never observe each other's input.
func (e *Engine) Segment(ctx context.Context, fs model.FeatureSpace) (model.SegmentCollection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.setFeatureSpaceLocked(fs); err != nil {
		e.input = nil
		e.reset()

		e.opts.logger.LogSegment(ctx, len(fs), 0, 0, err)
		e.opts.metricsCollector.RecordSegment(0, err)
		return nil, fmt.Errorf("meanshift: %w", err)
	}
	return e.runLocked(ctx)
}

// Run segments the supplied feature space.
//
// It fails with ErrEmptyInput if no feature space was supplied. On failure no
// partial result is kept. Points whose mode iteration hit the cap do not fail
// the run; see Stats.NonConverged and NonConvergence.
func (e *Engine) Run(ctx context.Context) (model.SegmentCollection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.runLocked(ctx)
}

func (e *Engine) runLocked(ctx context.Context) (model.SegmentCollection, error) {
	start := time.Now()
	segments, err := e.run(ctx)
	duration := time.Since(start)

	e.opts.logger.LogSegment(ctx, len(e.input), len(segments), duration, err)
	e.opts.metricsCollector.RecordSegment(duration, err)

	if err != nil {
		e.reset()
		return nil, err
	}
	return segments.Clone(), nil
}

func (e *Engine) run(ctx context.Context) (model.SegmentCollection, error) {
	if len(e.input) == 0 {
		return nil, fmt.Errorf("meanshift: %w", ErrEmptyInput)
	}

	logger := e.opts.logger.WithCount(len(e.input)).WithDimension(e.input.Dim())
	mc := e.opts.metricsCollector
	stats := Stats{Points: len(e.input), Dimension: e.input.Dim()}

	// Normalize a private copy so the run can be repeated.
	space := e.input.Clone()

	t := time.Now()
	norm, err := normalize.Normalize(space)
	stats.NormalizeDuration = time.Since(t)
	logger.LogNormalize(ctx, norm.Degenerate, stats.NormalizeDuration, err)
	mc.RecordNormalize(stats.NormalizeDuration, err)
	if err != nil {
		return nil, fmt.Errorf("meanshift: normalize: %w", err)
	}
	stats.Degenerate = norm.Degenerate

	t = time.Now()
	seek, err := e.seeker.Run(ctx, space, modeseek.RunOptions{
		Workers:          e.opts.workers,
		ChunkSize:        e.opts.chunkSize,
		ProgressInterval: e.opts.progressInterval,
		Progress: func(done, total int) {
			logger.LogProgress(ctx, done, total)
		},
	})
	stats.SeekDuration = time.Since(t)
	logger.LogModeSeek(ctx, seek.TotalIterations, seek.NonConverged, stats.SeekDuration, err)
	mc.RecordModeSeek(len(space), seek.TotalIterations, len(seek.NonConverged), stats.SeekDuration, err)
	if err != nil {
		return nil, fmt.Errorf("meanshift: mode seeking: %w", err)
	}
	stats.TotalIterations = seek.TotalIterations
	stats.NonConverged = seek.NonConverged

	t = time.Now()
	segments, err := merge.Merge(seek.Modes, e.opts.modeDistanceThreshold, e.opts.centroidUpdate)
	if err == nil {
		err = bitmap.Coverage(segments, len(space))
	}
	stats.MergeDuration = time.Since(t)
	logger.LogMerge(ctx, len(segments), stats.MergeDuration, err)
	mc.RecordMerge(len(segments), stats.MergeDuration, err)
	if err != nil {
		return nil, fmt.Errorf("meanshift: merge: %w", err)
	}
	stats.Segments = len(segments)

	e.space = space
	e.maxima = norm.Maxima
	e.modes = seek.Modes
	e.segments = segments
	e.stats = stats

	return segments, nil
}

func (e *Engine) reset() {
	e.space = nil
	e.maxima = nil
	e.modes = nil
	e.segments = nil
	e.stats = Stats{}
}

// FeatureSpace returns a copy of the normalized feature space of the last run.
func (e *Engine) FeatureSpace() model.FeatureSpace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.space.Clone()
}

// Maxima returns the per-dimension maxima captured during the last run.
// Multiply a centroid by them (Maxima.Denormalize) to get original units.
func (e *Engine) Maxima() model.Maxima {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.maxima)
}

// Modes returns a copy of the per-point modes of the last run.
func (e *Engine) Modes() model.ModeSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modes.Clone()
}

// Segments returns a copy of the segments of the last run.
func (e *Engine) Segments() model.SegmentCollection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.segments.Clone()
}

// Stats returns statistics of the last run.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.NonConverged = slices.Clone(s.NonConverged)
	s.Degenerate = slices.Clone(s.Degenerate)
	return s
}

// NonConvergence returns a *NonConvergenceError if any point of the last run
// hit the iteration cap, nil otherwise.
func (e *Engine) NonConvergence() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.stats.NonConverged) == 0 {
		return nil
	}
	return &NonConvergenceError{
		Indices:       slices.Clone(e.stats.NonConverged),
		MaxIterations: e.opts.maxIterations,
	}
}

// Snapshot packages the last result for persistence. It returns nil when
// no run has completed.
func (e *Engine) Snapshot() *persistence.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.segments == nil {
		return nil
	}
	return &persistence.Snapshot{
		Points:                len(e.space),
		Radius:                e.opts.radius,
		ModeDistanceThreshold: e.opts.modeDistanceThreshold,
		ChangeTolerance:       e.opts.changeTolerance,
		CentroidUpdate:        uint8(e.opts.centroidUpdate),
		Maxima:                slices.Clone(e.maxima),
		Segments:              e.segments.Clone(),
	}
}
