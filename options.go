package meanshift

import (
	"log/slog"
	"time"

	"github.com/hupe1980/meanshift/internal/merge"
)

const (
	// DefaultRadius is the neighborhood radius in normalized units.
	DefaultRadius = 0.1
	// DefaultModeDistanceThreshold is the squared distance under which a mode joins a segment.
	DefaultModeDistanceThreshold = 0.05
	// DefaultChangeTolerance is the squared shift under which a mode is converged.
	DefaultChangeTolerance = 0.0002
	// DefaultMaxIterations caps the mean-shift passes of a single point.
	DefaultMaxIterations = 500
)

// CentroidUpdate selects how a segment centroid absorbs a new member.
type CentroidUpdate = merge.CentroidUpdate

const (
	// CentroidReference divides by the member count before appending.
	CentroidReference = merge.UpdateReference
	// CentroidRunningMean keeps the centroid equal to the mean of its members.
	CentroidRunningMean = merge.UpdateRunningMean
)

type options struct {
	radius                float32
	modeDistanceThreshold float32
	changeTolerance       float32
	maxIterations         int
	workers               int
	chunkSize             int
	centroidUpdate        CentroidUpdate
	progressInterval      time.Duration
	metricsCollector      MetricsCollector
	logger                *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithRadius sets the neighborhood radius in normalized units.
// Larger values smooth more and find fewer modes. Default: 0.1.
func WithRadius(r float32) Option {
	return func(o *options) {
		o.radius = r
	}
}

// WithModeDistanceThreshold sets the squared distance under which a converged
// mode joins an existing segment. Default: 0.05.
func WithModeDistanceThreshold(t float32) Option {
	return func(o *options) {
		o.modeDistanceThreshold = t
	}
}

// WithChangeTolerance sets the squared shift under which the mean-shift
// iteration stops. Smaller values are more precise and take more passes.
// Default: 0.0002.
func WithChangeTolerance(t float32) Option {
	return func(o *options) {
		o.changeTolerance = t
	}
}

// WithMaxIterations caps the mean-shift passes of a single point. Points that
// hit the cap keep their last estimate and are reported as non-converged.
// Default: 500.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithWorkers sets the number of concurrent mode seeking workers.
// Zero uses runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets how many consecutive points a worker takes at a time.
// Zero uses 64.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithCentroidUpdate selects the segment centroid update rule.
// Default: CentroidReference.
func WithCentroidUpdate(u CentroidUpdate) Option {
	return func(o *options) {
		o.centroidUpdate = u
	}
}

// WithProgressInterval sets the minimum time between two progress log lines.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &meanshift.BasicMetricsCollector{}
//	eng, _ := meanshift.New(meanshift.WithMetricsCollector(metrics))
//	// ... run segmentations ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg iterations/point: %.1f\n", stats.SegmentCount, stats.AvgIterationsPerPt)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := meanshift.NewJSONLogger(slog.LevelInfo)
//	eng, _ := meanshift.New(meanshift.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		radius:                DefaultRadius,
		modeDistanceThreshold: DefaultModeDistanceThreshold,
		changeTolerance:       DefaultChangeTolerance,
		maxIterations:         DefaultMaxIterations,
		centroidUpdate:        CentroidReference,
		metricsCollector:      NoopMetricsCollector{},
		logger:                NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

func (o options) validate() error {
	switch {
	case !(o.radius > 0):
		return &ErrInvalidOption{Name: "radius", Value: o.radius}
	case !(o.modeDistanceThreshold > 0):
		return &ErrInvalidOption{Name: "mode_distance_threshold", Value: o.modeDistanceThreshold}
	case !(o.changeTolerance > 0):
		return &ErrInvalidOption{Name: "change_tolerance", Value: o.changeTolerance}
	case o.maxIterations <= 0:
		return &ErrInvalidOption{Name: "max_iterations", Value: o.maxIterations}
	case o.workers < 0:
		return &ErrInvalidOption{Name: "workers", Value: o.workers}
	case o.chunkSize < 0:
		return &ErrInvalidOption{Name: "chunk_size", Value: o.chunkSize}
	case o.centroidUpdate != CentroidReference && o.centroidUpdate != CentroidRunningMean:
		return &ErrInvalidOption{Name: "centroid_update", Value: o.centroidUpdate}
	}
	return nil
}
