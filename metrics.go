package meanshift

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordNormalize is called after the normalization stage.
	RecordNormalize(duration time.Duration, err error)

	// RecordModeSeek is called after the mode seeking stage.
	// iterations is the total number of mean-shift passes across all points,
	// nonConverged the number of points that hit the iteration cap.
	RecordModeSeek(points, iterations, nonConverged int, duration time.Duration, err error)

	// RecordMerge is called after the merge stage.
	RecordMerge(segments int, duration time.Duration, err error)

	// RecordSegment is called after each full segmentation run.
	RecordSegment(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordNormalize(time.Duration, error)                {}
func (NoopMetricsCollector) RecordModeSeek(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMerge(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordSegment(time.Duration, error)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	NormalizeErrors     atomic.Int64
	SeekCount           atomic.Int64
	SeekPoints          atomic.Int64
	SeekIterations      atomic.Int64
	SeekNonConverged    atomic.Int64
	SeekTotalNanos      atomic.Int64
	SeekErrors          atomic.Int64
	MergeSegments       atomic.Int64
	MergeErrors         atomic.Int64
	SegmentCount        atomic.Int64
	SegmentErrors       atomic.Int64
	SegmentTotalNanos   atomic.Int64
	NormalizeTotalNanos atomic.Int64
}

// RecordNormalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNormalize(duration time.Duration, err error) {
	b.NormalizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.NormalizeErrors.Add(1)
	}
}

// RecordModeSeek implements MetricsCollector.
func (b *BasicMetricsCollector) RecordModeSeek(points, iterations, nonConverged int, duration time.Duration, err error) {
	b.SeekCount.Add(1)
	b.SeekTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SeekErrors.Add(1)
		return
	}
	b.SeekPoints.Add(int64(points))
	b.SeekIterations.Add(int64(iterations))
	b.SeekNonConverged.Add(int64(nonConverged))
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(segments int, duration time.Duration, err error) {
	if err != nil {
		b.MergeErrors.Add(1)
		return
	}
	b.MergeSegments.Add(int64(segments))
}

// RecordSegment implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegment(duration time.Duration, err error) {
	b.SegmentCount.Add(1)
	b.SegmentTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SegmentErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SegmentCount:        b.SegmentCount.Load(),
		SegmentErrors:       b.SegmentErrors.Load(),
		SegmentAvgNanos:     avg(b.SegmentTotalNanos.Load(), b.SegmentCount.Load()),
		NormalizeErrors:     b.NormalizeErrors.Load(),
		SeekPoints:          b.SeekPoints.Load(),
		SeekIterations:      b.SeekIterations.Load(),
		SeekNonConverged:    b.SeekNonConverged.Load(),
		SeekErrors:          b.SeekErrors.Load(),
		SeekAvgNanos:        avg(b.SeekTotalNanos.Load(), b.SeekCount.Load()),
		AvgIterationsPerPt:  avgFloat(b.SeekIterations.Load(), b.SeekPoints.Load()),
		MergeSegments:       b.MergeSegments.Load(),
		MergeErrors:         b.MergeErrors.Load(),
		NormalizeTotalNanos: b.NormalizeTotalNanos.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

func avgFloat(total, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SegmentCount        int64
	SegmentErrors       int64
	SegmentAvgNanos     int64
	NormalizeErrors     int64
	NormalizeTotalNanos int64
	SeekPoints          int64
	SeekIterations      int64
	SeekNonConverged    int64
	SeekErrors          int64
	SeekAvgNanos        int64
	AvgIterationsPerPt  float64
	MergeSegments       int64
	MergeErrors         int64
}
