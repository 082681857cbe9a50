package pixvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    decodeHistogram prometheus.Histogram
//	    skippedCounter  prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordDecode(rows, samples int, duration time.Duration, err error) {
//	    p.decodeHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordDecode is called after each decode call.
	// rows is the number of data lines seen, samples the number assembled.
	RecordDecode(rows, samples int, duration time.Duration, err error)

	// RecordRow is called once per data line. skipped is true for a malformed
	// line, warnings counts the non-fatal problems of an assembled sample.
	RecordRow(skipped bool, warnings int)

	// RecordRaster is called once per assembled sample. err is non-nil for a placeholder.
	RecordRaster(width, height int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDecode(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRow(bool, int)                        {}
func (NoopMetricsCollector) RecordRaster(int, int, error)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	DecodeCount      atomic.Int64
	DecodeErrors     atomic.Int64
	DecodeTotalNanos atomic.Int64
	RowCount         atomic.Int64
	RowsSkipped      atomic.Int64
	Warnings         atomic.Int64
	RasterCount      atomic.Int64
	RasterErrors     atomic.Int64
	PixelsRendered   atomic.Int64
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(_, _ int, duration time.Duration, err error) {
	b.DecodeCount.Add(1)
	b.DecodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DecodeErrors.Add(1)
	}
}

// RecordRow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRow(skipped bool, warnings int) {
	b.RowCount.Add(1)
	if skipped {
		b.RowsSkipped.Add(1)
	}
	b.Warnings.Add(int64(warnings))
}

// RecordRaster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRaster(width, height int, err error) {
	b.RasterCount.Add(1)
	if err != nil {
		b.RasterErrors.Add(1)
		return
	}
	b.PixelsRendered.Add(int64(width) * int64(height))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DecodeCount:    b.DecodeCount.Load(),
		DecodeErrors:   b.DecodeErrors.Load(),
		DecodeAvgNanos: b.getAvgDecodeNanos(),
		RowCount:       b.RowCount.Load(),
		RowsSkipped:    b.RowsSkipped.Load(),
		Warnings:       b.Warnings.Load(),
		RasterCount:    b.RasterCount.Load(),
		RasterErrors:   b.RasterErrors.Load(),
		PixelsRendered: b.PixelsRendered.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgDecodeNanos() int64 {
	count := b.DecodeCount.Load()
	if count == 0 {
		return 0
	}
	return b.DecodeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DecodeCount    int64
	DecodeErrors   int64
	DecodeAvgNanos int64
	RowCount       int64
	RowsSkipped    int64
	Warnings       int64
	RasterCount    int64
	RasterErrors   int64
	PixelsRendered int64
}
