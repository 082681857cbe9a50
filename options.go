package pixvec

import (
	"log/slog"

	"github.com/hupe1980/pixvec/codec"
	"github.com/hupe1980/pixvec/gallery"
	"github.com/hupe1980/pixvec/raster"
	"github.com/hupe1980/pixvec/resource"
	"github.com/hupe1980/pixvec/source"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	limit            int
	workers          int
	maxRows          int
	controller       *resource.Controller
	rasterOptions    []func(*raster.Options)
	sourceOptions    []func(*source.Options)
}

// Option configures a Pipeline.
type Option func(*options)

// WithCodec configures the codec used for gallery manifests.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLimit sets the maximum number of samples per decode call.
// Values <= 0 select gallery.DefaultLimit.
func WithLimit(limit int) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// WithWorkers bounds the number of rows rendered concurrently.
// Values <= 0 use the resource controller's worker limit, or GOMAXPROCS without one.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithMaxRows stops reading the input after maxRows data lines. Lines past the
// budget are neither parsed nor reported. Values <= 0 mean no limit.
func WithMaxRows(maxRows int) Option {
	return func(o *options) {
		o.maxRows = maxRows
	}
}

// WithResourceController budgets raster surface memory, workers and source IO.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 32 << 20,
//	})
//	p := pixvec.New(pixvec.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithRaster configures the raster encoder, e.g. the output format or an upscale factor.
//
// Example:
//
//	p := pixvec.New(pixvec.WithRaster(func(o *raster.Options) {
//	    o.Format = raster.TIFF
//	    o.Scale = 4
//	}))
func WithRaster(optFns ...func(*raster.Options)) Option {
	return func(o *options) {
		o.rasterOptions = append(o.rasterOptions, optFns...)
	}
}

// WithSource configures how DecodeBlob loads its input.
func WithSource(optFns ...func(*source.Options)) Option {
	return func(o *options) {
		o.sourceOptions = append(o.sourceOptions, optFns...)
	}
}

// WithMetricsCollector sets a metrics collector for monitoring operations.
//
// Example with basic collector:
//
//	metrics := &pixvec.BasicMetricsCollector{}
//	p := pixvec.New(pixvec.WithMetricsCollector(metrics))
//	// ... decode ...
//	stats := metrics.GetStats()
//	fmt.Printf("Rows: %d, skipped: %d\n", stats.RowCount, stats.RowsSkipped)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
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
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		limit:            gallery.DefaultLimit,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.workers <= 0 && o.controller != nil {
		o.workers = o.controller.MaxWorkers()
	}
	return o
}
