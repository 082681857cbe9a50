package gallery

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pixvec/pixel"
	"github.com/hupe1980/pixvec/quasicsv"
	"github.com/hupe1980/pixvec/raster"
	"github.com/hupe1980/pixvec/resource"
)

// Options configures Assemble.
type Options struct {
	// Limit is the maximum number of samples. Values <= 0 mean DefaultLimit.
	Limit int
	// Workers bounds concurrent row decodes. Values <= 0 mean GOMAXPROCS.
	Workers int
	// Encoder renders the images. Nil means a default PNG encoder.
	Encoder *raster.Encoder
	// Controller holds a worker slot per row being decoded, bounding rows in flight
	// across concurrent calls sharing it. Nil means no shared bound.
	Controller *resource.Controller
}

// Assembled is a sample together with the non-fatal problems met while decoding it.
type Assembled struct {
	Sample
	// Warnings holds *pixel.NumericParseWarning and *raster.DimensionMismatchWarning values.
	Warnings []error
}

// Assemble turns the first Limit rows into samples with ids 0..count-1 in row order.
//
// Rows are decoded concurrently and written back by position, so the output does
// not depend on scheduling. A row whose image cannot be rendered stays in the output
// as a placeholder with Err set. Only a canceled ctx fails the call.
func Assemble(ctx context.Context, rows []quasicsv.RawRow, optFns ...func(o *Options)) ([]Assembled, error) {
	opts := Options{Limit: DefaultLimit, Workers: runtime.GOMAXPROCS(0)}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Encoder == nil {
		opts.Encoder = raster.NewEncoder()
	}

	count := min(opts.Limit, len(rows))
	out := make([]Assembled, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := range count {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := opts.Controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer opts.Controller.ReleaseWorker()

			out[i] = assembleRow(gctx, opts.Encoder, i, rows[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func assembleRow(ctx context.Context, enc *raster.Encoder, id int, row quasicsv.RawRow) Assembled {
	a := Assembled{
		Sample: Sample{
			ID:            id,
			Vector:        row.VectorText,
			VectorPreview: Preview(row.VectorText),
			Label:         row.LabelText,
		},
	}

	v, warnings := pixel.Decode(row.VectorText)
	a.Warnings = warnings

	img, err := enc.Encode(ctx, v)
	if err != nil {
		a.Err = err
		return a
	}
	if img.Warning != nil {
		a.Warnings = append(a.Warnings, img.Warning)
	}
	a.Image = img

	return a
}

// Samples strips the warnings from assembled samples.
func Samples(assembled []Assembled) []Sample {
	out := make([]Sample, len(assembled))
	for i, a := range assembled {
		out[i] = a.Sample
	}
	return out
}
