package pixvec

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hupe1980/pixvec/blobstore"
	"github.com/hupe1980/pixvec/gallery"
	"github.com/hupe1980/pixvec/quasicsv"
	"github.com/hupe1980/pixvec/raster"
	"github.com/hupe1980/pixvec/source"
)

// Pipeline decodes quasi-CSV pixel datasets into display-ready samples.
// It is safe for concurrent use.
type Pipeline struct {
	opts    options
	encoder *raster.Encoder
}

// New creates a Pipeline.
func New(optFns ...Option) *Pipeline {
	o := applyOptions(optFns)

	rasterOpts := make([]func(*raster.Options), 0, len(o.rasterOptions)+1)
	if o.controller != nil {
		rasterOpts = append(rasterOpts, func(ro *raster.Options) { ro.Controller = o.controller })
	}
	rasterOpts = append(rasterOpts, o.rasterOptions...)

	return &Pipeline{
		opts:    o,
		encoder: raster.NewEncoder(rasterOpts...),
	}
}

// Decode parses text and assembles up to the configured limit of samples.
//
// Malformed rows, numeric problems, non-square vectors and unavailable surfaces are
// recorded in the report and never fail the call. Invalid UTF-8 sequences are
// replaced with U+FFFD. An error is returned only for binary input or when ctx is
// canceled.
func (p *Pipeline) Decode(ctx context.Context, text string) (*Result, error) {
	return p.decodeLogged(ctx, p.opts.logger, text)
}

// DecodeBytes is Decode for raw bytes.
func (p *Pipeline) DecodeBytes(ctx context.Context, data []byte) (*Result, error) {
	return p.Decode(ctx, string(data))
}

// DecodeBlob loads the named blob from store, decompressing it by name suffix,
// and decodes it.
func (p *Pipeline) DecodeBlob(ctx context.Context, store blobstore.BlobStore, name string) (*Result, error) {
	log := p.opts.logger.WithSource(name)

	srcOpts := make([]func(*source.Options), 0, len(p.opts.sourceOptions)+1)
	if p.opts.controller != nil {
		srcOpts = append(srcOpts, func(so *source.Options) { so.Controller = p.opts.controller })
	}
	srcOpts = append(srcOpts, p.opts.sourceOptions...)

	data, err := source.Load(ctx, store, name, srcOpts...)
	log.LogLoad(ctx, name, len(data), err)
	if err != nil {
		return nil, err
	}

	return p.decodeLogged(ctx, log, string(data))
}

// Publish writes the rendered images of res and a manifest under prefix.
func (p *Pipeline) Publish(ctx context.Context, store blobstore.BlobStore, prefix string, res *Result) (*gallery.Manifest, error) {
	m, err := gallery.Publish(ctx, store, prefix, res.Samples, p.opts.codec)
	p.opts.logger.LogPublish(ctx, prefix, len(res.Samples), err)
	return m, err
}

func (p *Pipeline) decodeLogged(ctx context.Context, log *Logger, text string) (*Result, error) {
	start := time.Now()

	res, err := p.decode(ctx, log, text)

	rows, samples := 0, 0
	if res != nil {
		rows, samples = res.Report.Rows, len(res.Samples)
	}
	p.opts.metricsCollector.RecordDecode(rows, samples, time.Since(start), err)
	if err != nil {
		log.LogDecode(ctx, rows, samples, 0, time.Since(start), err)
		return nil, err
	}
	log.LogDecode(ctx, rows, samples, int(res.Report.Skipped.GetCardinality()), time.Since(start), nil)

	return res, nil
}

func (p *Pipeline) decode(ctx context.Context, log *Logger, text string) (*Result, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := newReport()

	if off := invalidUTF8(text); off >= 0 {
		log.LogRepair(ctx, off)
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
		report.Repaired = true
	}

	rows, rowErrs := quasicsv.Parse(headLines(text, p.opts.maxRows))
	report.Rows = len(rows) + len(rowErrs)

	for _, err := range rowErrs {
		var rfe *RowFormatError
		if !errors.As(err, &rfe) {
			continue
		}
		report.RowErrors = append(report.RowErrors, rfe)
		report.Skipped.Add(uint32(rfe.Line))
		log.LogRowError(ctx, rfe)
		p.opts.metricsCollector.RecordRow(true, 0)
	}

	assembled, err := gallery.Assemble(ctx, rows, func(o *gallery.Options) {
		o.Limit = p.opts.limit
		o.Workers = p.opts.workers
		o.Encoder = p.encoder
		o.Controller = p.opts.controller
	})
	if err != nil {
		return nil, err
	}

	for i := range assembled {
		p.record(ctx, log, report, &assembled[i])
	}
	// Rows past the sample limit were parsed but not assembled.
	for range len(rows) - len(assembled) {
		p.opts.metricsCollector.RecordRow(false, 0)
	}

	return &Result{
		Samples: gallery.Samples(assembled),
		Report:  report,
	}, nil
}

func (p *Pipeline) record(ctx context.Context, log *Logger, report *Report, a *gallery.Assembled) {
	id := a.ID

	for _, w := range a.Warnings {
		log.LogWarning(ctx, id, w)

		var npw *NumericParseWarning
		var dmw *DimensionMismatchWarning
		switch {
		case errors.As(w, &npw):
			report.NumericWarnings = append(report.NumericWarnings, SampleWarning[*NumericParseWarning]{ID: id, Err: npw})
		case errors.As(w, &dmw):
			report.DimensionWarnings = append(report.DimensionWarnings, SampleWarning[*DimensionMismatchWarning]{ID: id, Err: dmw})
		}
	}
	if len(a.Warnings) > 0 {
		report.Warned.Add(uint32(id))
	}
	p.opts.metricsCollector.RecordRow(false, len(a.Warnings))

	if a.Err != nil {
		report.Placeholders.Add(uint32(id))
		var rce *RasterContextError
		if errors.As(a.Err, &rce) {
			report.RasterErrors = append(report.RasterErrors, SampleWarning[*RasterContextError]{ID: id, Err: rce})
		}
		log.LogRasterError(ctx, id, a.Err)
		p.opts.metricsCollector.RecordRaster(0, 0, a.Err)
		return
	}
	p.opts.metricsCollector.RecordRaster(a.Image.Width, a.Image.Height, nil)
}

// checkText rejects binary input, identified by a NUL byte.
func checkText(text string) error {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return &InvalidInputError{Offset: i, Reason: "NUL byte"}
	}
	return nil
}

// invalidUTF8 returns the offset of the first invalid UTF-8 sequence in text, or -1.
func invalidUTF8(text string) int {
	if utf8.ValidString(text) {
		return -1
	}
	for off := 0; off < len(text); {
		r, size := utf8.DecodeRuneInString(text[off:])
		if r == utf8.RuneError && size == 1 {
			return off
		}
		off += size
	}
	return -1
}

// headLines returns text cut after the header and maxRows data lines.
func headLines(text string, maxRows int) string {
	if maxRows <= 0 {
		return text
	}

	// Parse trims the blob before splitting, so skip leading whitespace the same way.
	body := strings.TrimLeftFunc(text, unicode.IsSpace)
	off := len(text) - len(body)

	for range maxRows + 1 {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return text
		}
		off += i + 1
	}
	return text[:off]
}
