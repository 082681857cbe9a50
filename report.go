package pixvec

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/pixvec/gallery"
)

// Report collects the non-fatal problems of one decode call.
type Report struct {
	// Rows is the number of data lines read (header excluded).
	Rows int
	// Repaired is set when invalid UTF-8 in the input was replaced with U+FFFD.
	Repaired bool

	// Skipped holds the data-line numbers of malformed rows.
	Skipped *roaring.Bitmap
	// Warned holds the ids of samples with at least one warning.
	Warned *roaring.Bitmap
	// Placeholders holds the ids of samples without an image.
	Placeholders *roaring.Bitmap

	RowErrors         []*RowFormatError
	NumericWarnings   []SampleWarning[*NumericParseWarning]
	DimensionWarnings []SampleWarning[*DimensionMismatchWarning]
	RasterErrors      []SampleWarning[*RasterContextError]
}

// SampleWarning ties a problem to the sample it belongs to.
type SampleWarning[E error] struct {
	ID  int
	Err E
}

func newReport() *Report {
	return &Report{
		Skipped:      roaring.New(),
		Warned:       roaring.New(),
		Placeholders: roaring.New(),
	}
}

// Clean reports whether the call met no problem at all.
func (r *Report) Clean() bool {
	return !r.Repaired && r.Skipped.IsEmpty() && r.Warned.IsEmpty() && r.Placeholders.IsEmpty()
}

// Result is the output of a decode call.
type Result struct {
	Samples []gallery.Sample
	Report  *Report
}

// Records returns the serialized form of the samples.
func (r *Result) Records() []gallery.Record {
	return gallery.Records(r.Samples)
}
