package pixvec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pixvec/blobstore"
	"github.com/hupe1980/pixvec/pixel"
	"github.com/hupe1980/pixvec/quasicsv"
	"github.com/hupe1980/pixvec/raster"
	"github.com/hupe1980/pixvec/source"
)

var (
	// ErrInvalidInput is returned when the top-level input is binary rather than text.
	// It is the only input error that fails a decode call outright.
	ErrInvalidInput = errors.New("input is not text")

	// ErrNotFound is returned when a source blob does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrSourceTooLarge is returned when a decompressed source exceeds its size limit.
	ErrSourceTooLarge = source.ErrTooLarge
)

// Per-stage error kinds. All of them are non-fatal for the batch.
type (
	// RowFormatError: the row is skipped.
	RowFormatError = quasicsv.RowFormatError
	// NumericParseWarning: the token decodes to 0 or its integer prefix.
	NumericParseWarning = pixel.NumericParseWarning
	// DimensionMismatchWarning: the vector tail beyond the inferred square is dropped.
	DimensionMismatchWarning = raster.DimensionMismatchWarning
	// RasterContextError: the sample is kept as a placeholder without an image.
	RasterContextError = raster.RasterContextError
)

// InvalidInputError locates the first byte that makes the input not text.
//
// It matches ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	Offset int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %s at byte %d", ErrInvalidInput, e.Reason, e.Offset)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }
