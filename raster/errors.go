package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned for negative explicit dimensions.
	ErrInvalidSize = errors.New("raster: width and height must not be negative")
	// ErrSurfaceTooLarge is the cause of a RasterContextError whose surface would exceed MaxPixels.
	ErrSurfaceTooLarge = errors.New("raster: surface too large")
	// ErrUnknownFormat is returned for an unsupported encoding format.
	ErrUnknownFormat = errors.New("raster: unknown format")
)

// RasterContextError reports that no drawing surface could be acquired.
// It is fatal for the affected image only.
type RasterContextError struct {
	Width  int
	Height int
	cause  error
}

func (e *RasterContextError) Error() string {
	return fmt.Sprintf("raster: cannot acquire %dx%d surface: %v", e.Width, e.Height, e.cause)
}

func (e *RasterContextError) Unwrap() error { return e.cause }

// DimensionMismatchWarning reports a vector whose length is not a perfect square when
// the size is inferred. The tail beyond Side*Side is dropped.
type DimensionMismatchWarning struct {
	Length  int
	Side    int
	Dropped int
}

func (w *DimensionMismatchWarning) Error() string {
	return fmt.Sprintf("raster: %d pixels is not a perfect square, using %dx%d and dropping %d",
		w.Length, w.Side, w.Side, w.Dropped)
}
