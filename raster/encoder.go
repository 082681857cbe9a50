// Package raster lays grayscale pixel vectors out as bitmaps and encodes them with
// a lossless container.
package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/hupe1980/pixvec/pixel"
	"github.com/hupe1980/pixvec/resource"
)

// MaxPixels bounds the cell count of a single surface, scale included.
const MaxPixels = 1 << 28

// MaxScale is the largest accepted upscale factor.
const MaxScale = 64

// bytesPerPixel is the RGBA surface stride per cell.
const bytesPerPixel = 4

// Image is a laid-out grayscale raster and its encoded form.
type Image struct {
	Width  int
	Height int
	// Pixels holds Width*Height intensities in row-major order.
	// Cells without a source pixel are 0.
	Pixels  []uint8
	Encoded []byte
	Format  Format
	// Scale is the upscale factor applied before encoding.
	Scale int
	// Warning is set when the size was inferred from a non-square vector.
	Warning *DimensionMismatchWarning
}

// DataURI returns the encoded image as a base64 data URI.
// An empty raster yields "data:,".
func (img *Image) DataURI() string {
	if img == nil || len(img.Encoded) == 0 {
		return "data:,"
	}
	return "data:" + img.Format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(img.Encoded)
}

// Options configures an Encoder.
type Options struct {
	// Format is the output container. Default PNG.
	Format Format
	// Scale is an integer nearest-neighbour upscale factor, clamped to [1, MaxScale].
	Scale int
	// Controller budgets surface memory. Nil means unlimited.
	Controller *resource.Controller
}

// Encoder turns pixel vectors into encoded rasters. It is safe for concurrent use.
type Encoder struct {
	opts Options
}

// NewEncoder creates an Encoder.
func NewEncoder(optFns ...func(o *Options)) *Encoder {
	opts := Options{Format: PNG, Scale: 1}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	opts.Scale = max(1, min(opts.Scale, MaxScale))
	return &Encoder{opts: opts}
}

// Encode lays v out on a floor(sqrt(n)) square. A non-square vector loses its tail
// and the returned image carries a DimensionMismatchWarning.
func (e *Encoder) Encode(ctx context.Context, v pixel.Vector) (*Image, error) {
	side := SquareSide(len(v))

	img, err := e.EncodeSize(ctx, v, side, side)
	if err != nil {
		return nil, err
	}

	if dropped := len(v) - side*side; dropped > 0 {
		img.Warning = &DimensionMismatchWarning{Length: len(v), Side: side, Dropped: dropped}
	}
	return img, nil
}

// EncodeSize lays v out on a width x height raster. The size is not checked against
// len(v): extra pixels are ignored and missing cells are opaque black.
//
// The layout surface and, when scaling, the upscaled surface are reserved from the
// controller in one request before layout and released before EncodeSize returns.
// A reservation that cannot be made yields *RasterContextError.
func (e *Encoder) EncodeSize(ctx context.Context, v pixel.Vector, width, height int) (*Image, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidSize
	}

	img := &Image{
		Width:  width,
		Height: height,
		Format: e.opts.Format,
		Scale:  e.opts.Scale,
	}
	if width == 0 || height == 0 {
		img.Pixels = []uint8{}
		return img, nil
	}

	s, err := e.acquire(ctx, width, height)
	if err != nil {
		return nil, err
	}
	defer s.release()

	cells := width * height
	img.Pixels = make([]uint8, cells)
	n := min(len(v), cells)
	copy(img.Pixels, v[:n])

	pix := s.base.Pix
	for i, g := range img.Pixels {
		o := i * bytesPerPixel
		pix[o] = g
		pix[o+1] = g
		pix[o+2] = g
		pix[o+3] = 0xff
	}

	var out image.Image = s.base
	if s.scaled != nil {
		draw.NearestNeighbor.Scale(s.scaled, s.scaled.Bounds(), s.base, s.base.Bounds(), draw.Src, nil)
		out = s.scaled
	}

	var buf bytes.Buffer
	if err := e.opts.Format.encode(&buf, out); err != nil {
		return nil, err
	}
	img.Encoded = buf.Bytes()

	return img, nil
}

// SquareSide returns floor(sqrt(n)).
func SquareSide(n int) int {
	if n <= 0 {
		return 0
	}
	side := int(math.Sqrt(float64(n)))
	// Correct float rounding for large n.
	for side*side > n {
		side--
	}
	for (side+1)*(side+1) <= n {
		side++
	}
	return side
}

// surface is a budgeted RGBA layout buffer plus its upscale target, if any.
// It must be released exactly once.
type surface struct {
	base   *image.RGBA
	scaled *image.RGBA
	bytes  int64
	ctrl   *resource.Controller
}

func tooLarge(width, height int) bool {
	return width > MaxPixels || height > MaxPixels || (height > 0 && width > MaxPixels/height)
}

// acquire reserves both surfaces in a single request, so no reservation is held
// while it waits.
func (e *Encoder) acquire(ctx context.Context, width, height int) (*surface, error) {
	if tooLarge(width, height) {
		return nil, &RasterContextError{Width: width, Height: height, cause: ErrSurfaceTooLarge}
	}

	scale := e.opts.Scale
	size := int64(width) * int64(height) * bytesPerPixel
	if scale > 1 {
		if width > MaxPixels/scale || height > MaxPixels/scale || tooLarge(width*scale, height*scale) {
			return nil, &RasterContextError{Width: width * scale, Height: height * scale, cause: ErrSurfaceTooLarge}
		}
		size += size * int64(scale) * int64(scale)
	}

	if err := e.opts.Controller.AcquireMemory(ctx, size); err != nil {
		return nil, &RasterContextError{Width: width, Height: height, cause: err}
	}

	s := &surface{
		base:  image.NewRGBA(image.Rect(0, 0, width, height)),
		bytes: size,
		ctrl:  e.opts.Controller,
	}
	if scale > 1 {
		s.scaled = image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	}
	return s, nil
}

func (s *surface) release() {
	s.base, s.scaled = nil, nil
	s.ctrl.ReleaseMemory(s.bytes)
}
