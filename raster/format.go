package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format selects the lossless container used for encoded rasters.
type Format int

const (
	// PNG is the default format; browsers render it from a data URI.
	PNG Format = iota
	// BMP is an uncompressed Windows bitmap.
	BMP
	// TIFF is a deflate-compressed TIFF.
	TIFF
)

// ParseFormat returns the format for a name such as "png", "bmp" or "tiff".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MIMEType returns the media type used in data URIs.
func (f Format) MIMEType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Ext returns the file extension without a leading dot.
func (f Format) Ext() string {
	if f == TIFF {
		return "tif"
	}
	return f.String()
}

func (f Format) encode(w io.Writer, img image.Image) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}
