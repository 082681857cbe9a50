// Package gallery assembles decoded rows into display-ready samples and publishes
// them to a blob store.
package gallery

import (
	"strings"

	"github.com/hupe1980/pixvec/pixel"
	"github.com/hupe1980/pixvec/raster"
)

const (
	// DefaultLimit is the number of samples assembled when no limit is given.
	DefaultLimit = 5
	// PreviewTokens is the number of raw tokens shown in a vector preview.
	PreviewTokens = 7
	// PreviewEllipsis is always appended to a vector preview.
	PreviewEllipsis = "..."
)

// Sample is one display-ready record.
type Sample struct {
	ID            int           `json:"id"`
	Vector        string        `json:"vector"`
	VectorPreview string        `json:"vectorPreview"`
	Label         string        `json:"label"`
	Image         *raster.Image `json:"-"`
	// Err is set when the image could not be rendered; Image is then nil and the
	// sample acts as a placeholder.
	Err error `json:"-"`
}

// ImageURI returns the rendered image as a data URI, or "" for a placeholder.
func (s *Sample) ImageURI() string {
	if s.Image == nil {
		return ""
	}
	return s.Image.DataURI()
}

// Preview joins the first PreviewTokens raw tokens with ", " and appends
// PreviewEllipsis, whether or not more tokens exist.
func Preview(vectorText string) string {
	tokens := pixel.Tokens(vectorText)
	if len(tokens) > PreviewTokens {
		tokens = tokens[:PreviewTokens]
	}
	return strings.Join(tokens, ", ") + PreviewEllipsis
}
