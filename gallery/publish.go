package gallery

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/hupe1980/pixvec/blobstore"
	"github.com/hupe1980/pixvec/codec"
)

// ManifestName is the blob name of the manifest under a gallery prefix.
const ManifestName = "manifest.json"

// Record is the serialized form of a sample.
type Record struct {
	ID            int    `json:"id"`
	Vector        string `json:"vector"`
	VectorPreview string `json:"vectorPreview"`
	Label         string `json:"label"`
	// Image is a data URI, empty for a placeholder.
	Image string `json:"image"`
	Error string `json:"error,omitempty"`
}

// Record converts s to its serialized form.
func (s *Sample) Record() Record {
	r := Record{
		ID:            s.ID,
		Vector:        s.Vector,
		VectorPreview: s.VectorPreview,
		Label:         s.Label,
		Image:         s.ImageURI(),
	}
	if s.Err != nil {
		r.Error = s.Err.Error()
	}
	return r
}

// Records converts samples to their serialized form.
func Records(samples []Sample) []Record {
	out := make([]Record, len(samples))
	for i := range samples {
		out[i] = samples[i].Record()
	}
	return out
}

// ManifestEntry points at one published image.
type ManifestEntry struct {
	ID            int    `json:"id"`
	Label         string `json:"label"`
	VectorPreview string `json:"vectorPreview"`
	// File is the image blob name relative to the gallery prefix, empty for a placeholder.
	File   string `json:"file,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Error  string `json:"error,omitempty"`
}

// Manifest describes a published gallery.
type Manifest struct {
	Prefix    string          `json:"prefix"`
	Format    string          `json:"format,omitempty"`
	Codec     string          `json:"codec"`
	CreatedAt time.Time       `json:"createdAt"`
	Samples   []ManifestEntry `json:"samples"`
}

// ImageName returns the blob name of a sample image relative to the gallery prefix.
func ImageName(id int, ext string) string {
	return fmt.Sprintf("%04d.%s", id, ext)
}

// Publish writes every rendered image as <prefix>/<id>.<ext> and then the manifest as
// <prefix>/manifest.json. Placeholders appear in the manifest without a file.
// Empty rasters are treated like placeholders since they have no bytes to store.
func Publish(ctx context.Context, store blobstore.BlobStore, prefix string, samples []Sample, c codec.Codec) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}

	m := &Manifest{
		Prefix:    prefix,
		Codec:     c.Name(),
		CreatedAt: time.Now().UTC(),
		Samples:   make([]ManifestEntry, 0, len(samples)),
	}

	for i := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s := &samples[i]
		entry := ManifestEntry{
			ID:            s.ID,
			Label:         s.Label,
			VectorPreview: s.VectorPreview,
		}
		if s.Err != nil {
			entry.Error = s.Err.Error()
		}

		if img := s.Image; img != nil {
			entry.Width, entry.Height = img.Width, img.Height
			if m.Format == "" {
				m.Format = img.Format.String()
			}
			if len(img.Encoded) > 0 {
				entry.File = ImageName(s.ID, img.Format.Ext())
				if err := store.Put(ctx, path.Join(prefix, entry.File), img.Encoded); err != nil {
					return nil, fmt.Errorf("gallery: put image %d: %w", s.ID, err)
				}
			}
		}

		m.Samples = append(m.Samples, entry)
	}

	data, err := c.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("gallery: marshal manifest: %w", err)
	}
	if err := store.Put(ctx, path.Join(prefix, ManifestName), data); err != nil {
		return nil, fmt.Errorf("gallery: put manifest: %w", err)
	}

	return m, nil
}

// LoadManifest reads the manifest of a published gallery.
func LoadManifest(ctx context.Context, store blobstore.BlobStore, prefix string, c codec.Codec) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}

	blob, err := store.Open(ctx, path.Join(prefix, ManifestName))
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("gallery: unmarshal manifest: %w", err)
	}
	return &m, nil
}
