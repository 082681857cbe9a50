// Package pixvec decodes medical-image datasets stored as quasi-CSV into
// display-ready samples.
//
// Each data line holds a quoted, comma-separated vector of grayscale intensities
// followed by a label:
//
//	image_vector,label
//	"10,20,30,40",Normal
//	"1,2,3,4",Cataract
//
// The pipeline parses rows (package quasicsv), decodes intensities (package pixel),
// lays them out as lossless bitmaps (package raster) and assembles a bounded list of
// samples (package gallery).
//
// # Quick Start
//
//	p := pixvec.New(pixvec.WithLimit(10))
//	res, err := p.Decode(ctx, text)
//	for _, s := range res.Samples {
//	    fmt.Println(s.ID, s.Label, s.VectorPreview, s.ImageURI())
//	}
//
// Loading from a blob store decompresses by name suffix (.gz, .tgz, .tar.gz, .zst, .lz4):
//
//	store := blobstore.NewLocalStore("./datasets")
//	res, err := p.DecodeBlob(ctx, store, "cataract.csv.gz")
//	manifest, err := p.Publish(ctx, store, "galleries/run-1", res)
//
// # Error Model
//
// Only ErrInvalidInput and context cancellation fail a decode call. Malformed rows
// (RowFormatError), bad tokens (NumericParseWarning), non-square vectors
// (DimensionMismatchWarning) and unavailable surfaces (RasterContextError) are
// collected in Result.Report. A sample whose surface was unavailable stays in the
// output without an image, so ids remain dense.
package pixvec
