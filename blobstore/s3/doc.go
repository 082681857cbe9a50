// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("eu-central-1"))
//	client := awss3.NewFromConfig(cfg)
//	store := s3.NewStore(client, "my-bucket", "datasets/")
//
//	res, err := pipeline.DecodeBlob(ctx, store, "cataract.csv.gz")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large galleries
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
