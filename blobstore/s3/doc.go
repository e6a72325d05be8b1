// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dictionaries/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = t.SaveToStore(ctx, store, "en-words.trie")
//
// # Features
//
//   - Streaming multipart uploads for large dictionaries
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
