// Package blobstore provides storage abstraction for serialized trie
// dictionaries.
//
// BlobStore is the interface for reading and writing dictionary blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with atomic writes
//   - MemoryStore: In-memory, for tests and ephemeral dictionaries
//   - s3.Store: Amazon S3 with managed multipart uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for writing
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Writes must become visible atomically: a blob written through Create
// must not be observable by Open until Close succeeds.
package blobstore
