// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small interface the run-report
// archive needs. The abstraction supports both AWS S3 and self-hosted MinIO
// instances.
//
// # Client Interface
//
// The Client interface covers only what the report archive needs: checking
// the bucket, creating it if needed, and uploading report objects. It also
// makes it easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket if needed.
//   - PutObject: Uploads content (with size and options).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "mirror-reports")
package storage
