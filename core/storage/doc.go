// Package storage provides an abstraction layer for the document store.
//
// Unloading reports are JSON documents in an S3-compatible bucket, one
// object per report under a configurable prefix. This package wraps the
// MinIO Go client with a narrow interface so the report store can be mocked
// in unit tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: verifies access to the target bucket.
//   - MakeBucket: creates the bucket on first start if needed.
//   - PutObject: persists a newly submitted report document.
//   - GetObject: retrieves a report document as a stream.
//   - ListObjects: enumerates report documents under the prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
