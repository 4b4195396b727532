// Package s3 provides a bucket-scoped facade over an S3 client library.
//
// A Facade is bound to one bucket name at construction and exposes the
// bucket lifecycle: create and delete the bucket, verify it exists and list
// its objects, upload a local file and delete an object. Every operation is a
// single blocking request against the service; nothing is retried beyond what
// the underlying client does by default.
//
// The default backend is aws-sdk-go-v2. An S3-compatible server can be
// targeted with WithEndpoint, which switches to path-style addressing under
// a fixed region label, and minio-go can be selected with WithBackend.
//
// Example usage:
//
//	f, err := s3.New(ctx, "test-bucket-1",
//	    s3.WithEndpoint("http://localhost:4566"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if _, err := f.CreateBucket(ctx); err != nil {
//	    return err
//	}
//	if _, err := f.PutObject(ctx, "report.txt", "/tmp/report.txt"); err != nil {
//	    return err
//	}
//
// Failed responses are returned as *errors.ResponseError values which carry
// the HTTP status, the service error code and, for responses the client
// library could not model, the raw response body as text.
package s3
