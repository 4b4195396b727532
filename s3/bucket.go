package s3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/s3ctl/internal/capture"
	"github.com/input-output-hk/s3ctl/internal/validation"
	s3errors "github.com/input-output-hk/s3ctl/s3/errors"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

// CreateBucket creates the facade's bucket with default settings:
// no location constraint and no ACL.
//
// Errors:
//   - ErrBucketAlreadyExists: If the name is taken, by this account or another
//   - ErrInvalidBucketName: If the service or strict validation rejects the name
//   - ErrAccessDenied: If the credentials lack permission
func (f *Facade) CreateBucket(ctx context.Context) (*s3types.CreateBucketResult, error) {
	if err := f.validateBucket("createBucket"); err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "creating bucket", "bucket", f.bucket)

	var body capture.Body
	out, err := f.api.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(f.bucket),
	}, capture.WithErrorBody(&body))
	if err != nil {
		return nil, f.convertError("createBucket", "", err, &body)
	}

	return &s3types.CreateBucketResult{
		Bucket:   f.bucket,
		Location: aws.ToString(out.Location),
	}, nil
}

// DeleteBucket deletes the facade's bucket, which must be empty.
//
// The raw response body of a failed request is kept. When the failure is
// not a known kind, or the bucket is not empty, the body is returned as text
// in the *s3errors.ResponseError; a body that is not valid UTF-8 yields
// ErrUndecodableBody instead.
//
// Errors:
//   - ErrBucketNotFound: If the bucket does not exist
//   - ErrBucketNotEmpty: If the bucket still holds objects
//   - ErrUnknownResponse: If the service answered with an unmodeled error
func (f *Facade) DeleteBucket(ctx context.Context) (*s3types.DeleteBucketResult, error) {
	if err := f.validateBucket("deleteBucket"); err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "deleting bucket", "bucket", f.bucket)

	var body capture.Body
	_, err := f.api.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(f.bucket),
	}, capture.WithErrorBody(&body))
	if err != nil {
		return nil, f.convertError("deleteBucket", "", err, &body)
	}

	return &s3types.DeleteBucketResult{Bucket: f.bucket}, nil
}

// ListBucketsAndVerify lists every bucket visible to the credentials, checks
// by exact name that the facade's bucket is among them, and then lists one
// page of its objects starting after the configured cursor key.
//
// Continuation tokens are reported in the result but not followed.
//
// Errors:
//   - ErrBucketMissing: If the bucket is not in the bucket listing
func (f *Facade) ListBucketsAndVerify(ctx context.Context) (*s3types.ListResult, error) {
	if err := f.validateBucket("listBucketsAndVerify"); err != nil {
		return nil, err
	}

	startTime := time.Now()

	var body capture.Body
	out, err := f.api.ListBuckets(ctx, &s3.ListBucketsInput{}, capture.WithErrorBody(&body))
	if err != nil {
		return nil, f.convertError("listBuckets", "", err, &body)
	}

	buckets := make([]s3types.Bucket, 0, len(out.Buckets))
	found := false
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		if name == f.bucket {
			found = true
		}
		buckets = append(buckets, s3types.Bucket{
			Name:         name,
			CreationDate: aws.ToTime(b.CreationDate),
		})
	}
	if !found {
		return nil, s3errors.NewBucketError("listBucketsAndVerify", f.bucket, s3errors.ErrBucketMissing)
	}

	f.logger.DebugContext(ctx, "bucket found in listing",
		"bucket", f.bucket,
		"buckets", len(buckets))

	result, err := f.listPage(ctx, "")
	if err != nil {
		return nil, err
	}
	result.Buckets = buckets
	result.Duration = time.Since(startTime)
	return result, nil
}

// BucketExists reports whether the bucket exists and is accessible, using a
// single HeadBucket request instead of a full bucket listing.
func (f *Facade) BucketExists(ctx context.Context) (bool, error) {
	if err := f.validateBucket("bucketExists"); err != nil {
		return false, err
	}

	var body capture.Body
	_, err := f.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(f.bucket),
	}, capture.WithErrorBody(&body))
	if err == nil {
		return true, nil
	}

	converted := f.convertError("bucketExists", "", err, &body)
	if s3errors.IsBucketNotFound(converted) {
		return false, nil
	}
	return false, converted
}

func (f *Facade) validateBucket(op string) error {
	if !f.strict {
		return nil
	}
	if err := validation.ValidateBucketName(f.bucket); err != nil {
		return s3errors.NewBucketError(op, f.bucket, err)
	}
	return nil
}
