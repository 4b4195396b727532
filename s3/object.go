package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/s3ctl/internal/capture"
	"github.com/input-output-hk/s3ctl/internal/validation"
	s3errors "github.com/input-output-hk/s3ctl/s3/errors"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

// PutObject uploads the file at localPath to key.
//
// The whole file is read into memory and the handle closed before the
// request is sent, with Content-Length set to the file size. Content-Type is
// only set when content type detection is enabled.
//
// Errors:
//   - ErrLocalFile: If the file cannot be opened or read
//   - ErrBucketNotFound: If the bucket does not exist
func (f *Facade) PutObject(ctx context.Context, key, localPath string) (*s3types.PutObjectResult, error) {
	if err := f.validateObject("putObject", key); err != nil {
		return nil, err
	}

	path, err := f.localPath(localPath)
	if err != nil {
		return nil, s3errors.NewObjectError("putObject", f.bucket, key,
			fmt.Errorf("%w: %w", s3errors.ErrLocalFile, err))
	}
	data, err := util.ReadFile(f.fs, path)
	if err != nil {
		return nil, s3errors.NewObjectError("putObject", f.bucket, key,
			fmt.Errorf("%w: %w", s3errors.ErrLocalFile, err))
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(f.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if f.detectContentType {
		input.ContentType = aws.String(mimetype.Detect(data).String())
	}

	f.logger.InfoContext(ctx, "uploading object",
		"bucket", f.bucket,
		"key", key,
		"size", len(data))

	startTime := time.Now()

	var body capture.Body
	out, err := f.api.PutObject(ctx, input, capture.WithErrorBody(&body))
	if err != nil {
		return nil, f.convertError("putObject", key, err, &body)
	}

	return &s3types.PutObjectResult{
		Bucket:      f.bucket,
		Key:         key,
		Size:        int64(len(data)),
		ETag:        aws.ToString(out.ETag),
		VersionID:   aws.ToString(out.VersionId),
		ContentType: aws.ToString(input.ContentType),
		Duration:    time.Since(startTime),
	}, nil
}

// DeleteObject deletes key from the bucket. Deleting a key that does not
// exist succeeds, as it does on S3.
func (f *Facade) DeleteObject(ctx context.Context, key string) (*s3types.DeleteObjectResult, error) {
	if err := f.validateObject("deleteObject", key); err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "deleting object", "bucket", f.bucket, "key", key)

	var body capture.Body
	out, err := f.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	}, capture.WithErrorBody(&body))
	if err != nil {
		return nil, f.convertError("deleteObject", key, err, &body)
	}

	return &s3types.DeleteObjectResult{
		Bucket:       f.bucket,
		Key:          key,
		VersionID:    aws.ToString(out.VersionId),
		DeleteMarker: aws.ToBool(out.DeleteMarker),
	}, nil
}

// ListObjects lists one page of objects. An empty continuationToken starts
// after the configured cursor key; otherwise the listing resumes from the
// token of a previous page.
func (f *Facade) ListObjects(ctx context.Context, continuationToken string) (*s3types.ListResult, error) {
	if err := f.validateBucket("listObjects"); err != nil {
		return nil, err
	}
	return f.listPage(ctx, continuationToken)
}

// ListAllObjects follows continuation tokens until the listing is complete
// and returns every object after the configured cursor key.
func (f *Facade) ListAllObjects(ctx context.Context) (*s3types.ListResult, error) {
	if err := f.validateBucket("listAllObjects"); err != nil {
		return nil, err
	}

	startTime := time.Now()
	all := &s3types.ListResult{
		Bucket:     f.bucket,
		StartAfter: f.startAfter,
		Objects:    []s3types.Object{},
	}

	token := ""
	for {
		page, err := f.listPage(ctx, token)
		if err != nil {
			return nil, err
		}
		all.Objects = append(all.Objects, page.Objects...)
		all.KeyCount += page.KeyCount

		if !page.IsTruncated || page.NextContinuationToken == "" {
			break
		}
		token = page.NextContinuationToken
	}

	all.Duration = time.Since(startTime)
	return all, nil
}

func (f *Facade) listPage(ctx context.Context, continuationToken string) (*s3types.ListResult, error) {
	startTime := time.Now()

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(f.bucket),
		MaxKeys: aws.Int32(f.maxKeys),
	}
	if f.startAfter != "" {
		input.StartAfter = aws.String(f.startAfter)
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}

	var body capture.Body
	out, err := f.api.ListObjectsV2(ctx, input, capture.WithErrorBody(&body))
	if err != nil {
		return nil, f.convertError("listObjects", "", err, &body)
	}

	result := &s3types.ListResult{
		Bucket:                f.bucket,
		Objects:               make([]s3types.Object, 0, len(out.Contents)),
		StartAfter:            f.startAfter,
		KeyCount:              aws.ToInt32(out.KeyCount),
		IsTruncated:           aws.ToBool(out.IsTruncated),
		NextContinuationToken: aws.ToString(out.NextContinuationToken),
	}
	for _, obj := range out.Contents {
		result.Objects = append(result.Objects, s3types.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		})
	}
	if out.KeyCount == nil {
		result.KeyCount = int32(len(result.Objects))
	}
	result.Duration = time.Since(startTime)

	f.logger.DebugContext(ctx, "listed objects",
		"bucket", f.bucket,
		"count", len(result.Objects),
		"truncated", result.IsTruncated)

	return result, nil
}

func (f *Facade) validateObject(op, key string) error {
	if err := f.validateBucket(op); err != nil {
		return err
	}
	if !f.strict {
		return nil
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewObjectError(op, f.bucket, key, err)
	}
	return nil
}
