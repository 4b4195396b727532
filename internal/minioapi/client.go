// Package minioapi adapts a minio-go client to the s3api.S3API interface so the
// facade can talk to S3-compatible servers through either client library.
package minioapi

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/s3ctl/internal/s3api"
)

// minioClient is the subset of *minio.Client used by the adapter.
type minioClient interface {
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	RemoveBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var _ minioClient = (*minio.Client)(nil)

// Client implements s3api.S3API on top of minio-go.
// Per-call s3.Options are not applicable and are ignored.
type Client struct {
	mc     minioClient
	region string
}

// New creates a minio-go client for endpoint, which must be an absolute
// http or https URL. Credentials are resolved from the AWS and MinIO
// environment variables and their credential files, in that order.
func New(endpoint, region string, pathStyle bool) (*Client, error) {
	host, secure, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	lookup := minio.BucketLookupAuto
	if pathStyle {
		lookup = minio.BucketLookupPath
	}

	mc, err := minio.New(host, &minio.Options{
		Creds: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.FileAWSCredentials{},
			&credentials.FileMinioClient{},
		}),
		Secure:       secure,
		Region:       region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Client{mc: mc, region: region}, nil
}

func parseEndpoint(endpoint string) (host string, secure bool, err error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
	case "https":
		secure = true
	default:
		return "", false, fmt.Errorf("endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("endpoint %q: missing host", endpoint)
	}
	if u.Path != "" && u.Path != "/" {
		return "", false, fmt.Errorf("endpoint %q: path is not supported", endpoint)
	}
	return u.Host, secure, nil
}

// CreateBucket creates the bucket in the client's region.
func (c *Client) CreateBucket(
	ctx context.Context,
	params *s3.CreateBucketInput,
	_ ...func(*s3.Options),
) (*s3.CreateBucketOutput, error) {
	bucket := aws.ToString(params.Bucket)
	if err := c.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return nil, translateError(err)
	}
	return &s3.CreateBucketOutput{Location: aws.String("/" + bucket)}, nil
}

// DeleteBucket removes the bucket.
func (c *Client) DeleteBucket(
	ctx context.Context,
	params *s3.DeleteBucketInput,
	_ ...func(*s3.Options),
) (*s3.DeleteBucketOutput, error) {
	if err := c.mc.RemoveBucket(ctx, aws.ToString(params.Bucket)); err != nil {
		return nil, translateError(err)
	}
	return &s3.DeleteBucketOutput{}, nil
}

// HeadBucket reports a missing bucket as types.NotFound, as the SDK does.
func (c *Client) HeadBucket(
	ctx context.Context,
	params *s3.HeadBucketInput,
	_ ...func(*s3.Options),
) (*s3.HeadBucketOutput, error) {
	ok, err := c.mc.BucketExists(ctx, aws.ToString(params.Bucket))
	if err != nil {
		return nil, translateError(err)
	}
	if !ok {
		return nil, &types.NotFound{Message: aws.String("Not Found")}
	}
	return &s3.HeadBucketOutput{BucketRegion: aws.String(c.region)}, nil
}

// ListBuckets lists the buckets visible to the credentials.
func (c *Client) ListBuckets(
	ctx context.Context,
	_ *s3.ListBucketsInput,
	_ ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	infos, err := c.mc.ListBuckets(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	out := &s3.ListBucketsOutput{Buckets: make([]types.Bucket, 0, len(infos))}
	for _, info := range infos {
		out.Buckets = append(out.Buckets, types.Bucket{
			Name:         aws.String(info.Name),
			CreationDate: aws.Time(info.CreationDate),
		})
	}
	return out, nil
}

// ListObjectsV2 returns one page of at most MaxKeys objects.
//
// minio-go streams every page through a channel, so the adapter stops after
// MaxKeys+1 entries to learn whether the listing is truncated. The
// continuation token it hands out is the last key of the page, which the
// next call passes back as StartAfter.
func (c *Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	maxKeys := int32(1000)
	if params.MaxKeys != nil {
		maxKeys = *params.MaxKeys
	}
	startAfter := aws.ToString(params.StartAfter)
	if token := aws.ToString(params.ContinuationToken); token > startAfter {
		startAfter = token
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := c.mc.ListObjects(ctx, aws.ToString(params.Bucket), minio.ListObjectsOptions{
		Prefix:     aws.ToString(params.Prefix),
		StartAfter: startAfter,
		MaxKeys:    int(maxKeys),
		Recursive:  true,
	})

	out := &s3.ListObjectsV2Output{
		Name:              params.Bucket,
		Prefix:            params.Prefix,
		StartAfter:        params.StartAfter,
		ContinuationToken: params.ContinuationToken,
		MaxKeys:           aws.Int32(maxKeys),
		IsTruncated:       aws.Bool(false),
	}
	for obj := range objects {
		if obj.Err != nil {
			return nil, translateError(obj.Err)
		}
		if int32(len(out.Contents)) == maxKeys {
			out.IsTruncated = aws.Bool(true)
			if n := len(out.Contents); n > 0 {
				out.NextContinuationToken = out.Contents[n-1].Key
			}
			break
		}
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(obj.Key),
			Size:         aws.Int64(obj.Size),
			LastModified: aws.Time(obj.LastModified),
			ETag:         aws.String(obj.ETag),
			StorageClass: types.ObjectStorageClass(obj.StorageClass),
		})
	}
	out.KeyCount = aws.Int32(int32(len(out.Contents)))
	return out, nil
}

// PutObject uploads Body. A nil ContentLength streams with unknown size.
func (c *Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	size := int64(-1)
	if params.ContentLength != nil {
		size = *params.ContentLength
	}
	body := params.Body
	if body == nil {
		body = strings.NewReader("")
		size = 0
	}

	info, err := c.mc.PutObject(ctx, aws.ToString(params.Bucket), aws.ToString(params.Key), body, size,
		minio.PutObjectOptions{ContentType: aws.ToString(params.ContentType)})
	if err != nil {
		return nil, translateError(err)
	}

	out := &s3.PutObjectOutput{
		ETag: aws.String(info.ETag),
		Size: aws.Int64(info.Size),
	}
	if info.VersionID != "" {
		out.VersionId = aws.String(info.VersionID)
	}
	return out, nil
}

// DeleteObject removes the object.
func (c *Client) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	_ ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	if err := c.mc.RemoveObject(ctx, aws.ToString(params.Bucket), aws.ToString(params.Key),
		minio.RemoveObjectOptions{}); err != nil {
		return nil, translateError(err)
	}
	return &s3.DeleteObjectOutput{}, nil
}

var _ s3api.S3API = (*Client)(nil)
