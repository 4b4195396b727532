package testutil

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/s3ctl/internal/s3api"
)

type memoryObject struct {
	data         []byte
	etag         string
	lastModified time.Time
}

type memoryBucket struct {
	created time.Time
	objects map[string]memoryObject
}

// MemoryS3 is an in-memory S3API implementation with S3 semantics for the
// operations the facade uses. Error responses are replayed through the
// per-call options so body capture middleware sees an XML error document.
type MemoryS3 struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	now     func() time.Time
}

// NewMemoryS3 creates an empty in-memory store.
func NewMemoryS3() *MemoryS3 {
	return &MemoryS3{
		buckets: make(map[string]*memoryBucket),
		now:     time.Now,
	}
}

// CreateBucket creates a bucket, failing if the name is already owned.
func (m *MemoryS3) CreateBucket(
	ctx context.Context,
	params *s3.CreateBucketInput,
	optFns ...func(*s3.Options),
) (*s3.CreateBucketOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := aws.ToString(params.Bucket)
	if _, ok := m.buckets[name]; ok {
		return nil, m.fail(optFns, http.StatusConflict, &types.BucketAlreadyOwnedByYou{
			Message: aws.String("Your previous request to create the named bucket succeeded and you already own it."),
		})
	}
	m.buckets[name] = &memoryBucket{created: m.now(), objects: make(map[string]memoryObject)}
	return &s3.CreateBucketOutput{Location: aws.String("/" + name)}, nil
}

// DeleteBucket removes an empty bucket.
func (m *MemoryS3) DeleteBucket(
	ctx context.Context,
	params *s3.DeleteBucketInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteBucketOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := aws.ToString(params.Bucket)
	b, ok := m.buckets[name]
	if !ok {
		return nil, m.fail(optFns, http.StatusNotFound, &smithy.GenericAPIError{
			Code:    "NoSuchBucket",
			Message: "The specified bucket does not exist",
		})
	}
	if len(b.objects) > 0 {
		return nil, m.fail(optFns, http.StatusConflict, &smithy.GenericAPIError{
			Code:    "BucketNotEmpty",
			Message: "The bucket you tried to delete is not empty",
		})
	}
	delete(m.buckets, name)
	return &s3.DeleteBucketOutput{}, nil
}

// HeadBucket reports whether the bucket exists.
func (m *MemoryS3) HeadBucket(
	ctx context.Context,
	params *s3.HeadBucketInput,
	optFns ...func(*s3.Options),
) (*s3.HeadBucketOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[aws.ToString(params.Bucket)]; !ok {
		return nil, &types.NotFound{Message: aws.String("Not Found")}
	}
	return &s3.HeadBucketOutput{BucketRegion: aws.String("us-east-1")}, nil
}

// ListBuckets lists all buckets sorted by name.
func (m *MemoryS3) ListBuckets(
	ctx context.Context,
	params *s3.ListBucketsInput,
	optFns ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &s3.ListBucketsOutput{Buckets: make([]types.Bucket, 0, len(names))}
	for _, name := range names {
		out.Buckets = append(out.Buckets, types.Bucket{
			Name:         aws.String(name),
			CreationDate: aws.Time(m.buckets[name].created),
		})
	}
	return out, nil
}

// ListObjectsV2 lists one page of keys in lexical order.
// Continuation tokens are the last key of the previous page.
func (m *MemoryS3) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := aws.ToString(params.Bucket)
	b, ok := m.buckets[name]
	if !ok {
		return nil, m.fail(optFns, http.StatusNotFound, &types.NoSuchBucket{
			Message: aws.String("The specified bucket does not exist"),
		})
	}

	after := aws.ToString(params.StartAfter)
	if token := aws.ToString(params.ContinuationToken); token > after {
		after = token
	}
	prefix := aws.ToString(params.Prefix)
	maxKeys := int32(1000)
	if params.MaxKeys != nil {
		maxKeys = *params.MaxKeys
	}

	keys := make([]string, 0, len(b.objects))
	for key := range b.objects {
		if key > after && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{
		Name:              aws.String(name),
		Prefix:            params.Prefix,
		StartAfter:        params.StartAfter,
		ContinuationToken: params.ContinuationToken,
		MaxKeys:           aws.Int32(maxKeys),
		IsTruncated:       aws.Bool(false),
	}
	if int32(len(keys)) > maxKeys {
		keys = keys[:maxKeys]
		out.IsTruncated = aws.Bool(true)
		if len(keys) > 0 {
			out.NextContinuationToken = aws.String(keys[len(keys)-1])
		}
	}
	for _, key := range keys {
		obj := b.objects[key]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.data))),
			LastModified: aws.Time(obj.lastModified),
			ETag:         aws.String(obj.etag),
			StorageClass: types.ObjectStorageClassStandard,
		})
	}
	out.KeyCount = aws.Int32(int32(len(keys)))
	return out, nil
}

// PutObject stores the request body under the key.
func (m *MemoryS3) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	var data []byte
	if params.Body != nil {
		var err error
		data, err = io.ReadAll(params.Body)
		if err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[aws.ToString(params.Bucket)]
	if !ok {
		return nil, m.fail(optFns, http.StatusNotFound, &types.NoSuchBucket{
			Message: aws.String("The specified bucket does not exist"),
		})
	}
	etag := CalculateETag(data)
	b.objects[aws.ToString(params.Key)] = memoryObject{data: data, etag: etag, lastModified: m.now()}
	return &s3.PutObjectOutput{ETag: aws.String(etag), Size: aws.Int64(int64(len(data)))}, nil
}

// DeleteObject removes the key. Deleting a missing key succeeds, as on S3.
func (m *MemoryS3) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[aws.ToString(params.Bucket)]
	if !ok {
		return nil, m.fail(optFns, http.StatusNotFound, &types.NoSuchBucket{
			Message: aws.String("The specified bucket does not exist"),
		})
	}
	delete(b.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// Object returns the stored content of a key, for assertions.
func (m *MemoryS3) Object(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[bucket]
	if !ok {
		return nil, false
	}
	obj, ok := b.objects[key]
	return obj.data, ok
}

// HasBucket reports whether a bucket exists, for assertions.
func (m *MemoryS3) HasBucket(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.buckets[name]
	return ok
}

func (m *MemoryS3) fail(optFns []func(*s3.Options), statusCode int, apiErr smithy.APIError) error {
	if err := ReplayErrorResponse(optFns, statusCode, ErrorXML(apiErr.ErrorCode(), apiErr.ErrorMessage())); err != nil {
		return err
	}
	return apiErr
}

var _ s3api.S3API = (*MemoryS3)(nil)
