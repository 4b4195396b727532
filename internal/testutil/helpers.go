package testutil

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// StringPtr returns a pointer to the given string.
// This is useful for AWS SDK inputs that require string pointers.
func StringPtr(s string) *string {
	return aws.String(s)
}

// Int64Ptr returns a pointer to the given int64.
func Int64Ptr(i int64) *int64 {
	return aws.Int64(i)
}

// TimePtr returns a pointer to the given time.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// CalculateETag calculates the ETag for the given data.
// For simple uploads, this is the quoted hex MD5 of the content.
func CalculateETag(data []byte) string {
	h := md5.Sum(data)
	return fmt.Sprintf(`"%x"`, h)
}

// CreateTestObject creates a test object structure for ListObjectsV2 responses.
func CreateTestObject(key string, size int64, lastModified time.Time) types.Object {
	return types.Object{
		Key:          StringPtr(key),
		Size:         Int64Ptr(size),
		LastModified: TimePtr(lastModified),
		ETag:         StringPtr(fmt.Sprintf(`"%x"`, md5.Sum([]byte(key)))),
		StorageClass: types.ObjectStorageClassStandard,
	}
}

// CreateTestBucket creates a test bucket structure for ListBuckets responses.
func CreateTestBucket(name string) types.Bucket {
	return types.Bucket{
		Name:         StringPtr(name),
		CreationDate: TimePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// ReplayErrorResponse runs the per-call options a mock received through a
// middleware stack whose transport answers with the given status and body.
// Middleware registered by the options (such as error body capture) observes
// the response as it would on a real call.
func ReplayErrorResponse(optFns []func(*s3.Options), statusCode int, body []byte) error {
	var opts s3.Options
	for _, fn := range optFns {
		fn(&opts)
	}

	stack := middleware.NewStack("replay", smithyhttp.NewStackRequest)
	for _, fn := range opts.APIOptions {
		if err := fn(stack); err != nil {
			return fmt.Errorf("apply api option: %w", err)
		}
	}

	transport := middleware.HandlerFunc(func(ctx context.Context, in interface{}) (interface{}, middleware.Metadata, error) {
		return &smithyhttp.Response{
			Response: &http.Response{
				StatusCode: statusCode,
				Header:     http.Header{},
				Body:       io.NopCloser(strings.NewReader(string(body))),
			},
		}, middleware.Metadata{}, nil
	})

	_, _, err := middleware.DecorateHandler(transport, stack).Handle(context.Background(), struct{}{})
	return err
}

// ErrorXML renders an S3-style XML error document.
func ErrorXML(code, message string) []byte {
	return []byte(fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<Error><Code>%s</Code><Message>%s</Message><RequestId>test-request</RequestId></Error>`,
		code, message))
}
