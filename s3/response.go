package s3

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/s3ctl/internal/capture"
	s3errors "github.com/input-output-hk/s3ctl/s3/errors"
)

// convertError wraps a failed request in an *s3errors.Error carrying a
// *s3errors.ResponseError when the service answered. Errors without a
// response (transport failures, cancellation) are wrapped unchanged.
func (f *Facade) convertError(op, key string, err error, body *capture.Body) error {
	wrap := func(e error) error {
		if key != "" {
			return s3errors.NewObjectError(op, f.bucket, key, e)
		}
		return s3errors.NewBucketError(op, f.bucket, e)
	}

	re := &s3errors.ResponseError{Err: err, StatusCode: statusCode(err)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		re.Code = apiErr.ErrorCode()
		re.Message = apiErr.ErrorMessage()
	}
	if re.StatusCode == 0 && body != nil {
		re.StatusCode = body.StatusCode()
	}
	if apiErr == nil && re.StatusCode == 0 {
		return wrap(err)
	}

	re.Kind = kindOf(err, re.Code, re.StatusCode)

	// The body is surfaced where the code alone does not explain the failure.
	if body != nil && (re.Kind == s3errors.ErrUnknownResponse || re.Kind == s3errors.ErrBucketNotEmpty) {
		if data := body.Bytes(); len(data) > 0 {
			if utf8.Valid(data) {
				re.Body = string(data)
			} else {
				re.Err = fmt.Errorf("%w (%w)", err, s3errors.ErrUndecodableBody)
			}
		}
	}

	f.logger.Debug("request failed",
		"op", op,
		"bucket", f.bucket,
		"status", re.StatusCode,
		"code", re.Code)

	return wrap(re)
}

func statusCode(err error) int {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		return withStatus.HTTPStatusCode()
	}
	return 0
}

// kindOf classifies a service error into one of the sentinel errors.
func kindOf(err error, code string, status int) error {
	var (
		alreadyExists *types.BucketAlreadyExists
		alreadyOwned  *types.BucketAlreadyOwnedByYou
		noSuchBucket  *types.NoSuchBucket
		noSuchKey     *types.NoSuchKey
		notFound      *types.NotFound
	)
	switch {
	case errors.As(err, &alreadyExists), errors.As(err, &alreadyOwned):
		return s3errors.ErrBucketAlreadyExists
	case errors.As(err, &noSuchBucket), errors.As(err, &notFound):
		return s3errors.ErrBucketNotFound
	case errors.As(err, &noSuchKey):
		return s3errors.ErrObjectNotFound
	}

	switch code {
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
		return s3errors.ErrBucketAlreadyExists
	case "NoSuchBucket":
		return s3errors.ErrBucketNotFound
	case "NoSuchKey":
		return s3errors.ErrObjectNotFound
	case "BucketNotEmpty":
		return s3errors.ErrBucketNotEmpty
	case "InvalidBucketName":
		return s3errors.ErrInvalidBucketName
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return s3errors.ErrAccessDenied
	}
	if status == http.StatusForbidden {
		return s3errors.ErrAccessDenied
	}
	return s3errors.ErrUnknownResponse
}
