package minioapi

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

// APIError carries a minio-go error response as a smithy.APIError with its
// HTTP status, so callers classify it the same way as SDK errors.
type APIError struct {
	Response minio.ErrorResponse
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Response.Code, e.Response.Message)
}

// ErrorCode returns the S3 error code.
func (e *APIError) ErrorCode() string { return e.Response.Code }

// ErrorMessage returns the S3 error message.
func (e *APIError) ErrorMessage() string { return e.Response.Message }

// ErrorFault classifies 5xx responses as server faults.
func (e *APIError) ErrorFault() smithy.ErrorFault {
	if e.Response.StatusCode >= 500 {
		return smithy.FaultServer
	}
	if e.Response.StatusCode >= 400 {
		return smithy.FaultClient
	}
	return smithy.FaultUnknown
}

// HTTPStatusCode returns the status of the failed response.
func (e *APIError) HTTPStatusCode() int { return e.Response.StatusCode }

var _ smithy.APIError = (*APIError)(nil)

// translateError maps the error codes the facade distinguishes onto the SDK's
// modeled types. Errors that carry no S3 error response pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "" {
		return err
	}

	msg := aws.String(resp.Message)
	switch resp.Code {
	case "NoSuchBucket":
		return &types.NoSuchBucket{Message: msg}
	case "NoSuchKey":
		return &types.NoSuchKey{Message: msg}
	case "BucketAlreadyExists":
		return &types.BucketAlreadyExists{Message: msg}
	case "BucketAlreadyOwnedByYou":
		return &types.BucketAlreadyOwnedByYou{Message: msg}
	}
	return &APIError{Response: resp}
}
