// Package errors provides error types and handling for bucket facade operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a facade operation error with context about the operation that failed.
// It wraps the underlying SDK or filesystem error with the bucket and key involved.
type Error struct {
	// Op is the operation that failed (e.g., "createBucket", "putObject")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// ResponseError is a failed response from the storage service.
//
// Kind is one of the sentinels below and classifies the failure; Err is the
// error returned by the client library. Body holds the raw response body
// decoded as text, when one was captured.
type ResponseError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
	Kind       error
	Err        error
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	msg := e.Code
	if e.Message != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Message
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: response body: %s", msg, e.Body)
	}
	return msg
}

// Unwrap exposes both the classification sentinel and the client library error.
func (e *ResponseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Sentinel errors for common failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3: object not found")

	// ErrBucketNotFound indicates that the service reported the bucket as missing
	ErrBucketNotFound = errors.New("s3: bucket not found")

	// ErrBucketMissing indicates that the bucket was not present in the account's bucket listing
	ErrBucketMissing = errors.New("s3: bucket not in bucket listing")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3: invalid input")

	// ErrBucketAlreadyExists indicates that the bucket already exists
	ErrBucketAlreadyExists = errors.New("s3: bucket already exists")

	// ErrBucketNotEmpty indicates that the bucket is not empty and cannot be deleted
	ErrBucketNotEmpty = errors.New("s3: bucket not empty")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3: invalid object key")

	// ErrLocalFile indicates that a local file could not be opened or read
	ErrLocalFile = errors.New("s3: local file error")

	// ErrUnknownResponse indicates a response the client library could not map to a known error
	ErrUnknownResponse = errors.New("s3: unknown error response")

	// ErrUndecodableBody indicates that an error response body was not valid UTF-8 text
	ErrUndecodableBody = errors.New("s3: error response body is not valid text")
)

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found,
// either by the service or by the bucket listing scan.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound) || errors.Is(err, ErrBucketMissing)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidObjectKey)
}

// ResponseBody returns the decoded response body carried by err, if any.
func ResponseBody(err error) (string, bool) {
	var re *ResponseError
	if errors.As(err, &re) && re.Body != "" {
		return re.Body, true
	}
	return "", false
}
