// Package s3types provides shared type definitions for the s3 facade.
package s3types

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"
)

// Backend names accepted by WithBackend.
const (
	// BackendAWS uses aws-sdk-go-v2 (the default).
	BackendAWS = "aws"

	// BackendMinio uses minio-go against an S3-compatible endpoint.
	BackendMinio = "minio"
)

const (
	// DefaultRegion is the region used when neither an override nor the
	// shared configuration supplies one.
	DefaultRegion = "us-east-1"

	// CustomEndpointRegion is the region label used with an endpoint override.
	CustomEndpointRegion = "us-east-1"

	// DefaultStartAfter is the fixed cursor key object listings start after.
	DefaultStartAfter = "foo"

	// DefaultMaxKeys is the page size requested from ListObjectsV2.
	DefaultMaxKeys int32 = 1000
)

// Bucket is a bucket as returned by a bucket listing.
type Bucket struct {
	Name         string    `json:"name" yaml:"name"`
	CreationDate time.Time `json:"creationDate,omitempty" yaml:"creationDate,omitempty"`
}

// Object represents an object with its basic metadata.
type Object struct {
	// Key is the object key
	Key string `json:"key" yaml:"key"`

	// Size is the object size in bytes
	Size int64 `json:"size" yaml:"size"`

	// LastModified is when the object was last modified
	LastModified time.Time `json:"lastModified,omitempty" yaml:"lastModified,omitempty"`

	// ETag is the entity tag for the object
	ETag string `json:"etag,omitempty" yaml:"etag,omitempty"`

	// StorageClass is the storage class
	StorageClass string `json:"storageClass,omitempty" yaml:"storageClass,omitempty"`
}

// CreateBucketResult contains the result of a create-bucket request.
type CreateBucketResult struct {
	Bucket   string `json:"bucket" yaml:"bucket"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// DeleteBucketResult contains the result of a delete-bucket request.
type DeleteBucketResult struct {
	Bucket string `json:"bucket" yaml:"bucket"`
}

// ListResult contains the result of a list operation.
type ListResult struct {
	// Bucket is the bucket whose objects were listed
	Bucket string `json:"bucket" yaml:"bucket"`

	// Buckets holds the account's bucket listing when the list verified existence by scan
	Buckets []Bucket `json:"buckets,omitempty" yaml:"buckets,omitempty"`

	// Objects contains the listed objects
	Objects []Object `json:"objects" yaml:"objects"`

	// StartAfter is the cursor key the listing started after
	StartAfter string `json:"startAfter,omitempty" yaml:"startAfter,omitempty"`

	// KeyCount is the number of keys returned
	KeyCount int32 `json:"keyCount" yaml:"keyCount"`

	// IsTruncated indicates if more objects are available
	IsTruncated bool `json:"isTruncated" yaml:"isTruncated"`

	// NextContinuationToken resumes the listing when IsTruncated is set
	NextContinuationToken string `json:"nextContinuationToken,omitempty" yaml:"nextContinuationToken,omitempty"`

	// Duration is how long the operation took
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// PutObjectResult contains the result of an upload.
type PutObjectResult struct {
	Bucket      string        `json:"bucket" yaml:"bucket"`
	Key         string        `json:"key" yaml:"key"`
	Size        int64         `json:"size" yaml:"size"`
	ETag        string        `json:"etag,omitempty" yaml:"etag,omitempty"`
	VersionID   string        `json:"versionId,omitempty" yaml:"versionId,omitempty"`
	ContentType string        `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// DeleteObjectResult contains the result of an object deletion.
type DeleteObjectResult struct {
	Bucket       string `json:"bucket" yaml:"bucket"`
	Key          string `json:"key" yaml:"key"`
	VersionID    string `json:"versionId,omitempty" yaml:"versionId,omitempty"`
	DeleteMarker bool   `json:"deleteMarker,omitempty" yaml:"deleteMarker,omitempty"`
}

// Configuration types for functional options

// ClientConfig holds configuration for the facade.
type ClientConfig struct {
	Backend           string
	Region            string
	Endpoint          string
	ForcePathStyle    bool
	Timeout           time.Duration
	CustomAWSConfig   *aws.Config
	Logger            *slog.Logger
	Filesystem        billy.Filesystem
	StartAfter        string
	MaxKeys           int32
	StrictValidation  bool
	DetectContentType bool
}

// Option is a functional option for configuring the facade.
type Option func(*ClientConfig)
