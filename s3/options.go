package s3

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/s3ctl/s3/s3types"
)

// WithRegion sets the region. Without it the region comes from the shared
// AWS configuration, falling back to us-east-1.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint targets an S3-compatible endpoint instead of the regional AWS
// endpoint. Requests use path-style addressing and the region label us-east-1
// unless WithRegion is also given.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs even without an endpoint override.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithBackend selects the client library: s3types.BackendAWS (default) or
// s3types.BackendMinio, which requires WithEndpoint.
func WithBackend(backend string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Backend = backend
	}
}

// WithAWSConfig replaces loading the shared AWS configuration.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithLogger sets the logger for operation logging. Nil disables logging.
func WithLogger(logger *slog.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = logger
	}
}

// WithFilesystem sets the filesystem local files are read from.
// Defaults to the OS filesystem, with relative paths resolved against the
// working directory.
func WithFilesystem(filesystem billy.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithStartAfter sets the key object listings start after. Defaults to
// s3types.DefaultStartAfter. An empty key lists from the beginning.
func WithStartAfter(key string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.StartAfter = key
	}
}

// WithMaxKeys sets the page size of object listings (1-1000).
func WithMaxKeys(n int32) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if n > 0 {
			c.MaxKeys = n
		}
	}
}

// WithStrictValidation validates bucket names and object keys before sending
// requests. Off by default: names are sent exactly as given.
func WithStrictValidation(strict bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.StrictValidation = strict
	}
}

// WithContentTypeDetection sniffs uploaded content to set its Content-Type.
func WithContentTypeDetection(detect bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.DetectContentType = detect
	}
}

// WithTimeout sets the HTTP client timeout of the aws backend.
// Default is no timeout (0).
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}
