package s3

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/s3ctl/internal/minioapi"
	"github.com/input-output-hk/s3ctl/internal/s3api"
	s3errors "github.com/input-output-hk/s3ctl/s3/errors"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

// Facade performs bucket lifecycle operations against one bucket.
// The bucket name is stored as given and never changes.
type Facade struct {
	// api is the client used for every request
	api s3api.S3API

	bucket   string
	region   string
	endpoint string

	// fs is where PutObject reads local files from
	fs billy.Filesystem

	// osPaths is set when fs is the default OS filesystem rooted at /,
	// so relative paths must be made absolute first
	osPaths bool

	logger            *slog.Logger
	startAfter        string
	maxKeys           int32
	strict            bool
	detectContentType bool
}

func newConfig(opts []s3types.Option) *s3types.ClientConfig {
	cfg := &s3types.ClientConfig{
		Backend:    s3types.BackendAWS,
		StartAfter: s3types.DefaultStartAfter,
		MaxKeys:    s3types.DefaultMaxKeys,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// New creates a Facade for bucket using the configured backend.
// Credentials come from the backend's default credential chain.
//
// Example:
//
//	f, err := s3.New(ctx, "my-bucket",
//	    s3.WithEndpoint("http://localhost:9000"),
//	    s3.WithLogger(slog.Default()),
//	)
func New(ctx context.Context, bucket string, opts ...s3types.Option) (*Facade, error) {
	cfg := newConfig(opts)
	f := newFacade(bucket, cfg)

	if cfg.Endpoint != "" {
		f.logger.InfoContext(ctx, "using custom endpoint",
			"endpoint", cfg.Endpoint,
			"region", f.regionFor(cfg, ""),
			"backend", cfg.Backend)
	}

	switch cfg.Backend {
	case s3types.BackendAWS, "":
		if err := f.initAWS(ctx, cfg); err != nil {
			return nil, err
		}
	case s3types.BackendMinio:
		if cfg.Endpoint == "" {
			return nil, s3errors.NewError("client initialization", s3errors.ErrInvalidInput).
				WithMessage("the minio backend requires an endpoint")
		}
		f.region = f.regionFor(cfg, "")
		f.endpoint = cfg.Endpoint
		client, err := minioapi.New(cfg.Endpoint, f.region, true)
		if err != nil {
			return nil, s3errors.NewError("client initialization", err)
		}
		f.api = client
	default:
		return nil, s3errors.NewError("client initialization", s3errors.ErrInvalidInput).
			WithMessage("unknown backend " + cfg.Backend)
	}

	f.logger.DebugContext(ctx, "client initialized",
		"bucket", bucket,
		"region", f.region,
		"endpoint", f.endpoint)

	return f, nil
}

// NewWithClient creates a Facade around an existing client.
// This is primarily used for testing with mocked clients.
func NewWithClient(api s3api.S3API, bucket string, opts ...s3types.Option) *Facade {
	cfg := newConfig(opts)
	f := newFacade(bucket, cfg)
	f.api = api
	f.region = f.regionFor(cfg, "")
	f.endpoint = cfg.Endpoint
	return f
}

func newFacade(bucket string, cfg *s3types.ClientConfig) *Facade {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	filesystem := cfg.Filesystem
	osPaths := false
	if filesystem == nil {
		filesystem = osfs.New("/")
		osPaths = true
	}

	return &Facade{
		bucket:            bucket,
		fs:                filesystem,
		osPaths:           osPaths,
		logger:            logger,
		startAfter:        cfg.StartAfter,
		maxKeys:           cfg.MaxKeys,
		strict:            cfg.StrictValidation,
		detectContentType: cfg.DetectContentType,
	}
}

// regionFor picks the region: an explicit option, then the endpoint label,
// then the shared configuration, then the default.
func (f *Facade) regionFor(cfg *s3types.ClientConfig, shared string) string {
	switch {
	case cfg.Region != "":
		return cfg.Region
	case cfg.Endpoint != "":
		return s3types.CustomEndpointRegion
	case shared != "":
		return shared
	default:
		return s3types.DefaultRegion
	}
}

func (f *Facade) initAWS(ctx context.Context, cfg *s3types.ClientConfig) error {
	var awsCfg aws.Config
	if cfg.CustomAWSConfig != nil {
		awsCfg = *cfg.CustomAWSConfig
	} else {
		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return s3errors.NewError("client initialization", err)
		}
	}
	awsCfg.Region = f.regionFor(cfg, awsCfg.Region)

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.Timeout > 0 {
		httpClient := &http.Client{Timeout: cfg.Timeout}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	f.api = client
	f.region = awsCfg.Region
	f.endpoint = aws.ToString(client.Options().BaseEndpoint)
	return nil
}

// Bucket returns the bucket name the facade is bound to.
func (f *Facade) Bucket() string {
	return f.bucket
}

// Region returns the region label requests are signed for.
func (f *Facade) Region() string {
	return f.region
}

// Endpoint returns the configured endpoint override, or "" when requests go
// to the regional AWS endpoint.
func (f *Facade) Endpoint() string {
	return f.endpoint
}

// localPath maps a caller's path onto the facade filesystem.
func (f *Facade) localPath(path string) (string, error) {
	if !f.osPaths || filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Abs(path)
}
