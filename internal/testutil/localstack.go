package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	"github.com/testcontainers/testcontainers-go/wait"
)

const localStackImage = "localstack/localstack:latest"

// LocalStack is a running LocalStack container serving S3.
type LocalStack struct {
	container *localstack.LocalStackContainer
	endpoint  string
	region    string
}

// StartLocalStack starts a LocalStack container and waits for its health endpoint.
func StartLocalStack(ctx context.Context) (*LocalStack, error) {
	container, err := localstack.Run(ctx,
		localStackImage,
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_localstack/health").
				WithPort("4566").
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start localstack: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "4566")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &LocalStack{
		container: container,
		endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		region:    "us-east-1",
	}, nil
}

// Endpoint returns the S3 endpoint URL of the container.
func (l *LocalStack) Endpoint() string {
	return l.endpoint
}

// AWSConfig returns an SDK configuration with static test credentials.
func (l *LocalStack) AWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(l.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Client returns a path-style S3 client bound to the container.
func (l *LocalStack) Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := l.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(l.endpoint)
	}), nil
}

// Terminate stops and removes the container.
func (l *LocalStack) Terminate(ctx context.Context) error {
	if l.container == nil {
		return nil
	}
	if err := l.container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate localstack: %w", err)
	}
	return nil
}

// SetupLocalStack starts LocalStack for a test and registers its cleanup.
// Tests are skipped in short mode.
func SetupLocalStack(t *testing.T) *LocalStack {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	ls, err := StartLocalStack(ctx)
	if err != nil {
		t.Fatalf("Failed to start LocalStack: %v", err)
	}
	t.Cleanup(func() {
		if err := ls.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate LocalStack: %v", err)
		}
	})
	return ls
}
