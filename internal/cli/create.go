package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/s3ctl/s3"
)

func (a *app) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <bucket>",
		Short: "Create a bucket",
		Long: `Create a bucket in the configured region.

The name is sent as given unless --strict is set, in which case it must
satisfy the S3 bucket naming rules.`,
		Example: `  s3ctl create my-bucket
  S3_ENDPOINT=http://localhost:4566 s3ctl create my-bucket`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket := args[0]
			return a.runOperation(cmd, bucket,
				fmt.Sprintf("Attempting to create a bucket called: %s", bucket), nil,
				func(ctx context.Context, f *s3.Facade) (any, error) {
					return f.CreateBucket(ctx)
				})
		},
	}
}
