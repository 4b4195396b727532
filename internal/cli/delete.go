package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/s3ctl/s3"
)

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <bucket>",
		Short: "Delete a bucket",
		Long: `Delete a bucket. The bucket must be empty; otherwise the server's
response body is printed with the error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket := args[0]
			return a.runOperation(cmd, bucket,
				fmt.Sprintf("Attempting to delete the bucket named: %s", bucket), nil,
				func(ctx context.Context, f *s3.Facade) (any, error) {
					return f.DeleteBucket(ctx)
				})
		},
	}
}
