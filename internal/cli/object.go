package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/s3ctl/s3"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

func (a *app) addObjectCommand() *cobra.Command {
	var detectContentType bool

	cmd := &cobra.Command{
		Use:     "add-object <bucket> <file>",
		Aliases: []string{"put"},
		Short:   "Upload a local file to a bucket",
		Long: `Upload a local file to a bucket. The object key is the file path exactly
as given on the command line.`,
		Example: `  s3ctl add-object my-bucket report.txt
  s3ctl put my-bucket images/logo.png --detect-content-type`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, file := args[0], args[1]
			var opts []s3types.Option
			if detectContentType {
				opts = append(opts, s3.WithContentTypeDetection(true))
			}
			return a.runOperation(cmd, bucket,
				fmt.Sprintf("Attempting to add the object to the bucket called: %s", bucket), opts,
				func(ctx context.Context, f *s3.Facade) (any, error) {
					return f.PutObject(ctx, file, file)
				})
		},
	}

	cmd.Flags().BoolVar(&detectContentType, "detect-content-type", false,
		"set the Content-Type from the file contents")
	return cmd
}

func (a *app) deleteObjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-object <bucket> <file>",
		Short: "Delete an object from a bucket",
		Long: `Delete the object whose key equals the given file path. Deleting a key
that does not exist succeeds.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, key := args[0], args[1]
			return a.runOperation(cmd, bucket,
				fmt.Sprintf("Attempting to find and delete the object in the bucket called: %s", bucket), nil,
				func(ctx context.Context, f *s3.Facade) (any, error) {
					return f.DeleteObject(ctx, key)
				})
		},
	}
}
