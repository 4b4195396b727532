package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/s3ctl/s3"
	s3errors "github.com/input-output-hk/s3ctl/s3/errors"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

const (
	verifyScan = "scan"
	verifyHead = "head"
)

func (a *app) listCommand() *cobra.Command {
	var (
		startAfter string
		maxKeys    int32
		all        bool
		verify     string
	)

	cmd := &cobra.Command{
		Use:   "list <bucket>",
		Short: "Verify a bucket exists and list its objects",
		Long: `Verify that a bucket exists and list the first page of its objects.

By default existence is verified by scanning the account's bucket listing
and the object listing starts after the key "foo". Use --verify head to
check the bucket directly and --all to follow continuation tokens.`,
		Example: `  s3ctl list my-bucket
  s3ctl list my-bucket --start-after "" --all
  s3ctl list my-bucket --verify head -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket := args[0]
			if verify != verifyScan && verify != verifyHead {
				return fmt.Errorf("unsupported verify mode %q: must be %s or %s", verify, verifyScan, verifyHead)
			}

			opts := []s3types.Option{s3.WithMaxKeys(maxKeys)}
			if cmd.Flags().Changed("start-after") {
				opts = append(opts, s3.WithStartAfter(startAfter))
			}

			return a.runOperation(cmd, bucket,
				fmt.Sprintf("Attempting to find and list out the objects in the bucket called: %s", bucket), opts,
				func(ctx context.Context, f *s3.Facade) (any, error) {
					return listBucket(ctx, f, verify, all)
				})
		},
	}

	cmd.Flags().StringVar(&startAfter, "start-after", s3types.DefaultStartAfter, "key the object listing starts after")
	cmd.Flags().Int32Var(&maxKeys, "max-keys", s3types.DefaultMaxKeys, "maximum objects per page")
	cmd.Flags().BoolVar(&all, "all", false, "follow continuation tokens and list every page")
	cmd.Flags().StringVar(&verify, "verify", verifyScan, "how to verify the bucket exists: scan or head")
	return cmd
}

func listBucket(ctx context.Context, f *s3.Facade, verify string, all bool) (*s3types.ListResult, error) {
	if verify == verifyScan {
		result, err := f.ListBucketsAndVerify(ctx)
		if err != nil || !all || !result.IsTruncated {
			return result, err
		}
		rest, err := f.ListAllObjects(ctx)
		if err != nil {
			return nil, err
		}
		rest.Buckets = result.Buckets
		return rest, nil
	}

	exists, err := f.BucketExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, s3errors.NewBucketError("bucketExists", f.Bucket(), s3errors.ErrBucketMissing)
	}
	if all {
		return f.ListAllObjects(ctx)
	}
	return f.ListObjects(ctx, "")
}
