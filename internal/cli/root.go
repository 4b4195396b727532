// Package cli implements the s3ctl command line: command dispatch,
// configuration loading and result output.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/s3ctl/s3"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

// FacadeFactory constructs the facade a command operates on.
type FacadeFactory func(ctx context.Context, bucket string, opts ...s3types.Option) (*s3.Facade, error)

// app holds the state of one invocation.
type app struct {
	v         *viper.Viper
	cfgFile   string
	stdout    io.Writer
	stderr    io.Writer
	newFacade FacadeFactory
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, args, stdout, stderr, s3.New)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory FacadeFactory) int {
	a := &app{
		v:         newViper(),
		stdout:    stdout,
		stderr:    stderr,
		newFacade: factory,
	}

	root := a.rootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		useColor := a.v.GetBool("color")
		NewOutputter(a.v.GetString("output"), stdout, stderr, useColor).PrintError(err.Error())
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "s3ctl",
		Short: "Manage the lifecycle of an S3 bucket and its objects",
		Long: `s3ctl creates, lists and deletes S3 buckets and uploads and deletes objects.

Requests go to AWS S3 in us-east-1 unless a region is configured. Set
S3_ENDPOINT (or --endpoint) to target an S3-compatible server instead.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfigFile(a.v, a.cfgFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.s3ctl/config.yaml)")
	flags.String("endpoint", "", "S3-compatible endpoint URL (env S3_ENDPOINT)")
	flags.String("region", "", "region for AWS requests (env S3CTL_REGION)")
	flags.String("backend", s3types.BackendAWS, "client library: aws or minio")
	flags.Bool("path-style", false, "force path-style bucket addressing")
	flags.Bool("strict", false, "validate bucket names and object keys before sending requests")
	flags.Duration("timeout", 0, "timeout for the whole command (0 for none)")
	flags.StringP("output", "o", string(OutputYAML), "output format: yaml or json")
	flags.Bool("color", true, "colorize status lines")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	cobra.CheckErr(bindFlags(a.v, flags))

	root.AddCommand(
		a.createCommand(),
		a.deleteCommand(),
		a.listCommand(),
		a.addObjectCommand(),
		a.deleteObjectCommand(),
		a.versionCommand(),
	)
	return root
}

// invocation is the resolved environment of a running command.
type invocation struct {
	config *Config
	out    *Outputter
	logger *slog.Logger
}

func (a *app) resolve() (*invocation, error) {
	config, err := LoadConfig(a.v)
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(config.LogLevel, a.stderr)
	if err != nil {
		return nil, err
	}
	return &invocation{
		config: config,
		out:    NewOutputter(config.OutputFormat, a.stdout, a.stderr, config.ColorOutput),
		logger: logger,
	}, nil
}

// runOperation announces the operation, performs it against a facade for
// bucket and prints its result.
func (a *app) runOperation(
	cmd *cobra.Command,
	bucket, progress string,
	opts []s3types.Option,
	op func(ctx context.Context, f *s3.Facade) (any, error),
) error {
	inv, err := a.resolve()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if inv.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.config.Timeout)
		defer cancel()
	}

	inv.out.PrintProgress(progress)

	if inv.config.Endpoint != "" {
		inv.out.PrintInfo(fmt.Sprintf("Using non-standard endpoint %s", inv.config.Endpoint))
	}

	facadeOpts := append(inv.config.facadeOptions(), s3.WithLogger(inv.logger))
	facadeOpts = append(facadeOpts, opts...)
	f, err := a.newFacade(ctx, bucket, facadeOpts...)
	if err != nil {
		return err
	}

	result, err := op(ctx, f)
	if err != nil {
		return err
	}

	if err := inv.out.PrintObject(result); err != nil {
		return err
	}
	inv.out.PrintSuccess("All done!")
	return nil
}
