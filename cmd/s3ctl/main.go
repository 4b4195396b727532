// Command s3ctl manages the lifecycle of an S3 bucket and its objects.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/input-output-hk/s3ctl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
