// Command atlasctl runs the eruption enrichment over local files and prints
// statistics, summaries, and data-quality checks.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/eruption-atlas/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx)
	stop()
	os.Exit(int(code))
}
