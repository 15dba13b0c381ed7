// Command reviewflow-coverage builds the per-target coverage table from
// a directory of depth files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genomewalker/reviewflow/internal/coverageapp"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := coverageapp.RunContext(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
