// Package main is the entrypoint for the headless tick host.
// It registers the demo app builder and runs it under a simulated engine
// that delivers visual frames and physics steps.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aelexs/tickhost/internal/host"
	"github.com/aelexs/tickhost/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := host.RegisterBuilder(buildDemo); err != nil {
		return fmt.Errorf("register builder: %w", err)
	}
	return server.Run(ctx, server.Params{Name: "tickhost"}, nil)
}
