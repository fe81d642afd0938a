package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"poolPulse/internal/output"
)

func runBlocks(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	windows, err := a.runner.ResolveWindows(ctx)
	if err != nil {
		return err
	}
	return output.NewJSONSink(os.Stdout, a.cfg.Pretty).Emit(windows)
}
