// Package main provides the proxy-inspector CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/evm-proxy-inspector/config"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/commands"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Only the log level is needed this early; commands load the full config themselves.
	cfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lggr, err := (&logger.Config{Level: cfg.Log.Level}).New()
	if err != nil {
		return err
	}
	defer func() { _ = lggr.Sync() }()

	rootCmd := &cobra.Command{
		Use:           "proxy-inspector",
		Short:         "Detect and resolve EVM proxy contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(commands.New(lggr).All()...)

	return rootCmd.ExecuteContext(ctx)
}
