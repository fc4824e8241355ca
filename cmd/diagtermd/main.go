// Command diagtermd runs the diagnostics daemon: the background poller and
// the HTTP API the CLI and remote clients talk to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"diagterm/internal/config"
	"diagterm/internal/daemon"
	"diagterm/internal/logging"
	"diagterm/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Info("diagtermd starting", logging.String("version", version.Version))

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return fmt.Errorf("start daemon: %w", err)
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("diagtermd shutting down")
	return nil
}
