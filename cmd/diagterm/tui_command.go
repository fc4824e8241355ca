package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"diagterm/internal/logging"
	"diagterm/internal/tui"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	var refreshFlag time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive diagnostics dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, ctx, refreshFlag)
		},
	}

	cmd.Flags().DurationVar(&refreshFlag, "refresh", 0, "Refresh interval (defaults to the configured poll interval)")
	return cmd
}

func runDashboard(cmd *cobra.Command, ctx *commandContext, refresh time.Duration) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	// The dashboard owns the terminal; route logs to a file, never stdout.
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      "json",
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "diagterm.log")},
	})
	if err != nil {
		logger = logging.NewNop()
	}
	return tui.Run(cfg, logger, refresh)
}
