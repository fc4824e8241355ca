package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"diagterm/internal/history"
	"diagterm/internal/runner"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run -- <command>",
		Short: "Execute a shell command and record it in history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.Runner.Enabled {
				return errors.New("command runner is disabled in the config (set runner.enabled = true)")
			}

			command := strings.TrimSpace(strings.Join(args, " "))
			run := runner.New(time.Duration(cfg.Runner.Timeout) * time.Second)
			result, err := run.Run(cmd.Context(), command)
			if err != nil {
				return err
			}

			recordRun(ctx, cmd, result)

			stdout := cmd.OutOrStdout()
			if result.Output != "" {
				fmt.Fprint(stdout, result.Output)
				if !strings.HasSuffix(result.Output, "\n") {
					fmt.Fprintln(stdout)
				}
			}
			if result.TimedOut {
				return fmt.Errorf("command timed out after %s", time.Duration(cfg.Runner.Timeout)*time.Second)
			}
			if result.ExitCode != 0 {
				return fmt.Errorf("command exited with status %d", result.ExitCode)
			}
			return nil
		},
	}
}

// recordRun is best effort: a history failure never masks the command result.
func recordRun(ctx *commandContext, cmd *cobra.Command, result runner.Result) {
	cfg := ctx.configValue()
	store, err := history.Open(cfg.DatabasePath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: command history unavailable: %v\n", err)
		return
	}
	defer store.Close()
	if _, err := store.Record(cmd.Context(), result); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: record command history: %v\n", err)
	}
}
