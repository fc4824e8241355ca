package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/logs"
)

const followWait = 5 * time.Second

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var followFlag bool
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := cmd.Context()
			if followFlag {
				var cancel context.CancelFunc
				runCtx, cancel = signal.NotifyContext(runCtx, syscall.SIGINT, syscall.SIGTERM)
				defer cancel()
			}

			offset, err := printLogChunk(runCtx, cmd, ctx, -1, limitFlag, false)
			if err != nil {
				return err
			}
			if !followFlag {
				return nil
			}

			for {
				offset, err = printLogChunk(runCtx, cmd, ctx, offset, limitFlag, true)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&followFlag, "follow", "f", false, "Keep waiting for new log lines")
	cmd.Flags().IntVar(&limitFlag, "limit", 200, "Number of lines per fetch")
	return cmd
}

// printLogChunk fetches one batch of log lines, preferring the daemon API and
// falling back to reading the log file directly.
func printLogChunk(runCtx context.Context, cmd *cobra.Command, ctx *commandContext, offset int64, limit int, follow bool) (int64, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return offset, err
	}

	resp, err := client.Logs(runCtx, offset, limit, follow, followWait)
	if err != nil && api.IsDaemonUnavailable(err) {
		local, tailErr := logs.Tail(runCtx, ctx.configValue().DaemonLogPath(), logs.TailOptions{
			Offset: offset,
			Limit:  limit,
			Follow: follow,
			Wait:   followWait,
		})
		if tailErr != nil {
			return offset, tailErr
		}
		resp = api.LogTailResponse{Lines: local.Lines, Offset: local.Offset}
		err = nil
	}
	if err != nil {
		return offset, err
	}

	for _, line := range resp.Lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return resp.Offset, nil
}
