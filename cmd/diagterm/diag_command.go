package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/diagfeed"
)

func newDiagCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Show recent kernel and system log diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := limitFlag
			if limit <= 0 {
				limit = ctx.configValue().Feed.Limit
			}

			resp, err := fetchDiagnostics(cmd, ctx, limit)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if resp.Selection == string(diagfeed.SelectionUnavailable) || resp.Selection == string(diagfeed.SelectionNone) {
				fmt.Fprintln(stdout, "No diagnostics source available (journalctl and dmesg both missing or failing)")
				return nil
			}
			fmt.Fprintf(stdout, "Source: %s\n", resp.Selection)
			for _, line := range resp.Lines {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Number of lines to show")
	return cmd
}

func fetchDiagnostics(cmd *cobra.Command, ctx *commandContext, limit int) (api.DiagnosticsResponse, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return api.DiagnosticsResponse{}, err
	}
	resp, err := client.Diagnostics(cmd.Context(), limit)
	if err == nil {
		return resp, nil
	}
	if !api.IsDaemonUnavailable(err) {
		return api.DiagnosticsResponse{}, err
	}

	// One-shot local feed: construct, poll once, snapshot.
	cfg := ctx.configValue()
	tools := diagfeed.DetectTools()
	if cfg.Feed.JournalBinary != "" {
		tools.Journal = cfg.Feed.JournalBinary
	}
	if cfg.Feed.DmesgBinary != "" {
		tools.Dmesg = cfg.Feed.DmesgBinary
	}
	feed := diagfeed.New(diagfeed.Options{
		Tools:   tools,
		Limit:   limit,
		Timeout: time.Duration(cfg.Feed.ToolTimeoutMS) * time.Millisecond,
	})
	feed.Poll(cmd.Context())
	return api.DiagnosticsResponse{
		Selection: string(feed.Selection()),
		Lines:     feed.Snapshot(),
	}, nil
}
