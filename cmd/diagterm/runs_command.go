package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/history"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent command history",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := fetchRuns(cmd, ctx, limitFlag)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No commands recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				exit := fmt.Sprintf("%d", run.ExitCode)
				if run.TimedOut {
					exit += " (timeout)"
				}
				rows = append(rows, []string{
					shortID(run.ID),
					run.Command,
					exit,
					run.StartedAt,
					(time.Duration(run.DurationMS) * time.Millisecond).String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Command", "Exit", "Started", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Number of history entries to show")
	return cmd
}

func fetchRuns(cmd *cobra.Command, ctx *commandContext, limit int) ([]api.RunRecord, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return nil, err
	}
	runs, err := client.Runs(cmd.Context(), limit)
	if err == nil {
		return runs, nil
	}
	if !api.IsDaemonUnavailable(err) {
		return nil, err
	}

	store, err := history.Open(ctx.configValue().DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open command history: %w", err)
	}
	defer store.Close()
	local, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return nil, err
	}
	return api.FromRuns(local), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
