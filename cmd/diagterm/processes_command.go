package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/sysinfo"
)

func newProcessesCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "processes",
		Short: "Show the top processes by CPU usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := limitFlag
			if limit <= 0 {
				limit = ctx.configValue().Collect.ProcessCount
			}

			rows, err := fetchProcesses(cmd, ctx, limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No process information available")
				return nil
			}

			tableRows := make([][]string, 0, len(rows))
			for _, p := range rows {
				tableRows = append(tableRows, []string{
					fmt.Sprintf("%d", p.PID),
					p.Name,
					p.User,
					fmt.Sprintf("%.1f", p.CPUPercent),
					fmt.Sprintf("%.1f", p.MemPercent),
					sysinfo.FormatBytes(p.ReadBytes),
					sysinfo.FormatBytes(p.WriteBytes),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"PID", "Name", "User", "CPU %", "Mem %", "Read", "Written"},
				tableRows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Number of processes to show")
	return cmd
}

func fetchProcesses(cmd *cobra.Command, ctx *commandContext, limit int) ([]api.ProcessRow, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return nil, err
	}
	rows, err := client.Processes(cmd.Context(), limit)
	if err == nil {
		return rows, nil
	}
	if !api.IsDaemonUnavailable(err) {
		return nil, err
	}

	local, err := sysinfo.NewCollector().TopProcesses(cmd.Context(), limit)
	if err != nil {
		return nil, err
	}
	return api.FromProcesses(local), nil
}
