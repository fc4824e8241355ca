package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/sysinfo"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a one-shot host resource summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := fetchSummary(cmd, ctx)
			if err != nil {
				return err
			}
			if jsonFlag {
				return writeJSON(cmd, summary)
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Host:    %s (%s, %s)\n", summary.Hostname, summary.Platform, summary.Kernel)
			fmt.Fprintf(stdout, "Uptime:  %s\n", sysinfo.FormatUptime(summary.UptimeSeconds))
			fmt.Fprintf(stdout, "Load:    %.2f %.2f %.2f\n", summary.Load1, summary.Load5, summary.Load15)
			fmt.Fprintf(stdout, "CPU:     %.1f%% of %d cores\n", summary.CPUPercent, summary.CPUCount)
			fmt.Fprintf(stdout, "Memory:  %s / %s (%s available)\n",
				sysinfo.FormatBytes(summary.MemUsed), sysinfo.FormatBytes(summary.MemTotal), sysinfo.FormatBytes(summary.MemAvailable))
			fmt.Fprintf(stdout, "Swap:    %s / %s\n", sysinfo.FormatBytes(summary.SwapUsed), sysinfo.FormatBytes(summary.SwapTotal))
			fmt.Fprintf(stdout, "Disk:    %s / %s (%.1f%%)\n",
				sysinfo.FormatBytes(summary.DiskUsed), sysinfo.FormatBytes(summary.DiskTotal), summary.DiskPercent)
			fmt.Fprintf(stdout, "Network: sent %s, received %s\n",
				sysinfo.FormatBytes(summary.NetSentBytes), sysinfo.FormatBytes(summary.NetRecvBytes))
			if summary.PowerKnown {
				fmt.Fprintf(stdout, "Power:   %.1f W\n", summary.PowerWatts)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the summary as JSON")
	return cmd
}

// fetchSummary prefers the daemon API and falls back to an in-process
// collection when no daemon answers.
func fetchSummary(cmd *cobra.Command, ctx *commandContext) (api.HostSummary, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return api.HostSummary{}, err
	}
	summary, err := client.Summary(cmd.Context())
	if err == nil {
		return summary, nil
	}
	if !api.IsDaemonUnavailable(err) {
		return api.HostSummary{}, err
	}

	local, err := sysinfo.NewCollector().Summary(cmd.Context())
	if err != nil {
		return api.HostSummary{}, err
	}
	return api.FromSummary(local), nil
}
