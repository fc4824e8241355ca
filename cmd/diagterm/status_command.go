package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			switch {
			case err == nil:
				fmt.Fprintln(stdout, renderStatusLine("Running", statusOK, fmt.Sprintf("pid %d", status.PID), colorize))
				if status.StartedAt != "" {
					fmt.Fprintln(stdout, renderStatusLine("Started", statusInfo, status.StartedAt, colorize))
				}
				fmt.Fprintln(stdout, renderStatusLine("Feed source", feedKind(status.FeedSelection), status.FeedSelection, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))
				fmt.Fprintln(stdout)
				renderDependencies(stdout, status.Dependencies, colorize)

			case api.IsDaemonUnavailable(err):
				fmt.Fprintln(stdout, renderStatusLine("Running", statusWarn, "daemon not reachable at "+cfg.Paths.APIBind, colorize))
				fmt.Fprintln(stdout)
				renderDependencies(stdout, api.FromDependencies(deps.CheckBinaries(deps.Default())), colorize)

			default:
				return err
			}
			return nil
		},
	}
}

func renderDependencies(stdout io.Writer, statuses []api.DependencyStatus, colorize bool) {
	for _, line := range renderSectionHeader("Dependencies", colorize) {
		fmt.Fprintln(stdout, line)
	}
	for _, dep := range statuses {
		kind := statusOK
		detail := dep.Detail
		if !dep.Available {
			kind = statusError
			if dep.Optional {
				kind = statusWarn
			}
			if detail == "" {
				detail = "not found in PATH"
			}
		}
		fmt.Fprintln(stdout, renderStatusLine(dep.Name, kind, detail, colorize))
	}
}

func feedKind(selection string) statusKind {
	switch selection {
	case "journal":
		return statusOK
	case "dmesg":
		return statusWarn
	case "unavailable":
		return statusError
	default:
		return statusInfo
	}
}
