package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diagterm/internal/api"
	"diagterm/internal/services"
)

func newServicesCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "services",
		Short: "Show running systemd services",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := limitFlag
			if limit <= 0 {
				limit = ctx.configValue().Collect.ServiceLimit
			}

			units, err := fetchServices(cmd, ctx, limit)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No running services found (is systemctl available?)")
				return nil
			}

			rows := make([][]string, 0, len(units))
			for _, unit := range units {
				rows = append(rows, []string{unit.Name, unit.Active, unit.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Service", "State", "Description"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Number of services to show")
	return cmd
}

func fetchServices(cmd *cobra.Command, ctx *commandContext, limit int) ([]api.ServiceUnit, error) {
	client, err := ctx.apiClient()
	if err != nil {
		return nil, err
	}
	units, err := client.Services(cmd.Context(), limit)
	if err == nil {
		return units, nil
	}
	if !api.IsDaemonUnavailable(err) {
		return nil, err
	}

	local := services.NewLister().Running(cmd.Context(), limit)
	return api.FromServices(local), nil
}
