package cli

import (
	"context"

	"github.com/spf13/cobra"

	"floorplan/internal/app"
)

func (c *CLI) serveMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.ServeMCP(ctx)
			})
		},
	}
}

func (c *CLI) hostCommand() *cobra.Command {
	var resetNow bool
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Run the host-station jobs until interrupted",
		Long:  "Run the host-station jobs until interrupted. Table statuses are reset to available on the schedule in host.reset_schedule.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if resetNow {
					n, err := a.NewScheduler(ctx).RunReset(ctx)
					if err != nil {
						return err
					}
					printSuccess(cmd.OutOrStdout(), "Reset %d tables to available", n)
					return nil
				}
				printInfo(cmd.OutOrStdout(), "Resetting table statuses on %q (Ctrl-C to stop)", a.Config.Host.ResetSchedule)
				return a.RunHost(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&resetNow, "reset-now", false, "reset every table status once and exit")
	return cmd
}
