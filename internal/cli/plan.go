package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"floorplan/internal/app"
)

// planCommand creates the floor plan management command.
func (c *CLI) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage floor plans",
	}

	cmd.AddCommand(c.planCreateCommand())
	cmd.AddCommand(c.planListCommand())
	cmd.AddCommand(c.planShowCommand())
	cmd.AddCommand(c.planRenameCommand())
	cmd.AddCommand(c.planResizeCommand())
	cmd.AddCommand(c.planDeleteCommand())

	return cmd
}

func (c *CLI) planCreateCommand() *cobra.Command {
	var width, height float64
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty floor plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				width = c.cfg.Canvas.Width
			}
			if !cmd.Flags().Changed("height") {
				height = c.cfg.Canvas.Height
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := a.Plans.CreateFloorPlan(ctx, args[0], width, height)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Created floor plan %s", fp.Name)
				printDetail(cmd.OutOrStdout(), "ID: %s", fp.ID)
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "canvas width in pixels (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "canvas height in pixels (default from config)")
	return cmd
}

func (c *CLI) planListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List floor plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				plans, err := a.Plans.ListFloorPlans(ctx)
				if err != nil {
					return err
				}
				if len(plans) == 0 {
					printInfo(cmd.OutOrStdout(), "No floor plans yet")
					return nil
				}
				printFloorPlans(cmd.OutOrStdout(), plans)
				return nil
			})
		},
	}
}

func (c *CLI) planShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show PLAN",
		Short: "Show a floor plan with its tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				state, err := a.Plans.State(ctx, fp.ID)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				seats := 0
				for _, t := range state.Tables {
					seats += t.Capacity
				}
				fmt.Fprintln(w, styleTitle.Render(fp.Name))
				printKeyValue(w, "id", fp.ID)
				printKeyValue(w, "canvas", formatSize(fp.CanvasWidth, fp.CanvasHeight))
				printKeyValue(w, "tables", itoa(len(state.Tables)))
				printKeyValue(w, "seats", itoa(seats))
				if len(state.Tables) > 0 {
					printTables(w, state.Tables, state.Overlaps)
				}
				if len(state.Overlaps) > 0 {
					printWarning(w, "%d tables overlap another table", len(state.Overlaps))
				}
				return nil
			})
		},
	}
}

func (c *CLI) planRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename PLAN NAME",
		Short: "Rename a floor plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				if err := a.Plans.RenameFloorPlan(ctx, fp.ID, args[1]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Renamed %s to %s", fp.Name, args[1])
				return nil
			})
		},
	}
}

func (c *CLI) planResizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize PLAN WIDTH HEIGHT",
		Short: "Change a floor plan's canvas size",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseFloats(args[1], args[2])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				if err := a.Plans.ResizeCanvas(ctx, fp.ID, size[0], size[1]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Resized %s to %s", fp.Name, formatSize(size[0], size[1]))
				return nil
			})
		},
	}
}

func (c *CLI) planDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PLAN",
		Short: "Delete a floor plan and all of its tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				if err := a.Plans.DeleteFloorPlan(ctx, fp.ID); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted floor plan %s", fp.Name)
				return nil
			})
		},
	}
}
