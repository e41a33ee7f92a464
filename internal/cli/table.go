package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"floorplan/internal/app"
	"floorplan/internal/domain"
	"floorplan/internal/service"
)

// tableCommand creates the table management command.
func (c *CLI) tableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Place, move and seat tables",
	}

	cmd.AddCommand(c.tableAddCommand())
	cmd.AddCommand(c.tableMoveCommand())
	cmd.AddCommand(c.tableResizeCommand())
	cmd.AddCommand(c.tableStatusCommand())
	cmd.AddCommand(c.tableDeleteCommand())
	cmd.AddCommand(c.tableListCommand())
	cmd.AddCommand(c.tableArrangeCommand())
	cmd.AddCommand(c.tableUndoCommand())
	cmd.AddCommand(c.tableHistoryCommand())

	return cmd
}

func (c *CLI) tableAddCommand() *cobra.Command {
	var (
		template string
		number   int
		x, y     float64
	)
	cmd := &cobra.Command{
		Use:   "add PLAN",
		Short: "Add a table from a template",
		Long:  "Add a table from a template. Without --x/--y the table goes to the first free spot, searching outward from the canvas center.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				tmpl, err := a.Catalog.Lookup(template)
				if err != nil {
					return err
				}

				var t *domain.Table
				if explicit {
					t, err = a.Tables.AddTableAt(ctx, fp.ID, tmpl, number, domain.Position{X: x, Y: y})
				} else {
					t, err = a.Tables.AddTable(ctx, fp.ID, tmpl, number)
				}
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Added table %d (%s) at %.0f,%.0f", t.Number, tmpl.Name, t.X, t.Y)
				printDetail(cmd.OutOrStdout(), "ID: %s", t.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "four-top", "table template (see 'floorplan templates')")
	cmd.Flags().IntVarP(&number, "number", "n", 0, "table number (default: next free)")
	cmd.Flags().Float64Var(&x, "x", 0, "left edge in pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "top edge in pixels")
	return cmd
}

func (c *CLI) tableMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move TABLE X Y",
		Short: "Move a table",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseFloats(args[1], args[2])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Tables.MoveTable(ctx, args[0], pos[0], pos[1])
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Moved table %d to %.0f,%.0f", t.Number, t.X, t.Y)
				return nil
			})
		},
	}
}

func (c *CLI) tableResizeCommand() *cobra.Command {
	var (
		shape    string
		capacity int
	)
	cmd := &cobra.Command{
		Use:   "resize TABLE WIDTH HEIGHT",
		Short: "Resize a table, optionally changing its shape or seats",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseFloats(args[1], args[2])
			if err != nil {
				return err
			}
			patch := service.TablePatch{Width: &size[0], Height: &size[1]}
			if shape != "" {
				sh := domain.Shape(shape)
				patch.Shape = &sh
			}
			if cmd.Flags().Changed("capacity") {
				patch.Capacity = &capacity
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Tables.UpdateTable(ctx, args[0], patch)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Table %d is now a %s %s for %d", t.Number, formatSize(t.Width, t.Height), t.Shape, t.Capacity)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&shape, "shape", "", "circle, square, rectangle or oval")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "number of seats")
	return cmd
}

func (c *CLI) tableStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status TABLE STATUS",
		Short:     "Seat, reserve or clear a table",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.TableStatusAvailable), string(domain.TableStatusOccupied), string(domain.TableStatusReserved)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Tables.SetStatus(ctx, args[0], domain.TableStatus(args[1]))
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Table %d is %s", t.Number, statusStyles[t.Status].Render(string(t.Status)))
				return nil
			})
		},
	}
}

func (c *CLI) tableDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TABLE",
		Short: "Remove a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Tables.DeleteTable(ctx, args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted table %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) tableListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list PLAN",
		Short: "List the tables on a floor plan",
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
				if len(state.Tables) == 0 {
					printInfo(cmd.OutOrStdout(), "No tables on %s", fp.Name)
					return nil
				}
				printTables(cmd.OutOrStdout(), state.Tables, state.Overlaps)
				return nil
			})
		},
	}
}

func (c *CLI) tableArrangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "arrange PLAN",
		Short: "Lay every table out in rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				tables, err := a.Tables.ArrangeTables(ctx, fp.ID)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Arranged %d tables on %s", len(tables), fp.Name)
				return nil
			})
		},
	}
}

func (c *CLI) tableUndoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo PLAN",
		Short: "Undo the last layout edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				snap, err := a.Tables.Undo(ctx, fp.ID)
				if err != nil {
					return fmt.Errorf("nothing to undo on %s: %w", fp.Name, err)
				}
				printSuccess(cmd.OutOrStdout(), "Undid %s", snap.Label)
				return nil
			})
		},
	}
}

func (c *CLI) tableHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history PLAN",
		Short: "List the layout edits that can be undone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				snaps, err := a.Tables.History(ctx, fp.ID)
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					printInfo(cmd.OutOrStdout(), "No layout history for %s", fp.Name)
					return nil
				}
				for _, s := range snaps {
					printInfo(cmd.OutOrStdout(), "%s  %s", styleDim.Render(s.CreatedAt.Local().Format("2006-01-02 15:04:05")), s.Label)
				}
				return nil
			})
		},
	}
}
