package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"floorplan/internal/app"
	"floorplan/internal/domain"
)

func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the table templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				printTemplates(cmd.OutOrStdout(), a.Catalog.List())
				return nil
			})
		},
	}
}

// overlapsCommand reports colliding tables and fails when there are any,
// so it can gate scripts and CI.
func (c *CLI) overlapsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overlaps PLAN",
		Short: "Check a floor plan for overlapping tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				overlaps, err := a.Tables.Overlaps(ctx, fp.ID)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(overlaps) == 0 {
					printSuccess(w, "No overlapping tables on %s", fp.Name)
					return nil
				}

				ids := make([]string, 0, len(overlaps))
				for id := range overlaps {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					printWarning(w, "%s overlaps %v", id, overlaps[id])
				}
				return fmt.Errorf("%d tables overlap on %s: %w", len(overlaps), fp.Name, domain.ErrCollision)
			})
		},
	}
}
