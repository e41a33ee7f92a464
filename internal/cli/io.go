package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorplan/internal/app"
	"floorplan/internal/layoutio"
	"floorplan/internal/logging"
)

func (c *CLI) importCommand() *cobra.Command {
	var (
		plan   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a layout from a JSON file",
		Long:  "Import a layout from a JSON file. The layout is rejected if any table leaves the canvas or overlaps another. Without --plan a new floor plan is created.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				doc, err := layoutio.Decode(f)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "%s is valid: %d tables on a %s canvas", args[0], len(doc.Tables), formatSize(doc.CanvasWidth, doc.CanvasHeight))
				return nil
			}

			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				planID := ""
				if plan != "" {
					fp, err := resolvePlan(ctx, a, plan)
					if err != nil {
						return err
					}
					planID = fp.ID
				}
				fp, err := a.Importer.ImportFile(ctx, args[0], planID)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Imported %s into %s", args[0], fp.Name)
				printDetail(cmd.OutOrStdout(), "ID: %s", fp.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "floor plan to replace (ID or name)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only validate the file")
	return cmd
}

func (c *CLI) exportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export PLAN",
		Short: "Export a floor plan's layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				fp, err := resolvePlan(ctx, a, args[0])
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					doc, err := a.Importer.Export(ctx, fp.ID)
					if err != nil {
						return err
					}
					return layoutio.Encode(cmd.OutOrStdout(), doc)
				}
				if err := a.Importer.ExportFile(ctx, fp.ID, output); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Exported %s to %s", fp.Name, output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) watchCommand() *cobra.Command {
	var plan string
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Keep a floor plan in sync with a layout file",
		Long:  "Import FILE into the floor plan and re-import it every time it changes, until interrupted. Invalid edits are reported and skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				planID := ""
				if plan != "" {
					fp, err := resolvePlan(ctx, a, plan)
					if err != nil {
						return err
					}
					planID = fp.ID
				}
				fp, err := a.Importer.ImportFile(ctx, args[0], planID)
				if err != nil {
					return fmt.Errorf("initial import: %w", err)
				}

				w, err := layoutio.NewWatcher(a.Importer, logging.Component(ctx, "WATCH"))
				if err != nil {
					return err
				}
				if err := w.WatchFile(fp.ID, args[0]); err != nil {
					return err
				}
				printInfo(cmd.OutOrStdout(), "Watching %s for %s (Ctrl-C to stop)", args[0], fp.Name)
				return w.Run(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&plan, "plan", "p", "", "floor plan to keep in sync (default: create one)")
	return cmd
}
