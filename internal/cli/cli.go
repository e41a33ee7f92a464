// Package cli implements the floorplan command-line interface.
//
// Every command opens the configured store, does its work through the
// service layer and closes the store again. Long-running commands (watch,
// host, serve-mcp) run until interrupted.
package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"floorplan/internal/app"
	"floorplan/internal/config"
	"floorplan/internal/domain"
	"floorplan/internal/logging"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: logging.New(w, level)}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "floorplan",
		Short:        "floorplan lays out restaurant dining rooms",
		Long:         `floorplan manages restaurant floor plans: it places tables without overlaps, tracks seating status and keeps layouts in sync with JSON files.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			level := logging.ParseLevel(cfg.LogLevel)
			if c.verbose {
				level = LogDebug
			}
			c.Logger.SetLevel(level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.overlapsCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveMCPCommand())
	root.AddCommand(c.hostCommand())
	root.AddCommand(c.secretCommand())

	return root
}

// =============================================================================
// Helpers
// =============================================================================

// withApp opens the configured store for the duration of fn.
func (c *CLI) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.Open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()
	return fn(ctx, a)
}

// resolvePlan finds a floor plan by ID or, failing that, by name.
func resolvePlan(ctx context.Context, a *app.App, ref string) (*domain.FloorPlan, error) {
	fp, err := a.Plans.GetFloorPlan(ctx, ref)
	if err == nil {
		return fp, nil
	}
	plans, lerr := a.Plans.ListFloorPlans(ctx)
	if lerr != nil {
		return nil, lerr
	}
	for i := range plans {
		if strings.EqualFold(plans[i].Name, ref) {
			return &plans[i], nil
		}
	}
	return nil, fmt.Errorf("floor plan %q: %w", ref, domain.ErrNotFound)
}

func parseFloats(args ...string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = v
	}
	return out, nil
}
