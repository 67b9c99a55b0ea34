package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/config"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/export"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/feed"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
	"github.com/josefe-ing/fluxion-workspace-sub001/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "plan",
		Usage: "Run one replenishment planning batch over the CSV feeds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory containing the catalog, sales and stock feeds",
				EnvVars: []string{"APP_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Usage:   "Directory to write the order line and summary files",
				EnvVars: []string{"APP_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:  "as-of",
				Usage: "Planning date (YYYY-MM-DD), defaults to today",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn)",
				Value: "info",
			},
		},
		Action: runPlan,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPlan(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(c.String("log-level"))

	dataDir := c.String("data-dir")
	if dataDir == "" {
		dataDir = cfg.App.DataDir
	}
	outputDir := c.String("output-dir")
	if outputDir == "" {
		outputDir = cfg.App.OutputDir
	}

	asOf := time.Now().UTC()
	if raw := c.String("as-of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid as-of date %q: %w", raw, err)
		}
		asOf = parsed
	}

	snap, err := feed.LoadSnapshot(dataDir, feed.LaneOptions{
		CategoryOrigins:     cfg.Planning.CategoryOrigins,
		DefaultOrigin:       cfg.Planning.DefaultOrigin,
		DefaultLeadTimeDays: cfg.Planning.DefaultLeadTimeDays,
		LaneLeadTimeDays:    cfg.Planning.LaneLeadTimeDays,
	}, asOf)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	planner := planning.NewPlanner(cfg.EngineConfig())
	result, err := planner.Run(c.Context, snap)
	if err != nil {
		return fmt.Errorf("planning run: %w", err)
	}

	linesPath, err := export.WriteOrderLines(outputDir, result)
	if err != nil {
		return fmt.Errorf("write order lines: %w", err)
	}
	summaryPath, err := export.WriteSummary(outputDir, result)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	logger.Log.Info().
		Str("run_id", result.RunID).
		Str("lines", linesPath).
		Str("summary", summaryPath).
		Int("orders", result.Summary.OrdersProposed).
		Int("excluded", result.Summary.Excluded).
		Int("insufficient_data", result.Summary.InsufficientData).
		Int("supply_constrained", result.Summary.SupplyConstrained).
		Msg("planning batch finished")

	return nil
}
