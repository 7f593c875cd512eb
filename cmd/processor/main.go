package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"oppcli/internal/config"
	"oppcli/internal/dataprocessing"
	"oppcli/internal/exporter"
	"oppcli/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	in := flag.String("in", "", "input CSV file with opportunity records")
	out := flag.String("out", "", "output xlsx workbook path")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <opportunities.csv> -out <workbook.xlsx>")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	logger.InfoContext(ctx, "starting pipeline",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("input", *in),
		slog.String("output", *out))

	pipeline := dataprocessing.New(cfg, logger)
	result, err := pipeline.Run(ctx, *in)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed",
			slog.String("error", err.Error()))
		return 1
	}

	csvOut, err := exporter.WriteOutputs(logger, *out, result.Records, result.Growth, result.Density)
	if err != nil {
		logger.ErrorContext(ctx, "export failed",
			slog.String("error", err.Error()))
		return 1
	}

	summary := result.Summary
	logger.InfoContext(ctx, "run complete",
		slog.Int("loaded", summary.Loaded),
		slog.Int("kept", summary.Kept),
		slog.Int("excluded", summary.ExcludedTotal()),
		slog.Int("duplicates", summary.Clean.Duplicates))

	fmt.Printf("Processed %d records (%d kept, %d excluded, %d duplicates)\n",
		summary.Loaded, summary.Kept, summary.ExcludedTotal(), summary.Clean.Duplicates)
	fmt.Printf("Workbook: %s\nCSV: %s\n", *out, csvOut)

	return 0
}
