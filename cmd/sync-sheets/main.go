package main

import (
	"context"
	"flag"
	"time"

	"github.com/jelmberg/commission-tracker/internal/config"
	"github.com/jelmberg/commission-tracker/internal/logger"
	"github.com/jelmberg/commission-tracker/internal/sheetsync"
	"github.com/jelmberg/commission-tracker/internal/store"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	spreadsheetID := flag.String("spreadsheet-id", cfg.SpreadsheetID, "Google spreadsheet ID (or set SPREADSHEET_ID env)")
	sheetRange := flag.String("range", cfg.SheetRange, "Sheet range to sync, e.g. Transactions!A2:Z")
	dataFile := flag.String("data-file", cfg.DataFile, "Path of the local transaction blob")
	direction := flag.String("direction", "push", "Sync direction: push (local -> sheet) or pull (sheet -> local)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without writing")
	flag.Parse()

	if *spreadsheetID == "" {
		log.Fatal().Msg("Error: --spreadsheet-id is required")
	}
	if *direction != "push" && *direction != "pull" {
		log.Fatal().Str("direction", *direction).Msg("Error: --direction must be push or pull")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("spreadsheet_id", *spreadsheetID).
		Str("range", *sheetRange).
		Str("direction", *direction).
		Bool("dry_run", *dryRun).
		Msg("Starting sheet sync")

	st, err := store.New(*dataFile)
	if err != nil {
		log.Fatal().Err(err).Str("data_file", *dataFile).Msg("Failed to open transaction store")
	}

	sheet, err := sheetsync.NewClient(ctx, *spreadsheetID, *sheetRange)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	switch *direction {
	case "push":
		if err := sheetsync.Push(ctx, st, sheet, *dryRun); err != nil {
			log.Fatal().Err(err).Msg("Sheet push failed")
		}
		log.Info().Int("count", len(st.List())).Msg("Sheet push completed")
	case "pull":
		count, err := sheetsync.Pull(ctx, st, sheet, *dryRun)
		if err != nil {
			log.Fatal().Err(err).Msg("Sheet pull failed")
		}
		log.Info().Int("count", count).Msg("Sheet pull completed")
	}
}
