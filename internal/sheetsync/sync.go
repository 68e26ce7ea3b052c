package sheetsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/logger"
	"github.com/jelmberg/commission-tracker/internal/store"
)

// Push overwrites the sheet's data range with the local collection.
// The write always replaces the full range — last writer wins, there is no
// per-row merge or conflict resolution.
func Push(ctx context.Context, st *store.Store, sheet SheetService, dryRun bool) error {
	log := logger.FromContext(ctx)

	txs := st.List()
	log.Info().
		Int("transaction_count", len(txs)).
		Bool("dry_run", dryRun).
		Msg("Starting sheet push")

	rows := make([][]interface{}, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, ToRow(tx))
	}

	if dryRun {
		log.Info().Int("rows", len(rows)).Msg("[DRY RUN] Would overwrite sheet range")
		return nil
	}

	if err := sheet.OverwriteRows(ctx, rows); err != nil {
		return fmt.Errorf("Push: %w", err)
	}

	log.Info().Int("rows", len(rows)).Msg("Sheet push completed")
	return nil
}

// Pull reads every row from the sheet, decodes the rows into transactions
// and replaces the local collection with them. Rows that fail to decode
// (unknown brokerage) are skipped with a warning rather than aborting the
// pull. Returns the number of records imported.
func Pull(ctx context.Context, st *store.Store, sheet SheetService, dryRun bool) (int, error) {
	log := logger.FromContext(ctx)

	rows, err := sheet.ReadRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("Pull: %w", err)
	}

	log.Info().
		Int("row_count", len(rows)).
		Bool("dry_run", dryRun).
		Msg("Starting sheet pull")

	txs := make([]*domain.Transaction, 0, len(rows))
	var skipped int
	for i, row := range rows {
		tx, err := FromRow(row)
		if err != nil {
			log.Warn().Err(err).Int("row", i).Msg("Skipping undecodable sheet row")
			skipped++
			continue
		}
		// Sheet rows carry no ids; each pull assigns fresh ones.
		tx.ID = uuid.NewString()
		txs = append(txs, tx)
	}

	if dryRun {
		log.Info().
			Int("imported", len(txs)).
			Int("skipped", skipped).
			Msg("[DRY RUN] Would replace local collection")
		return len(txs), nil
	}

	if err := st.ReplaceAll(txs); err != nil {
		return 0, fmt.Errorf("Pull: replace local collection: %w", err)
	}

	log.Info().
		Int("imported", len(txs)).
		Int("skipped", skipped).
		Msg("Sheet pull completed")
	return len(txs), nil
}
