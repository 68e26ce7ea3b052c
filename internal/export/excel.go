// Package export renders the transaction set as an Excel workbook for
// offline reporting.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jelmberg/commission-tracker/internal/domain"
)

const sheetName = "Transactions"

var headers = []string{
	"Address",
	"City",
	"Type",
	"Brokerage",
	"Status",
	"Closing Date",
	"Closed Price",
	"Commission %",
	"GCI",
	"Referral $",
	"Adjusted GCI",
	"Total Brokerage Fees",
	"NCI",
}

// BuildWorkbook lays out one row per transaction with a totals row at the
// bottom. The caller owns the returned file and must Close it.
func BuildWorkbook(txs []domain.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("BuildWorkbook: header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("BuildWorkbook: set header: %w", err)
		}
	}

	var totalGCI, totalFees, totalNCI float64
	for i, tx := range txs {
		row := i + 2
		values := []interface{}{
			tx.Address,
			tx.City,
			string(tx.TransactionType),
			string(tx.Brokerage),
			tx.Status,
			tx.ClosingDate,
			tx.ClosedPrice,
			tx.CommissionPct,
			tx.GCI,
			tx.ReferralDollar,
			tx.AdjustedGCI,
			tx.TotalBrokerageFees,
			tx.NCI,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("BuildWorkbook: data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("BuildWorkbook: set cell: %w", err)
			}
		}

		totalGCI += tx.GCI
		totalFees += tx.TotalBrokerageFees
		totalNCI += tx.NCI
	}

	totalsRow := len(txs) + 2
	totals := map[int]interface{}{
		1:  "Totals",
		9:  totalGCI,
		12: totalFees,
		13: totalNCI,
	}
	for col, v := range totals {
		cell, err := excelize.CoordinatesToCellName(col, totalsRow)
		if err != nil {
			return nil, fmt.Errorf("BuildWorkbook: totals cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return nil, fmt.Errorf("BuildWorkbook: set total: %w", err)
		}
	}

	return f, nil
}

// Write streams the workbook for the given transactions to w.
func Write(w io.Writer, txs []domain.Transaction) error {
	f, err := BuildWorkbook(txs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("Write: write workbook: %w", err)
	}
	return nil
}
