package export

import (
	"bytes"
	"testing"

	"github.com/jelmberg/commission-tracker/internal/domain"
)

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{
			Address:            "44 Desert Willow Ct",
			City:               "La Quinta",
			TransactionType:    domain.TypeSale,
			Brokerage:          domain.BrokerageKellerWilliams,
			ClosedPrice:        990000,
			CommissionPct:      2.41,
			GCI:                23859,
			AdjustedGCI:        23859,
			TotalBrokerageFees: 4597.36,
			NCI:                19261.64,
		},
		{
			Address:            "12 Palm Canyon Dr",
			City:               "Palm Springs",
			TransactionType:    domain.TypeReferralReceived,
			Brokerage:          domain.BrokerageBennionDeville,
			GCI:                5000,
			AdjustedGCI:        5000,
			TotalBrokerageFees: 300,
			NCI:                4700,
		},
	}
}

func TestBuildWorkbook(t *testing.T) {
	txs := sampleTransactions()

	f, err := BuildWorkbook(txs)
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetName, "A1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if got != "Address" {
		t.Errorf("A1 = %q, want %q", got, "Address")
	}

	got, err = f.GetCellValue(sheetName, "A2")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if got != "44 Desert Willow Ct" {
		t.Errorf("A2 = %q, want first transaction address", got)
	}

	// Totals row sits below the data.
	got, err = f.GetCellValue(sheetName, "A4")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if got != "Totals" {
		t.Errorf("A4 = %q, want %q", got, "Totals")
	}

	got, err = f.GetCellValue(sheetName, "I4")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if got != "28859" {
		t.Errorf("I4 = %q, want summed GCI 28859", got)
	}
}

func TestWriteProducesWorkbookBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("Write() produced no bytes")
	}
	// xlsx files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("Write() output does not look like a zip archive")
	}
}
