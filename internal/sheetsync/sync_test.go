package sheetsync

import (
	"context"
	"testing"

	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/store"
)

// mockSheet is an in-memory SheetService for testing the sync paths.
type mockSheet struct {
	rows       [][]interface{}
	overwrites int
}

func (m *mockSheet) ReadRows(ctx context.Context) ([][]interface{}, error) {
	return m.rows, nil
}

func (m *mockSheet) OverwriteRows(ctx context.Context, rows [][]interface{}) error {
	m.rows = rows
	m.overwrites++
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("")
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	return s
}

func TestRowCodecRoundTrip(t *testing.T) {
	tx := domain.New("tx-1")
	tx.TransactionType = domain.TypeReferralPaid
	tx.Brokerage = domain.BrokerageBennionDeville
	tx.Address = "12 Desert Willow"
	tx.City = "Palm Desert"
	tx.Status = "Closed"
	tx.ClosedPrice = 490000
	tx.CommissionPct = 2.5
	tx.ReferralPct = 25
	tx.GCI = 12250
	tx.ReferralDollar = 3062.5
	tx.AdjustedGCI = 9187.5
	tx.PreSplitDeduction = 551.25
	tx.TotalBrokerageFees = 2000
	tx.NCI = 7187.5
	tx.AssistantBonus = 500
	tx.BuyersAgentSplit = 250

	row := ToRow(tx)
	if len(row) != RowWidth {
		t.Fatalf("ToRow produced %d cells, want %d", len(row), RowWidth)
	}

	got, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}

	if got.TransactionType != tx.TransactionType {
		t.Errorf("TransactionType = %q, want %q", got.TransactionType, tx.TransactionType)
	}
	if got.Brokerage != tx.Brokerage {
		t.Errorf("Brokerage = %q, want %q", got.Brokerage, tx.Brokerage)
	}
	if got.Address != tx.Address || got.City != tx.City || got.Status != tx.Status {
		t.Errorf("descriptive fields lost: %+v", got)
	}
	if got.ClosedPrice != tx.ClosedPrice || got.CommissionPct != tx.CommissionPct {
		t.Errorf("pricing fields lost: %+v", got)
	}
	if got.GCI != tx.GCI || got.AdjustedGCI != tx.AdjustedGCI || got.NCI != tx.NCI {
		t.Errorf("derived fields lost: %+v", got)
	}
	if got.PreSplitDeduction != tx.PreSplitDeduction {
		t.Errorf("PreSplitDeduction = %v, want %v", got.PreSplitDeduction, tx.PreSplitDeduction)
	}
	if got.TotalBrokerageFees != tx.TotalBrokerageFees {
		t.Errorf("TotalBrokerageFees = %v, want %v", got.TotalBrokerageFees, tx.TotalBrokerageFees)
	}
}

func TestFromRowLenientCells(t *testing.T) {
	// Sheets returns user-entered values as strings, rows may be short.
	row := make([]interface{}, 13)
	row[colBrokerage] = "KW"
	row[colClosedPrice] = "$990,000"
	row[colCommissionPct] = "2.41%"
	row[colGCI] = "23,859.00"

	tx, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow failed: %v", err)
	}

	if tx.Brokerage != domain.BrokerageKellerWilliams {
		t.Errorf("Brokerage = %q, want KW", tx.Brokerage)
	}
	if tx.ClosedPrice != 990000 {
		t.Errorf("ClosedPrice = %v, want 990000", tx.ClosedPrice)
	}
	if tx.CommissionPct != 2.41 {
		t.Errorf("CommissionPct = %v, want 2.41", tx.CommissionPct)
	}
	if tx.GCI != 23859 {
		t.Errorf("GCI = %v, want 23859", tx.GCI)
	}
	if tx.TransactionType != domain.TypeSale {
		t.Errorf("TransactionType = %q, want default sale", tx.TransactionType)
	}
}

func TestFromRowUnknownBrokerage(t *testing.T) {
	row := make([]interface{}, RowWidth)
	row[colBrokerage] = "RE/MAX"

	if _, err := FromRow(row); err == nil {
		t.Fatal("FromRow accepted an unknown brokerage")
	}
}

func TestPushOverwritesFullRange(t *testing.T) {
	st := newTestStore(t)
	for _, id := range []string{"a", "b"} {
		tx := domain.New(id)
		tx.ClosedPrice = 100000
		if err := st.Save(tx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	sheet := &mockSheet{rows: [][]interface{}{make([]interface{}, RowWidth)}}
	if err := Push(context.Background(), st, sheet, false); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if sheet.overwrites != 1 {
		t.Errorf("overwrites = %d, want 1", sheet.overwrites)
	}
	if len(sheet.rows) != 2 {
		t.Errorf("sheet holds %d rows, want 2 (stale rows must not survive)", len(sheet.rows))
	}
}

func TestPushDryRunWritesNothing(t *testing.T) {
	st := newTestStore(t)
	if err := st.Save(domain.New("a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sheet := &mockSheet{}
	if err := Push(context.Background(), st, sheet, true); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if sheet.overwrites != 0 {
		t.Errorf("dry-run push performed %d overwrites", sheet.overwrites)
	}
}

func TestPullReplacesLocalSet(t *testing.T) {
	st := newTestStore(t)
	if err := st.Save(domain.New("stale")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	good := domain.New("")
	good.Brokerage = domain.BrokerageKellerWilliams
	good.Address = "1 Main St"
	good.NCI = 1234.5

	bad := make([]interface{}, RowWidth)
	bad[colBrokerage] = "Sotheby's"

	sheet := &mockSheet{rows: [][]interface{}{ToRow(good), bad}}

	n, err := Pull(context.Background(), st, sheet, false)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Pull imported %d records, want 1", n)
	}

	list := st.List()
	if len(list) != 1 {
		t.Fatalf("store holds %d records, want 1", len(list))
	}
	if list[0].Address != "1 Main St" || list[0].NCI != 1234.5 {
		t.Errorf("pulled record mismatch: %+v", list[0])
	}
	if list[0].ID == "" || list[0].ID == "stale" {
		t.Errorf("pulled record kept a stale or empty id: %q", list[0].ID)
	}
}
