package scan

import (
	"encoding/json"
	"testing"

	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/engine"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain object",
			raw:  `{"address":"1 Main St"}`,
			want: `{"address":"1 Main St"}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"address\":\"1 Main St\"}\n```",
			want: `{"address":"1 Main St"}`,
		},
		{
			name: "bare fence with chatter",
			raw:  "Here is the extraction:\n```\n{\"city\":\"Palm Desert\"}\n```\nDone.",
			want: `{"city":"Palm Desert"}`,
		},
		{
			name: "leading prose no fence",
			raw:  "Sure! {\"closedPrice\": 990000}",
			want: `{"closedPrice": 990000}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanModelJSON(tt.raw)
			if got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCandidateFromModelOutput(t *testing.T) {
	raw := map[string]interface{}{}
	if err := json.Unmarshal([]byte(`{
		"transactionType": "Sale",
		"brokerage": "Keller Williams",
		"address": "44 Desert Willow Ct",
		"city": "La Quinta",
		"closedPrice": "990,000",
		"commissionPct": 2.41,
		"confidence": 87
	}`), &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	c, err := candidateFromModelOutput(raw)
	if err != nil {
		t.Fatalf("candidateFromModelOutput() error = %v", err)
	}

	if c.Confidence != 87 {
		t.Errorf("Confidence = %v, want 87", c.Confidence)
	}
	if c.Transaction.TransactionType != domain.TypeSale {
		t.Errorf("TransactionType = %v, want %v", c.Transaction.TransactionType, domain.TypeSale)
	}
	if c.Transaction.Brokerage != domain.BrokerageKellerWilliams {
		t.Errorf("Brokerage = %v, want %v", c.Transaction.Brokerage, domain.BrokerageKellerWilliams)
	}
	if c.Transaction.ClosedPrice != 990000 {
		t.Errorf("ClosedPrice = %v, want 990000 (string amount should parse)", c.Transaction.ClosedPrice)
	}
	if c.Transaction.CommissionPct != 2.41 {
		t.Errorf("CommissionPct = %v, want 2.41", c.Transaction.CommissionPct)
	}

	if len(c.Present) == 0 || c.Present[0] != domain.FieldTransactionType || c.Present[1] != domain.FieldBrokerage {
		t.Errorf("Present = %v, want transactionType then brokerage first", c.Present)
	}
	for _, f := range c.Present {
		if f == domain.FieldListPrice {
			t.Errorf("Present contains listPrice, which the model did not return")
		}
	}
}

func TestCandidateFromModelOutputUnknownBrokerageDropped(t *testing.T) {
	raw := map[string]interface{}{
		"brokerage": "Sotheby's",
		"address":   "9 Ocean Ave",
	}

	c, err := candidateFromModelOutput(raw)
	if err != nil {
		t.Fatalf("candidateFromModelOutput() error = %v", err)
	}

	for _, f := range c.Present {
		if f == domain.FieldBrokerage {
			t.Fatalf("unrecognized brokerage should not be marked present")
		}
	}
	if c.Transaction.Address != "9 Ocean Ave" {
		t.Errorf("Address = %q, want %q", c.Transaction.Address, "9 Ocean Ave")
	}
}

func TestMergeAppliesFieldsAsTouches(t *testing.T) {
	tx := *domain.New("tx-1")
	sess := engine.NewSession()

	c := &Candidate{
		Transaction: domain.Transaction{
			Brokerage:     domain.BrokerageKellerWilliams,
			ClosedPrice:   990000,
			CommissionPct: 2.5,
		},
		Present: []string{
			domain.FieldBrokerage,
			domain.FieldClosedPrice,
			domain.FieldCommissionPct,
		},
	}

	merged := Merge(tx, c, sess)
	if merged.ClosedPrice != 990000 || merged.CommissionPct != 2.5 {
		t.Fatalf("merge did not apply fields: %+v", merged)
	}

	out, err := engine.Calculate(merged, sess)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if out.GCI != 990000*0.025 {
		t.Errorf("GCI = %v, want %v", out.GCI, 990000*0.025)
	}
}

func TestMergeLeavesAbsentFieldsAlone(t *testing.T) {
	tx := *domain.New("tx-2")
	tx.Address = "keep me"
	tx.ClosedPrice = 500000

	c := &Candidate{
		Transaction: domain.Transaction{City: "Indio"},
		Present:     []string{domain.FieldCity},
	}

	merged := Merge(tx, c, nil)
	if merged.Address != "keep me" {
		t.Errorf("Address = %q, want unchanged", merged.Address)
	}
	if merged.ClosedPrice != 500000 {
		t.Errorf("ClosedPrice = %v, want unchanged", merged.ClosedPrice)
	}
	if merged.City != "Indio" {
		t.Errorf("City = %q, want %q", merged.City, "Indio")
	}
}

func TestResultsLifecycle(t *testing.T) {
	r := NewResults()

	if _, _, ok := r.Get("scan-1"); ok {
		t.Fatalf("Get() ok = true for pending scan")
	}

	r.Put("scan-1", &Candidate{Confidence: 50})
	c, errMsg, ok := r.Get("scan-1")
	if !ok || c == nil || errMsg != "" {
		t.Fatalf("Get() after Put = (%v, %q, %v)", c, errMsg, ok)
	}

	r.Fail("scan-2", "unreadable document")
	c, errMsg, ok = r.Get("scan-2")
	if !ok || c != nil || errMsg != "unreadable document" {
		t.Fatalf("Get() after Fail = (%v, %q, %v)", c, errMsg, ok)
	}
}
