package domain

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1234.56", 1234.56},
		{"$1,234.56", 1234.56},
		{" 990000 ", 990000},
		{"2.41%", 2.41},
		{"-478.50", -478.50},
		{"", 0},
		{"n/a", 0},
		{"12,250", 12250},
		{"$0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseAmount(tt.input); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input string
		want  TransactionType
	}{
		{"Sale", TypeSale},
		{"SALE", TypeSale},
		{"Referral Received", TypeReferralReceived},
		{"referral_received", TypeReferralReceived},
		{"REFERRAL-PAID", TypeReferralPaid},
		{"Referral Paid", TypeReferralPaid},
		{"", TypeSale},
		{"anything else", TypeSale},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseTransactionType(tt.input); got != tt.want {
				t.Errorf("ParseTransactionType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	tx := New("abc")
	if tx.ID != "abc" {
		t.Errorf("ID = %q, want %q", tx.ID, "abc")
	}
	if tx.Brokerage != BrokerageKellerWilliams {
		t.Errorf("Brokerage = %q, want default Keller Williams", tx.Brokerage)
	}
	if tx.BDHSplitPct != DefaultBDHSplitPct {
		t.Errorf("BDHSplitPct = %v, want %v", tx.BDHSplitPct, DefaultBDHSplitPct)
	}
}
