package engine

import (
	"errors"
	"testing"

	"github.com/jelmberg/commission-tracker/internal/domain"
)

func TestParseBrokerage(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.Brokerage
		wantErr bool
	}{
		{"Keller Williams", domain.BrokerageKellerWilliams, false},
		{"KELLER WILLIAMS", domain.BrokerageKellerWilliams, false},
		{"keller-williams", domain.BrokerageKellerWilliams, false},
		{"KW", domain.BrokerageKellerWilliams, false},
		{"kw", domain.BrokerageKellerWilliams, false},
		{"KELLER_WILLIAMS", domain.BrokerageKellerWilliams, false},
		{"Bennion Deville Homes", domain.BrokerageBennionDeville, false},
		{"Bennion-Deville", domain.BrokerageBennionDeville, false},
		{"BDH", domain.BrokerageBennionDeville, false},
		{"  bdh  ", domain.BrokerageBennionDeville, false},
		{"BENNION_DEVILLE", domain.BrokerageBennionDeville, false},
		{"RE/MAX", "", true},
		{"", "", true},
		{"Coldwell Banker", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBrokerage(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBrokerage) {
					t.Fatalf("ParseBrokerage(%q) error = %v, want ErrUnknownBrokerage", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBrokerage(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBrokerage(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
