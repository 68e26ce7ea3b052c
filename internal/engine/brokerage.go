package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jelmberg/commission-tracker/internal/domain"
)

// ErrUnknownBrokerage is returned when a brokerage string does not resolve
// to a supported deduction schedule. Unlike every numeric edge case, this
// is a hard failure: silently defaulting would apply the wrong fee schedule.
var ErrUnknownBrokerage = errors.New("unknown brokerage")

// brokerageAliases maps normalized brokerage spellings to their identity.
var brokerageAliases = map[string]domain.Brokerage{
	"KELLER WILLIAMS":       domain.BrokerageKellerWilliams,
	"KELLER WILLIAMS REALTY": domain.BrokerageKellerWilliams,
	"KW":                    domain.BrokerageKellerWilliams,
	"BENNION DEVILLE":       domain.BrokerageBennionDeville,
	"BENNION DEVILLE HOMES": domain.BrokerageBennionDeville,
	"BDH":                   domain.BrokerageBennionDeville,
	"BD HOMES":              domain.BrokerageBennionDeville,
}

// ParseBrokerage resolves a full brokerage name or a known abbreviation to
// exactly one supported brokerage identity. Case, punctuation and spacing
// are not significant.
func ParseBrokerage(s string) (domain.Brokerage, error) {
	b, ok := brokerageAliases[normalizeBrokerage(s)]
	if !ok {
		return "", fmt.Errorf("ParseBrokerage: %q: %w", s, ErrUnknownBrokerage)
	}
	return b, nil
}

func normalizeBrokerage(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, r := range []string{"_", "-", ".", ","} {
		s = strings.ReplaceAll(s, r, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}
