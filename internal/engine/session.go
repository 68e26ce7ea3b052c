package engine

import (
	"github.com/jelmberg/commission-tracker/internal/domain"
)

// inferencePair identifies one forward/inverse field pair: the engine
// normally computes the derived side from the input side, but flips
// direction when the user most recently typed into the derived side.
type inferencePair int

const (
	pairCommission inferencePair = iota // commissionPct <-> gci
	pairReferral                        // referralPct   <-> referralDollar
)

// Session carries the pin state for one record while it is being edited.
// A derived field the user typed into directly is pinned: recalculation
// keeps the typed value until an upstream input that feeds the field
// changes, which clears the pin and resumes auto-computation.
//
// Pin state is tracked explicitly, never inferred from value equality, and
// is scoped to a single record; sessions must not be shared across records.
type Session struct {
	pinned  map[string]bool
	inverse map[inferencePair]bool
}

// NewSession returns a session with nothing pinned and both inference
// pairs in the forward direction.
func NewSession() *Session {
	return &Session{
		pinned:  make(map[string]bool),
		inverse: make(map[inferencePair]bool),
	}
}

// Touch records that the user typed into the named field of tx.
// Typing into a derived field pins it; typing into an input field clears
// the pins of every derived field that input feeds under the record's
// current branch and brokerage.
func (s *Session) Touch(tx *domain.Transaction, field string) {
	if isDerived(field) {
		s.pinned[field] = true
		switch field {
		case domain.FieldGCI:
			s.inverse[pairCommission] = true
		case domain.FieldReferralDollar:
			s.inverse[pairReferral] = true
		}
		return
	}

	for _, d := range downstream(tx, field) {
		delete(s.pinned, d)
		switch d {
		case domain.FieldGCI:
			s.inverse[pairCommission] = false
		case domain.FieldReferralDollar:
			s.inverse[pairReferral] = false
		}
	}
}

// Pinned reports whether the named derived field is currently overridden.
func (s *Session) Pinned(field string) bool {
	return s.pinned[field]
}

// InferCommissionPct reports whether the commission pair runs in the
// inverse direction (gci typed, commissionPct back-computed).
func (s *Session) InferCommissionPct() bool {
	return s.inverse[pairCommission]
}

// InferReferralPct reports whether the referral pair runs in the inverse
// direction (referralDollar typed, referralPct back-computed).
func (s *Session) InferReferralPct() bool {
	return s.inverse[pairReferral]
}

var derivedFields = map[string]bool{
	domain.FieldGCI:                true,
	domain.FieldReferralDollar:     true,
	domain.FieldAdjustedGCI:        true,
	domain.FieldRoyalty:            true,
	domain.FieldCompanyDollar:      true,
	domain.FieldPreSplitDeduction:  true,
	domain.FieldTotalBrokerageFees: true,
	domain.FieldNCI:                true,
}

func isDerived(field string) bool {
	return derivedFields[field]
}

// derivedChain lists the derived fields in calculation order; each entry
// feeds every entry after it, except that the three percent-deductions are
// siblings feeding only the totals.
var derivedChain = map[string][]string{
	domain.FieldGCI: {
		domain.FieldReferralDollar, domain.FieldAdjustedGCI,
		domain.FieldRoyalty, domain.FieldCompanyDollar, domain.FieldPreSplitDeduction,
		domain.FieldTotalBrokerageFees, domain.FieldNCI,
	},
	domain.FieldReferralDollar: {
		domain.FieldAdjustedGCI,
		domain.FieldRoyalty, domain.FieldCompanyDollar, domain.FieldPreSplitDeduction,
		domain.FieldTotalBrokerageFees, domain.FieldNCI,
	},
	domain.FieldAdjustedGCI: {
		domain.FieldRoyalty, domain.FieldCompanyDollar, domain.FieldPreSplitDeduction,
		domain.FieldTotalBrokerageFees, domain.FieldNCI,
	},
	domain.FieldRoyalty:            {domain.FieldTotalBrokerageFees, domain.FieldNCI},
	domain.FieldCompanyDollar:      {domain.FieldTotalBrokerageFees, domain.FieldNCI},
	domain.FieldPreSplitDeduction:  {domain.FieldTotalBrokerageFees, domain.FieldNCI},
	domain.FieldTotalBrokerageFees: {domain.FieldNCI},
}

// downstream returns every derived field affected by a change to the named
// input field, given the record's branch and brokerage. An input that the
// current branch ignores affects nothing, so pins survive edits that could
// not have changed the pinned value.
func downstream(tx *domain.Transaction, field string) []string {
	isReferralReceived := tx.TransactionType == domain.TypeReferralReceived

	var roots []string
	switch field {
	case domain.FieldTransactionType, domain.FieldBrokerage:
		roots = []string{domain.FieldGCI}
	case domain.FieldClosedPrice, domain.FieldCommissionPct:
		if !isReferralReceived {
			roots = []string{domain.FieldGCI}
		}
	case domain.FieldReferralFeeReceived:
		if isReferralReceived {
			roots = []string{domain.FieldGCI}
		}
	case domain.FieldReferralPct:
		if !isReferralReceived {
			roots = []string{domain.FieldReferralDollar}
		}
	case domain.FieldEO, domain.FieldHOATransfer, domain.FieldHomeWarranty,
		domain.FieldKWCares, domain.FieldKWNextGen, domain.FieldBoldScholarship,
		domain.FieldTCConcierge, domain.FieldJelmbergTeam:
		if tx.Brokerage == domain.BrokerageKellerWilliams {
			roots = []string{domain.FieldTotalBrokerageFees}
		}
	case domain.FieldBDHSplitPct, domain.FieldASF, domain.FieldFoundation10, domain.FieldAdminFee:
		if tx.Brokerage == domain.BrokerageBennionDeville {
			roots = []string{domain.FieldTotalBrokerageFees}
		}
	case domain.FieldOtherDeductions, domain.FieldBuyersAgentSplit:
		roots = []string{domain.FieldTotalBrokerageFees}
	}
	// assistantBonus and every descriptive field reach here with no roots:
	// they feed nothing.

	if len(roots) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range roots {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
		for _, d := range derivedChain[r] {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}
