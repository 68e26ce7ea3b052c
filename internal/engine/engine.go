package engine

import (
	"fmt"

	"github.com/jelmberg/commission-tracker/internal/domain"
)

// Keller-Williams percent deductions, taken from adjusted GCI.
const (
	kwRoyaltyRate       = 0.06
	kwCompanyDollarRate = 0.10
)

// Bennion-Deville pre-split deduction, taken from adjusted GCI.
const bdhPreSplitRate = 0.06

// Calculate populates every derived monetary field of tx from its inputs.
//
// It is a pure function: tx is taken by value and a new record is
// returned, and feeding the output back in with the same session yields
// the identical record. The session decides which derived fields are
// pinned by a user override and which direction each forward/inverse pair
// runs in; a nil session means nothing is pinned.
//
// Numeric permissiveness is deliberate: out-of-range percentages compute
// literally, fees may exceed adjusted GCI and drive NCI negative, and no
// value is clamped or rejected. The only hard failure is a brokerage that
// does not resolve to a known deduction schedule.
func Calculate(tx domain.Transaction, sess *Session) (domain.Transaction, error) {
	if sess == nil {
		sess = NewSession()
	}

	switch tx.Brokerage {
	case domain.BrokerageKellerWilliams, domain.BrokerageBennionDeville:
	default:
		return domain.Transaction{}, fmt.Errorf("Calculate: brokerage %q: %w", tx.Brokerage, ErrUnknownBrokerage)
	}

	out := tx

	switch tx.TransactionType {
	case domain.TypeReferralReceived:
		// Flat fee collected for referring the client away. Closed price
		// and commission rate do not participate.
		if !sess.Pinned(domain.FieldGCI) {
			out.GCI = tx.ReferralFeeReceived
		}
		if !sess.Pinned(domain.FieldReferralDollar) {
			out.ReferralDollar = 0
		}

	default: // Sale and ReferralPaid share the forward math.
		if sess.InferCommissionPct() {
			// User typed GCI: keep it and back-compute the rate. A zero
			// closed price leaves the rate undetermined; report 0.
			if tx.ClosedPrice == 0 {
				out.CommissionPct = 0
			} else {
				out.CommissionPct = out.GCI / tx.ClosedPrice * 100
			}
		} else if !sess.Pinned(domain.FieldGCI) {
			out.GCI = tx.ClosedPrice * tx.CommissionPct / 100
		}

		if sess.InferReferralPct() {
			if out.GCI == 0 {
				out.ReferralPct = 0
			} else {
				out.ReferralPct = out.ReferralDollar / out.GCI * 100
			}
		} else if !sess.Pinned(domain.FieldReferralDollar) {
			out.ReferralDollar = out.GCI * out.ReferralPct / 100
		}
	}

	if !sess.Pinned(domain.FieldAdjustedGCI) {
		out.AdjustedGCI = out.GCI - out.ReferralDollar
	}

	var fees float64
	switch tx.Brokerage {
	case domain.BrokerageKellerWilliams:
		if !sess.Pinned(domain.FieldRoyalty) {
			out.Royalty = out.AdjustedGCI * kwRoyaltyRate
		}
		if !sess.Pinned(domain.FieldCompanyDollar) {
			out.CompanyDollar = out.AdjustedGCI * kwCompanyDollarRate
		}
		fees = out.EO + out.Royalty + out.CompanyDollar +
			out.HOATransfer + out.HomeWarranty + out.KWCares + out.KWNextGen +
			out.BoldScholarship + out.TCConcierge + out.JelmbergTeam +
			out.OtherDeductions + out.BuyersAgentSplit

	case domain.BrokerageBennionDeville:
		if !sess.Pinned(domain.FieldPreSplitDeduction) {
			out.PreSplitDeduction = out.AdjustedGCI * bdhPreSplitRate
		}
		afterPreSplit := out.AdjustedGCI - out.PreSplitDeduction
		agentSplit := afterPreSplit * out.BDHSplitPct / 100
		brokeragePortion := out.AdjustedGCI - agentSplit
		// The observed BDH schedule collects eo but never sums it into the
		// totals. Preserved as-is; see the regression test pinning this.
		fees = out.PreSplitDeduction + brokeragePortion +
			out.ASF + out.Foundation10 + out.AdminFee +
			out.OtherDeductions + out.BuyersAgentSplit
	}

	if !sess.Pinned(domain.FieldTotalBrokerageFees) {
		out.TotalBrokerageFees = fees
	}
	if !sess.Pinned(domain.FieldNCI) {
		out.NCI = out.AdjustedGCI - out.TotalBrokerageFees
	}

	return out, nil
}
