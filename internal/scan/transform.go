package scan

import (
	"fmt"

	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/engine"
)

// Candidate is a partially filled transaction extracted from a document,
// plus the model's overall confidence (0-100). Present lists the fields
// the model actually read, in merge order; absent fields stay unset and
// are never merged.
type Candidate struct {
	Transaction domain.Transaction `json:"transaction"`
	Present     []string           `json:"present"`
	Confidence  float64            `json:"confidence"`
}

// candidateFieldOrder fixes the merge order. Type and brokerage come
// first so the edit session sees the candidate's branch and schedule when
// later touches are recorded.
var candidateFieldOrder = []string{
	domain.FieldTransactionType,
	domain.FieldBrokerage,
	domain.FieldClientType,
	domain.FieldStatus,
	domain.FieldPropertyType,
	domain.FieldSource,
	domain.FieldAddress,
	domain.FieldCity,
	domain.FieldReferringAgent,
	domain.FieldListDate,
	domain.FieldClosingDate,
	domain.FieldListPrice,
	domain.FieldClosedPrice,
	domain.FieldCommissionPct,
	domain.FieldReferralPct,
	domain.FieldReferralFeeReceived,
}

// candidateFromModelOutput converts the model's raw JSON object into a
// Candidate. String-typed numbers parse leniently; a brokerage string the
// engine does not recognize is dropped from the candidate rather than
// failing the scan.
func candidateFromModelOutput(raw map[string]interface{}) (*Candidate, error) {
	if raw == nil {
		return nil, fmt.Errorf("candidateFromModelOutput: empty model output")
	}

	c := &Candidate{Confidence: rawFloat(raw["confidence"])}

	for _, field := range candidateFieldOrder {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}

		switch field {
		case domain.FieldTransactionType:
			c.Transaction.TransactionType = domain.ParseTransactionType(rawString(v))
		case domain.FieldBrokerage:
			b, err := engine.ParseBrokerage(rawString(v))
			if err != nil {
				continue
			}
			c.Transaction.Brokerage = b
		case domain.FieldClientType:
			c.Transaction.ClientType = rawString(v)
		case domain.FieldStatus:
			c.Transaction.Status = rawString(v)
		case domain.FieldPropertyType:
			c.Transaction.PropertyType = rawString(v)
		case domain.FieldSource:
			c.Transaction.Source = rawString(v)
		case domain.FieldAddress:
			c.Transaction.Address = rawString(v)
		case domain.FieldCity:
			c.Transaction.City = rawString(v)
		case domain.FieldReferringAgent:
			c.Transaction.ReferringAgent = rawString(v)
		case domain.FieldListDate:
			c.Transaction.ListDate = rawString(v)
		case domain.FieldClosingDate:
			c.Transaction.ClosingDate = rawString(v)
		case domain.FieldListPrice:
			c.Transaction.ListPrice = rawFloat(v)
		case domain.FieldClosedPrice:
			c.Transaction.ClosedPrice = rawFloat(v)
		case domain.FieldCommissionPct:
			c.Transaction.CommissionPct = rawFloat(v)
		case domain.FieldReferralPct:
			c.Transaction.ReferralPct = rawFloat(v)
		case domain.FieldReferralFeeReceived:
			c.Transaction.ReferralFeeReceived = rawFloat(v)
		}

		c.Present = append(c.Present, field)
	}

	return c, nil
}

// Merge applies the candidate's present fields onto tx exactly as if the
// user had typed them, recording each one as a touch on the edit session.
func Merge(tx domain.Transaction, c *Candidate, sess *engine.Session) domain.Transaction {
	out := tx
	for _, field := range c.Present {
		applyField(&out, &c.Transaction, field)
		if sess != nil {
			sess.Touch(&out, field)
		}
	}
	return out
}

func applyField(dst, src *domain.Transaction, field string) {
	switch field {
	case domain.FieldTransactionType:
		dst.TransactionType = src.TransactionType
	case domain.FieldBrokerage:
		dst.Brokerage = src.Brokerage
	case domain.FieldClientType:
		dst.ClientType = src.ClientType
	case domain.FieldStatus:
		dst.Status = src.Status
	case domain.FieldPropertyType:
		dst.PropertyType = src.PropertyType
	case domain.FieldSource:
		dst.Source = src.Source
	case domain.FieldAddress:
		dst.Address = src.Address
	case domain.FieldCity:
		dst.City = src.City
	case domain.FieldReferringAgent:
		dst.ReferringAgent = src.ReferringAgent
	case domain.FieldListDate:
		dst.ListDate = src.ListDate
	case domain.FieldClosingDate:
		dst.ClosingDate = src.ClosingDate
	case domain.FieldListPrice:
		dst.ListPrice = src.ListPrice
	case domain.FieldClosedPrice:
		dst.ClosedPrice = src.ClosedPrice
	case domain.FieldCommissionPct:
		dst.CommissionPct = src.CommissionPct
	case domain.FieldReferralPct:
		dst.ReferralPct = src.ReferralPct
	case domain.FieldReferralFeeReceived:
		dst.ReferralFeeReceived = src.ReferralFeeReceived
	}
}

// rawString reads a JSON value as a string; non-strings stringify.
func rawString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// rawFloat reads a JSON value as a number. Malformed numeric input
// coerces to 0 before calculation, per the calculator's recovery policy.
func rawFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		return domain.ParseAmount(n)
	case nil:
		return 0
	default:
		return 0
	}
}
