package domain

import (
	"strconv"
	"strings"
	"time"
)

// TransactionType selects which calculation branch applies to a record.
type TransactionType string

const (
	// TypeSale is a regular closed sale.
	TypeSale TransactionType = "SALE"
	// TypeReferralReceived means the client was referred away and the agent
	// collects a flat referral fee instead of a commission.
	TypeReferralReceived TransactionType = "REFERRAL_RECEIVED"
	// TypeReferralPaid is a sale where a cut is owed to the referring agent.
	TypeReferralPaid TransactionType = "REFERRAL_PAID"
)

// Brokerage selects which deduction schedule applies to a record.
type Brokerage string

const (
	BrokerageKellerWilliams Brokerage = "KELLER_WILLIAMS"
	BrokerageBennionDeville Brokerage = "BENNION_DEVILLE"
)

// DefaultBDHSplitPct is the agent's share of the post-pre-split amount
// under the Bennion-Deville schedule unless the record says otherwise.
const DefaultBDHSplitPct = 94.0

// Transaction is the sole entity of the system: one commission record with
// its raw inputs and the derived monetary fields computed by the engine.
// Derived fields are ordinary values once set; the engine decides whether
// to recompute them based on the edit session's pin state, so the same
// struct serves as both engine input and engine output.
type Transaction struct {
	ID              string          `json:"id"`
	TransactionType TransactionType `json:"transactionType"`
	Brokerage       Brokerage       `json:"brokerage"`

	// Descriptive attributes. None of these participate in calculation.
	ClientType     string `json:"clientType"`
	Status         string `json:"status"`
	PropertyType   string `json:"propertyType"`
	Source         string `json:"source"`
	Address        string `json:"address"`
	City           string `json:"city"`
	ReferringAgent string `json:"referringAgent"`

	// Pricing and date inputs.
	ListPrice           float64 `json:"listPrice"`
	ClosedPrice         float64 `json:"closedPrice"`
	ListDate            string  `json:"listDate"`    // YYYY-MM-DD
	ClosingDate         string  `json:"closingDate"` // YYYY-MM-DD
	CommissionPct       float64 `json:"commissionPct"`
	ReferralPct         float64 `json:"referralPct"`
	ReferralFeeReceived float64 `json:"referralFeeReceived"`

	// Keller-Williams deduction schedule inputs (flat dollars).
	EO              float64 `json:"eo"`
	HOATransfer     float64 `json:"hoaTransfer"`
	HomeWarranty    float64 `json:"homeWarranty"`
	KWCares         float64 `json:"kwCares"`
	KWNextGen       float64 `json:"kwNextGen"`
	BoldScholarship float64 `json:"boldScholarship"`
	TCConcierge     float64 `json:"tcConcierge"`
	JelmbergTeam    float64 `json:"jelmbergTeam"`

	// Bennion-Deville deduction schedule inputs.
	BDHSplitPct  float64 `json:"bdhSplitPct"`
	ASF          float64 `json:"asf"`
	Foundation10 float64 `json:"foundation10"`
	AdminFee     float64 `json:"adminFee"`

	// Universal deductions. AssistantBonus is display-only and never
	// participates in any derived total.
	OtherDeductions  float64 `json:"otherDeductions"`
	BuyersAgentSplit float64 `json:"buyersAgentSplit"`
	AssistantBonus   float64 `json:"assistantBonus"`

	// NetVolume travels on the sheet row but is not computed here.
	NetVolume float64 `json:"netVolume"`

	// Derived fields, populated by the engine. Royalty/CompanyDollar are
	// meaningful for Keller-Williams records, PreSplitDeduction for
	// Bennion-Deville; the other set is carried but unused.
	GCI                float64 `json:"gci"`
	ReferralDollar     float64 `json:"referralDollar"`
	AdjustedGCI        float64 `json:"adjustedGci"`
	Royalty            float64 `json:"royalty"`
	CompanyDollar      float64 `json:"companyDollar"`
	PreSplitDeduction  float64 `json:"preSplitDeduction"`
	TotalBrokerageFees float64 `json:"totalBrokerageFees"`
	NCI                float64 `json:"nci"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Field names, matching the JSON tags above. The edit session and the scan
// candidate both address fields by these names.
const (
	FieldTransactionType     = "transactionType"
	FieldBrokerage           = "brokerage"
	FieldClientType          = "clientType"
	FieldStatus              = "status"
	FieldPropertyType        = "propertyType"
	FieldSource              = "source"
	FieldAddress             = "address"
	FieldCity                = "city"
	FieldReferringAgent      = "referringAgent"
	FieldListPrice           = "listPrice"
	FieldClosedPrice         = "closedPrice"
	FieldListDate            = "listDate"
	FieldClosingDate         = "closingDate"
	FieldCommissionPct       = "commissionPct"
	FieldReferralPct         = "referralPct"
	FieldReferralFeeReceived = "referralFeeReceived"
	FieldEO                  = "eo"
	FieldHOATransfer         = "hoaTransfer"
	FieldHomeWarranty        = "homeWarranty"
	FieldKWCares             = "kwCares"
	FieldKWNextGen           = "kwNextGen"
	FieldBoldScholarship     = "boldScholarship"
	FieldTCConcierge         = "tcConcierge"
	FieldJelmbergTeam        = "jelmbergTeam"
	FieldBDHSplitPct         = "bdhSplitPct"
	FieldASF                 = "asf"
	FieldFoundation10        = "foundation10"
	FieldAdminFee            = "adminFee"
	FieldOtherDeductions     = "otherDeductions"
	FieldBuyersAgentSplit    = "buyersAgentSplit"
	FieldAssistantBonus      = "assistantBonus"
	FieldNetVolume           = "netVolume"

	FieldGCI                = "gci"
	FieldReferralDollar     = "referralDollar"
	FieldAdjustedGCI        = "adjustedGci"
	FieldRoyalty            = "royalty"
	FieldCompanyDollar      = "companyDollar"
	FieldPreSplitDeduction  = "preSplitDeduction"
	FieldTotalBrokerageFees = "totalBrokerageFees"
	FieldNCI                = "nci"
)

// New creates an empty transaction with brokerage and schedule defaults
// applied, ready for the form or a scan candidate to populate.
func New(id string) *Transaction {
	return &Transaction{
		ID:              id,
		TransactionType: TypeSale,
		Brokerage:       BrokerageKellerWilliams,
		BDHSplitPct:     DefaultBDHSplitPct,
		CreatedAt:       time.Now(),
	}
}

// ParseTransactionType normalizes a loosely typed transaction-type string.
// Unrecognized or empty values fall back to a plain sale, matching the
// tool's best-effort calculator philosophy.
func ParseTransactionType(s string) TransactionType {
	switch normalizeToken(s) {
	case "REFERRAL RECEIVED", "REFERRALRECEIVED", "REFERRAL IN":
		return TypeReferralReceived
	case "REFERRAL PAID", "REFERRALPAID", "REFERRAL OUT":
		return TypeReferralPaid
	default:
		return TypeSale
	}
}

// ParseAmount parses a lenient monetary or percentage value. Currency
// symbols, commas and surrounding whitespace are tolerated; anything that
// still fails to parse is coerced to 0 rather than surfaced as an error.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func normalizeToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
