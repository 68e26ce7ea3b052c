package sheetsync

import (
	"fmt"

	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/engine"
)

// RowWidth is the number of cells in one sheet row. The column order is
// fixed and shared with the spreadsheet template; both directions of the
// sync rely on it.
const RowWidth = 26

// Column indices into a sheet row.
const (
	colPropertyType = iota
	colClientType
	colSource
	colAddress
	colCity
	colListPrice
	colCommissionPct
	colListDate
	colClosingDate
	colBrokerage
	colNetVolume
	colClosedPrice
	colGCI
	colReferralPct
	colReferralDollar
	colAdjustedGCI
	colBrokerageSplit // KW: royalty + company dollar, BDH: pre-split deduction
	colAdminFeesOther // admin fee + other deductions, one column on the sheet
	colNCI
	colStatus
	colAssistantBonus
	colBuyersAgentSplit
	colTransactionType
	colReferringAgent
	colReferralFeeReceived
	colTotalBrokerageFees
)

// ToRow encodes a transaction as its fixed-order sheet row. Derived fields
// travel as transport fields; the engine is never re-run on the far side.
func ToRow(tx *domain.Transaction) []interface{} {
	row := make([]interface{}, RowWidth)

	split := tx.PreSplitDeduction
	if tx.Brokerage == domain.BrokerageKellerWilliams {
		split = tx.Royalty + tx.CompanyDollar
	}

	row[colPropertyType] = tx.PropertyType
	row[colClientType] = tx.ClientType
	row[colSource] = tx.Source
	row[colAddress] = tx.Address
	row[colCity] = tx.City
	row[colListPrice] = tx.ListPrice
	row[colCommissionPct] = tx.CommissionPct
	row[colListDate] = tx.ListDate
	row[colClosingDate] = tx.ClosingDate
	row[colBrokerage] = string(tx.Brokerage)
	row[colNetVolume] = tx.NetVolume
	row[colClosedPrice] = tx.ClosedPrice
	row[colGCI] = tx.GCI
	row[colReferralPct] = tx.ReferralPct
	row[colReferralDollar] = tx.ReferralDollar
	row[colAdjustedGCI] = tx.AdjustedGCI
	row[colBrokerageSplit] = split
	row[colAdminFeesOther] = tx.AdminFee + tx.OtherDeductions
	row[colNCI] = tx.NCI
	row[colStatus] = tx.Status
	row[colAssistantBonus] = tx.AssistantBonus
	row[colBuyersAgentSplit] = tx.BuyersAgentSplit
	row[colTransactionType] = string(tx.TransactionType)
	row[colReferringAgent] = tx.ReferringAgent
	row[colReferralFeeReceived] = tx.ReferralFeeReceived
	row[colTotalBrokerageFees] = tx.TotalBrokerageFees

	return row
}

// FromRow decodes one sheet row into a transaction. Missing trailing cells
// read as empty, malformed numbers coerce to 0; the only hard failure is a
// brokerage cell that resolves to no known schedule.
func FromRow(row []interface{}) (*domain.Transaction, error) {
	brokerage, err := engine.ParseBrokerage(cellString(row, colBrokerage))
	if err != nil {
		return nil, fmt.Errorf("FromRow: %w", err)
	}

	tx := &domain.Transaction{
		TransactionType: domain.ParseTransactionType(cellString(row, colTransactionType)),
		Brokerage:       brokerage,

		PropertyType:   cellString(row, colPropertyType),
		ClientType:     cellString(row, colClientType),
		Source:         cellString(row, colSource),
		Address:        cellString(row, colAddress),
		City:           cellString(row, colCity),
		Status:         cellString(row, colStatus),
		ReferringAgent: cellString(row, colReferringAgent),
		ListDate:       cellString(row, colListDate),
		ClosingDate:    cellString(row, colClosingDate),

		ListPrice:           cellFloat(row, colListPrice),
		CommissionPct:       cellFloat(row, colCommissionPct),
		NetVolume:           cellFloat(row, colNetVolume),
		ClosedPrice:         cellFloat(row, colClosedPrice),
		ReferralPct:         cellFloat(row, colReferralPct),
		ReferralFeeReceived: cellFloat(row, colReferralFeeReceived),
		AssistantBonus:      cellFloat(row, colAssistantBonus),
		BuyersAgentSplit:    cellFloat(row, colBuyersAgentSplit),
		OtherDeductions:     cellFloat(row, colAdminFeesOther),
		BDHSplitPct:         domain.DefaultBDHSplitPct,

		GCI:                cellFloat(row, colGCI),
		ReferralDollar:     cellFloat(row, colReferralDollar),
		AdjustedGCI:        cellFloat(row, colAdjustedGCI),
		NCI:                cellFloat(row, colNCI),
		TotalBrokerageFees: cellFloat(row, colTotalBrokerageFees),
	}

	// The sheet carries a single brokerage-split column. For BDH records it
	// maps straight back; the KW royalty/company-dollar breakdown is not
	// recoverable from the combined cell and is left to the engine.
	if brokerage == domain.BrokerageBennionDeville {
		tx.PreSplitDeduction = cellFloat(row, colBrokerageSplit)
	}

	return tx, nil
}

// cellString reads a cell as a string, tolerating short rows.
func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}

// cellFloat reads a cell as a number. The Sheets API returns strings for
// user-entered values; anything unparseable coerces to 0.
func cellFloat(row []interface{}, i int) float64 {
	if i >= len(row) || row[i] == nil {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		return domain.ParseAmount(v)
	default:
		return domain.ParseAmount(fmt.Sprint(v))
	}
}
