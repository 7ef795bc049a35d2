package core

import (
	"github.com/shopspring/decimal"
)

// RiskParameters margin thresholds, MM < IM
type RiskParameters struct {
	InitialMargin     decimal.Decimal `json:"initial_margin"`
	MaintenanceMargin decimal.Decimal `json:"maintenance_margin"`
}

// RiskReport collateral evaluation of one pool
type RiskReport struct {
	Pool string `json:"pool"`
	// weighted collateral & debt values
	Collateral decimal.Decimal `json:"collateral"`
	Debt       decimal.Decimal `json:"debt"`
	Ratio      decimal.Decimal `json:"ratio"`
	// signed net value over unweighted debt value
	BorrowRatio decimal.Decimal `json:"borrow_ratio"`
	// unweighted totals
	AssetValue   decimal.Decimal `json:"asset_value"`
	DebtValue    decimal.Decimal `json:"debt_value"`
	Safe         bool            `json:"safe"`
	BorrowSafe   bool            `json:"borrow_safe"`
	Liquidatable bool            `json:"liquidatable"`
	BadDebt      bool            `json:"bad_debt"`
}
