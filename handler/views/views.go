package views

import (
	"lendingpool/core"

	"github.com/shopspring/decimal"
)

// Asset asset view
type Asset struct {
	*core.AssetInfo
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Utilization  decimal.Decimal `json:"utilization"`
	BorrowRate   decimal.Decimal `json:"borrow_rate"`
	SupplyRate   decimal.Decimal `json:"supply_rate"`
}

// Borrow borrow view
type Borrow struct {
	*core.BorrowRecord
	Owed decimal.Decimal `json:"owed"`
}

// Deposit fixed-term deposit view
type Deposit struct {
	*core.FixedTermDeposit
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
}
