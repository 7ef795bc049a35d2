package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// AssetInfo per-token ledger state
type AssetInfo struct {
	ID         uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Token      string `sql:"size:36;unique_index:asset_token_idx" json:"token"`
	ShareToken string `sql:"size:36;unique_index:asset_share_idx" json:"share_token"`
	Enabled    bool   `json:"enabled"`
	// token balance owned by the ledger
	Cash         decimal.Decimal `sql:"type:decimal(32,16)" json:"cash"`
	TotalBorrows decimal.Decimal `sql:"type:decimal(32,16)" json:"total_borrows"`
	// reserves accrued over the lifetime of the asset, including withdrawn ones
	TotalReserves     decimal.Decimal `sql:"type:decimal(32,16)" json:"total_reserves"`
	WithdrawnReserves decimal.Decimal `sql:"type:decimal(32,16)" json:"withdrawn_reserves"`
	// cumulative compounding factor, starts at 1
	BorrowIndex decimal.Decimal `sql:"type:decimal(48,24);default:1" json:"borrow_index"`
	AccrualTime time.Time       `json:"accrual_time"`
	// (0, 1), fraction of new interest routed to reserves
	ReserveFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"reserve_factor"`
	// zero means uncapped
	MaxDepositAmount    decimal.Decimal `sql:"type:decimal(32,16)" json:"max_deposit_amount"`
	CollateralWeight    decimal.Decimal `sql:"type:decimal(20,8)" json:"collateral_weight"`
	DebtWeight          decimal.Decimal `sql:"type:decimal(20,8)" json:"debt_weight"`
	MaxCollateralAmount decimal.Decimal `sql:"type:decimal(32,16)" json:"max_collateral_amount"`
	InitExchangeRate    decimal.Decimal `sql:"type:decimal(20,8);default:1" json:"init_exchange_rate"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// UnwithdrawnReserves reserves still owned by the ledger
func (a *AssetInfo) UnwithdrawnReserves() decimal.Decimal {
	return a.TotalReserves.Sub(a.WithdrawnReserves)
}

// AvailableCash cash that may leave the ledger without touching reserves
func (a *AssetInfo) AvailableCash() decimal.Decimal {
	return a.Cash.Sub(a.UnwithdrawnReserves())
}

// Clone returns a copy of the asset
func (a *AssetInfo) Clone() *AssetInfo {
	if a == nil {
		return nil
	}

	clone := *a
	return &clone
}

// AssetConfig parameters used to register an asset
type AssetConfig struct {
	Token               string          `json:"token"`
	ShareToken          string          `json:"share_token"`
	ReserveFactor       decimal.Decimal `json:"reserve_factor"`
	MaxDepositAmount    decimal.Decimal `json:"max_deposit_amount"`
	CollateralWeight    decimal.Decimal `json:"collateral_weight"`
	DebtWeight          decimal.Decimal `json:"debt_weight"`
	MaxCollateralAmount decimal.Decimal `json:"max_collateral_amount"`
	InitExchangeRate    decimal.Decimal `json:"init_exchange_rate"`
}

// IAssetStore asset store interface
type IAssetStore interface {
	Save(ctx context.Context, tx *db.DB, asset *AssetInfo) error
	Find(ctx context.Context, token string) (*AssetInfo, error)
	All(ctx context.Context) ([]*AssetInfo, error)
}
