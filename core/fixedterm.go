package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// FixedTermTier price-tiered interest schedule of a locked deposit
type FixedTermTier struct {
	BaseInterestRate decimal.Decimal `sql:"type:decimal(20,8)" json:"base_interest_rate"`
	LowInterestRate  decimal.Decimal `sql:"type:decimal(20,8)" json:"low_interest_rate"`
	HighInterestRate decimal.Decimal `sql:"type:decimal(20,8)" json:"high_interest_rate"`
	LowPriceBound    decimal.Decimal `sql:"type:decimal(32,16)" json:"low_price_bound"`
	HighPriceBound   decimal.Decimal `sql:"type:decimal(32,16)" json:"high_price_bound"`
	LockDays         int64           `json:"lock_days"`
}

// FixedTermDeposit a locked deposit, keyed by hash(owner, block height, timestamp)
type FixedTermDeposit struct {
	FixedTermTier
	Key                string          `sql:"size:36;PRIMARY_KEY" json:"key"`
	Owner              string          `sql:"size:36;index:fixed_term_owner_idx" json:"owner"`
	Token              string          `sql:"size:36;index:fixed_term_owner_idx" json:"token"`
	ShareToken         string          `sql:"size:36" json:"share_token"`
	ShareAmount        decimal.Decimal `sql:"type:decimal(32,16)" json:"share_amount"`
	PrincipalAmount    decimal.Decimal `sql:"type:decimal(32,16)" json:"principal_amount"`
	DepositTimestamp   time.Time       `json:"deposit_timestamp"`
	DepositBlockHeight int64           `json:"deposit_block_height"`
}

// Clone returns a copy of the deposit
func (d *FixedTermDeposit) Clone() *FixedTermDeposit {
	if d == nil {
		return nil
	}

	clone := *d
	return &clone
}

// IFixedTermStore fixed-term deposit store interface
type IFixedTermStore interface {
	Save(ctx context.Context, tx *db.DB, deposit *FixedTermDeposit) error
	Delete(ctx context.Context, tx *db.DB, key string) error
	All(ctx context.Context) ([]*FixedTermDeposit, error)
}
