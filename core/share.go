package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// ShareSinkHolder holder of the minimum shares retired on the first deposit, never redeemable
const ShareSinkHolder = "00000000-0000-0000-0000-000000000000"

// ShareBalance share token balance of one holder
type ShareBalance struct {
	ShareToken string          `sql:"size:36;PRIMARY_KEY" json:"share_token"`
	Holder     string          `sql:"size:36;PRIMARY_KEY" json:"holder"`
	Amount     decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IShareStore share balance store interface
type IShareStore interface {
	Save(ctx context.Context, tx *db.DB, balance *ShareBalance) error
	All(ctx context.Context) ([]*ShareBalance, error)
}
