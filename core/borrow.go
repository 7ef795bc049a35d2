package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// BorrowRecord debt of one pool in one token, scaled by the asset borrow index
type BorrowRecord struct {
	ID    uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Pool  string `sql:"size:36;unique_index:borrow_idx" json:"pool"`
	Token string `sql:"size:36;unique_index:borrow_idx" json:"token"`
	// amount owed at the last settlement
	Principal decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	// borrow index of the asset at the last settlement
	InterestIndex decimal.Decimal `sql:"type:decimal(48,24);default:1" json:"interest_index"`
	CreatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Clone returns a copy of the record
func (b *BorrowRecord) Clone() *BorrowRecord {
	if b == nil {
		return nil
	}

	clone := *b
	return &clone
}

// IBorrowStore borrow store interface
type IBorrowStore interface {
	Save(ctx context.Context, tx *db.DB, borrow *BorrowRecord) error
	All(ctx context.Context) ([]*BorrowRecord, error)
}
