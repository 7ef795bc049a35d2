package ledger

import (
	"context"
	"time"

	"lendingpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// txn copy-on-write overlay of the ledger state
type txn struct {
	base *state
	// now truncated to whole seconds, accrual clock
	now time.Time
	// untruncated block time
	rawNow time.Time

	assets        map[string]*core.AssetInfo
	added         []string
	borrows       map[borrowKey]*core.BorrowRecord
	borrowerCount int64
	// nil value marks a removed deposit
	deposits     map[string]*core.FixedTermDeposit
	depositOrder []string
	// stream position committed with the transaction, empty keeps the current one
	cursor string

	compensations []func(ctx context.Context) error
}

func newTxn(base *state, now time.Time) *txn {
	return &txn{
		base:          base,
		now:           now.Truncate(time.Second),
		rawNow:        now,
		assets:        map[string]*core.AssetInfo{},
		borrows:       map[borrowKey]*core.BorrowRecord{},
		borrowerCount: base.borrowerCount,
		deposits:      map[string]*core.FixedTermDeposit{},
	}
}

func (tx *txn) tokens() []string {
	return append(append([]string(nil), tx.base.tokens...), tx.added...)
}

func (tx *txn) hasAsset(token string) bool {
	if _, ok := tx.assets[token]; ok {
		return true
	}

	_, ok := tx.base.assets[token]
	return ok
}

func (tx *txn) asset(token string) (*core.AssetInfo, error) {
	if asset, ok := tx.assets[token]; ok {
		return asset, nil
	}

	asset, ok := tx.base.assets[token]
	if !ok {
		return nil, core.ErrAssetNotFound
	}

	clone := asset.Clone()
	tx.assets[token] = clone
	return clone, nil
}

func (tx *txn) addAsset(asset *core.AssetInfo) {
	tx.assets[asset.Token] = asset
	tx.added = append(tx.added, asset.Token)
}

// borrow returns the record of pool in token, a zero record if the pool never borrowed it
func (tx *txn) borrow(pool, token string) *core.BorrowRecord {
	key := borrowKey{pool: pool, token: token}
	if b, ok := tx.borrows[key]; ok {
		return b
	}

	var b *core.BorrowRecord
	if existing, ok := tx.base.borrows[key]; ok {
		b = existing.Clone()
	} else {
		b = &core.BorrowRecord{
			Pool:      pool,
			Token:     token,
			Principal: decimal.Zero,
			CreatedAt: tx.rawNow,
		}
	}

	tx.borrows[key] = b
	return b
}

// peekBorrow returns the record without staging it, nil if none
func (tx *txn) peekBorrow(pool, token string) *core.BorrowRecord {
	key := borrowKey{pool: pool, token: token}
	if b, ok := tx.borrows[key]; ok {
		return b
	}

	return tx.base.borrows[key]
}

func (tx *txn) deposit(key string) (*core.FixedTermDeposit, bool) {
	if d, ok := tx.deposits[key]; ok {
		return d, d != nil
	}

	d, ok := tx.base.deposits[key]
	if !ok {
		return nil, false
	}

	return d.Clone(), true
}

func (tx *txn) putDeposit(d *core.FixedTermDeposit) {
	tx.deposits[d.Key] = d
	tx.depositOrder = append(tx.depositOrder, d.Key)
}

func (tx *txn) deleteDeposit(key string) {
	tx.deposits[key] = nil
	tx.depositOrder = append(tx.depositOrder, key)
}

// lockedShares shares of owner in token held by active deposits, staged writes included
func (tx *txn) lockedShares(token, owner string) decimal.Decimal {
	locked := tx.base.lockedShares(token, owner)
	list := tx.base.owners[ownerKey{token: token, owner: owner}]

	for key, d := range tx.deposits {
		if list != nil && list.Has(key) {
			locked = locked.Sub(tx.base.deposits[key].ShareAmount)
		}

		if d != nil && d.Token == token && d.Owner == owner {
			locked = locked.Add(d.ShareAmount)
		}
	}

	return locked
}

// compensate registers fn to undo an external effect if the transaction aborts
func (tx *txn) compensate(fn func(ctx context.Context) error) {
	tx.compensations = append(tx.compensations, fn)
}

func (tx *txn) rollback(ctx context.Context) {
	for idx := len(tx.compensations) - 1; idx >= 0; idx-- {
		if err := tx.compensations[idx](ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("compensation failed")
		}
	}

	tx.compensations = nil
}

func (tx *txn) apply(s *state) {
	for token, asset := range tx.assets {
		asset.UpdatedAt = tx.rawNow
		s.assets[token] = asset
	}

	s.tokens = append(s.tokens, tx.added...)

	for key, b := range tx.borrows {
		if b.Principal.IsZero() && b.InterestIndex.IsZero() {
			// never settled
			continue
		}

		b.UpdatedAt = tx.rawNow
		s.borrows[key] = b
	}

	s.borrowerCount = tx.borrowerCount
	if tx.cursor != "" {
		s.cursor = tx.cursor
	}

	for _, key := range tx.depositOrder {
		d, ok := tx.deposits[key]
		if !ok {
			continue
		}

		// the last write of a key wins
		delete(tx.deposits, key)

		if d == nil {
			s.deleteDeposit(key)
		} else {
			s.putDeposit(d)
		}
	}
}
