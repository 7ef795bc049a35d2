package ledger

import (
	"context"
	"fmt"
	"sync/atomic"

	"lendingpool/core"
	"lendingpool/internal/compound"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func (l *Ledger) owed(ctx context.Context, b *core.BorrowRecord, asset *core.AssetInfo) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}

	owed, clamped := compound.BorrowBalance(b.Principal, b.InterestIndex, asset.BorrowIndex)
	if clamped {
		atomic.AddInt64(&l.indexClamps, 1)
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"pool":           b.Pool,
			"token":          b.Token,
			"interest_index": b.InterestIndex,
			"borrow_index":   asset.BorrowIndex,
		}).Warnln("borrow interest index above asset index, clamped")
	}

	return owed
}

// Borrow lends amount of token to pool, the pool must stay above the initial margin afterwards
func (l *Ledger) Borrow(ctx context.Context, pool core.IPool, token string, amount decimal.Decimal) error {
	return l.update(ctx, "borrow", func(tx *txn) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		asset, err := l.enabledAsset(ctx, tx, token)
		if err != nil {
			return err
		}

		// the risk check below values every token of the pool
		if err := l.accrueAll(ctx, tx); err != nil {
			return err
		}

		b := tx.borrow(pool.ID(), token)
		owed := l.owed(ctx, b, asset)

		quota, err := l.poolQuota.GetQuota(ctx, pool.ID(), token)
		if err != nil {
			return fmt.Errorf("borrow quota of %s: %w", pool.ID(), err)
		}

		if owed.Add(amount).GreaterThan(quota) {
			return core.ErrBorrowQuotaExceeded
		}

		if amount.GreaterThan(asset.AvailableCash()) {
			return core.ErrInsufficientLiquidity
		}

		if !owed.IsPositive() {
			tx.borrowerCount++
		}

		b.Principal = owed.Add(amount)
		b.InterestIndex = asset.BorrowIndex
		asset.TotalBorrows = asset.TotalBorrows.Add(amount)
		asset.Cash = asset.Cash.Sub(amount)

		report, err := l.evaluate(ctx, tx, pool, map[string]decimal.Decimal{token: amount})
		if err != nil {
			return err
		}

		if !report.BorrowSafe {
			return core.ErrInsufficientCollaterals
		}

		if err := l.transfer(ctx, token, pool.ID(), amount); err != nil {
			return err
		}

		logger.FromContext(ctx).WithField("token", token).Infof("%s borrowed %s, owes %s", pool.ID(), amount, b.Principal)
		return nil
	})
}

// settle applies a repayment of amount to the pool's record. The tokens must have been
// pushed to custody beforehand, any excess above amount goes back to the pool.
func (l *Ledger) settle(ctx context.Context, tx *txn, pool string, asset *core.AssetInfo, amount decimal.Decimal) error {
	b := tx.borrow(pool, asset.Token)
	owed := l.owed(ctx, b, asset)

	if amount.GreaterThan(owed) {
		return core.ErrRepayExceedsDebt
	}

	inbound, err := l.inbound(ctx, asset)
	if err != nil {
		return err
	}

	if inbound.LessThan(amount) {
		return core.ErrRepaymentNotReceived
	}

	principal := owed.Sub(amount)
	if owed.IsPositive() && !principal.IsPositive() {
		tx.borrowerCount--
	}

	b.Principal = principal
	b.InterestIndex = asset.BorrowIndex

	totalBorrows := asset.TotalBorrows.Sub(amount)
	if totalBorrows.IsNegative() || tx.borrowerCount <= 0 {
		// rounding dust once nobody owes anything
		totalBorrows = decimal.Zero
	}

	if tx.borrowerCount < 0 {
		tx.borrowerCount = 0
	}

	asset.TotalBorrows = totalBorrows
	asset.Cash = asset.Cash.Add(amount)

	if excess := inbound.Sub(amount); excess.IsPositive() {
		if err := l.transfer(ctx, asset.Token, pool, excess); err != nil {
			return err
		}
	}

	logger.FromContext(ctx).WithField("token", asset.Token).Infof("%s repaid %s, owes %s", pool, amount, principal)
	return nil
}

// Repay repays amount of the pool's debt in token, rejected while the pool is being liquidated
func (l *Ledger) Repay(ctx context.Context, pool core.IPool, token string, amount decimal.Decimal) error {
	return l.update(ctx, "repay", func(tx *txn) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		liquidating, err := pool.IsInLiquidation(ctx)
		if err != nil {
			return fmt.Errorf("liquidation state of %s: %w", pool.ID(), err)
		}

		if liquidating {
			return core.ErrPoolInLiquidation
		}

		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		return l.settle(ctx, tx, pool.ID(), asset, amount)
	})
}

// RepayAll repays the whole debt of pool in token, usable during liquidation
func (l *Ledger) RepayAll(ctx context.Context, pool core.IPool, token string) (decimal.Decimal, error) {
	var repaid decimal.Decimal
	err := l.update(ctx, "repay_all", func(tx *txn) error {
		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		owed := l.owed(ctx, tx.peekBorrow(pool.ID(), token), asset)
		if !owed.IsPositive() {
			repaid = decimal.Zero

			// nothing to settle, pushed tokens go back
			inbound, err := l.inbound(ctx, asset)
			if err != nil || !inbound.IsPositive() {
				return err
			}

			return l.transfer(ctx, token, pool.ID(), inbound)
		}

		if err := l.settle(ctx, tx, pool.ID(), asset, owed); err != nil {
			return err
		}

		repaid = owed
		return nil
	})

	return repaid, err
}

// BorrowBalance debt of pool in token as of the last accrual
func (l *Ledger) BorrowBalance(ctx context.Context, pool, token string) (decimal.Decimal, error) {
	tx := l.view(ctx)
	asset, err := tx.asset(token)
	if err != nil {
		return decimal.Zero, err
	}

	return l.owed(ctx, tx.peekBorrow(pool, token), asset), nil
}

// BorrowBalancePostAccrue debt of pool in token after accruing token
func (l *Ledger) BorrowBalancePostAccrue(ctx context.Context, pool, token string) (decimal.Decimal, error) {
	var owed decimal.Decimal
	err := l.update(ctx, "borrow_balance", func(tx *txn) error {
		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		owed = l.owed(ctx, tx.peekBorrow(pool, token), asset)
		return nil
	})

	return owed, err
}

// Borrows borrow records of pool with non-zero principal
func (l *Ledger) Borrows(_ context.Context, pool string) []*core.BorrowRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var records []*core.BorrowRecord
	for _, token := range l.state.tokens {
		b, ok := l.state.borrows[borrowKey{pool: pool, token: token}]
		if ok && b.Principal.IsPositive() {
			records = append(records, b.Clone())
		}
	}

	return records
}
