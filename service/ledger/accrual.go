package ledger

import (
	"context"
	"fmt"

	"lendingpool/core"
	"lendingpool/internal/compound"

	"github.com/fox-one/pkg/logger"
)

// accrue brings the asset's borrows, reserves and index forward to tx.now
func (l *Ledger) accrue(ctx context.Context, tx *txn, token string) (*core.AssetInfo, error) {
	asset, err := tx.asset(token)
	if err != nil {
		return nil, err
	}

	if asset.AccrualTime.IsZero() {
		asset.AccrualTime = tx.now
		return asset, nil
	}

	elapsed := int64(tx.now.Sub(asset.AccrualTime).Seconds())
	if elapsed <= 0 {
		return asset, nil
	}

	utilization := compound.UtilizationRate(asset.Cash, asset.TotalBorrows, asset.UnwithdrawnReserves())
	rate, err := l.rateModel.BorrowRate(ctx, token, utilization)
	if err != nil {
		return nil, fmt.Errorf("borrow rate of %s: %w", token, err)
	}

	multiplier := compound.CompoundMultiplier(compound.RatePerSecond(rate), elapsed)
	accrual := compound.AccrueInterest(
		asset.TotalBorrows,
		asset.TotalReserves,
		asset.BorrowIndex,
		asset.ReserveFactor,
		multiplier,
	)

	asset.TotalBorrows = accrual.TotalBorrows
	asset.TotalReserves = accrual.TotalReserves
	asset.BorrowIndex = accrual.BorrowIndex
	asset.AccrualTime = tx.now

	logger.FromContext(ctx).WithField("token", token).Debugf(
		"accrued %s interest over %ds, index %s",
		accrual.Interest, elapsed, accrual.BorrowIndex,
	)

	return asset, nil
}

func (l *Ledger) accrueAll(ctx context.Context, tx *txn) error {
	for _, token := range tx.tokens() {
		if _, err := l.accrue(ctx, tx, token); err != nil {
			return err
		}
	}

	return nil
}

// Accrue accrues interest of token up to now and returns the updated asset
func (l *Ledger) Accrue(ctx context.Context, token string) (*core.AssetInfo, error) {
	var out *core.AssetInfo
	err := l.update(ctx, "accrue", func(tx *txn) error {
		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		out = asset.Clone()
		return nil
	})

	return out, err
}

// AccrueAll accrues every registered token
func (l *Ledger) AccrueAll(ctx context.Context) error {
	return l.update(ctx, "accrue_all", func(tx *txn) error {
		return l.accrueAll(ctx, tx)
	})
}
