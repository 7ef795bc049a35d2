package ledger

import (
	"context"
	"fmt"

	"lendingpool/core"
	"lendingpool/internal/compound"
	"lendingpool/pkg/number"

	"github.com/shopspring/decimal"
)

// evaluate values the pool's balances against its debts.
// adjust holds balance changes not yet visible through pool.TokenReserve.
func (l *Ledger) evaluate(ctx context.Context, tx *txn, pool core.IPool, adjust map[string]decimal.Decimal) (*core.RiskReport, error) {
	var (
		collateral = decimal.Zero
		debt       = decimal.Zero
		assetValue = decimal.Zero
		debtValue  = decimal.Zero
		netValue   = decimal.Zero
	)

	for _, token := range tx.tokens() {
		asset, err := tx.asset(token)
		if err != nil {
			return nil, err
		}

		balance, err := pool.TokenReserve(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("reserve of %s in %s: %w", token, pool.ID(), err)
		}

		balance = balance.Add(adjust[token])
		owed := l.owed(ctx, tx.peekBorrow(pool.ID(), token), asset)

		if balance.IsZero() && owed.IsZero() {
			continue
		}

		price, err := l.oracle.Price(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("price of %s: %w", token, err)
		}

		if !price.IsPositive() {
			return nil, core.ErrInvalidPrice
		}

		net := balance.Sub(owed)
		if net.IsPositive() {
			counted := net
			if asset.MaxCollateralAmount.IsPositive() {
				counted = number.Min(counted, asset.MaxCollateralAmount)
			}

			collateral = collateral.Add(counted.Mul(asset.CollateralWeight).Mul(price))
		} else if net.IsNegative() {
			debt = debt.Add(net.Abs().Mul(asset.DebtWeight).Mul(price))
		}

		assetValue = assetValue.Add(balance.Mul(price))
		debtValue = debtValue.Add(owed.Mul(price))
		netValue = netValue.Add(net.Mul(price))
	}

	risk := l.cfg.Risk
	ratio := compound.SafeDivide(collateral, debt)
	borrowRatio := compound.SafeDivide(number.Max(netValue, decimal.Zero), debtValue)

	return &core.RiskReport{
		Pool:         pool.ID(),
		Collateral:   collateral,
		Debt:         debt,
		Ratio:        ratio,
		BorrowRatio:  borrowRatio,
		AssetValue:   assetValue,
		DebtValue:    debtValue,
		Safe:         ratio.GreaterThan(compound.One.Add(risk.InitialMargin)),
		BorrowSafe:   borrowRatio.GreaterThan(risk.InitialMargin),
		Liquidatable: ratio.LessThan(compound.One.Add(risk.MaintenanceMargin)),
		BadDebt:      assetValue.LessThan(debtValue),
	}, nil
}

// RiskReport risk evaluation of pool using indexes as of the last accrual
func (l *Ledger) RiskReport(ctx context.Context, pool core.IPool) (*core.RiskReport, error) {
	return l.evaluate(ctx, l.view(ctx), pool, nil)
}

// RiskReportPostAccrue risk evaluation of pool after accruing every token
func (l *Ledger) RiskReportPostAccrue(ctx context.Context, pool core.IPool) (*core.RiskReport, error) {
	var report *core.RiskReport
	err := l.update(ctx, "risk_report", func(tx *txn) error {
		if err := l.accrueAll(ctx, tx); err != nil {
			return err
		}

		r, err := l.evaluate(ctx, tx, pool, nil)
		report = r
		return err
	})

	return report, err
}

func (l *Ledger) report(ctx context.Context, pool core.IPool, postAccrue bool) (*core.RiskReport, error) {
	if postAccrue {
		return l.RiskReportPostAccrue(ctx, pool)
	}

	return l.RiskReport(ctx, pool)
}

// CollateralRatio weighted collateral / weighted debt
func (l *Ledger) CollateralRatio(ctx context.Context, pool core.IPool, postAccrue bool) (decimal.Decimal, error) {
	r, err := l.report(ctx, pool, postAccrue)
	if err != nil {
		return decimal.Zero, err
	}

	return r.Ratio, nil
}

// CollateralRatioBorrow net value / debt value, the ratio checked on borrow
func (l *Ledger) CollateralRatioBorrow(ctx context.Context, pool core.IPool, postAccrue bool) (decimal.Decimal, error) {
	r, err := l.report(ctx, pool, postAccrue)
	if err != nil {
		return decimal.Zero, err
	}

	return r.BorrowRatio, nil
}

// Safe collateral ratio above 1 + initial margin
func (l *Ledger) Safe(ctx context.Context, pool core.IPool, postAccrue bool) (bool, error) {
	r, err := l.report(ctx, pool, postAccrue)
	if err != nil {
		return false, err
	}

	return r.Safe, nil
}

// BorrowSafe borrow ratio above the initial margin
func (l *Ledger) BorrowSafe(ctx context.Context, pool core.IPool, postAccrue bool) (bool, error) {
	r, err := l.report(ctx, pool, postAccrue)
	if err != nil {
		return false, err
	}

	return r.BorrowSafe, nil
}

// Liquidatable collateral ratio below 1 + maintenance margin
func (l *Ledger) Liquidatable(ctx context.Context, pool core.IPool, postAccrue bool) (bool, error) {
	r, err := l.report(ctx, pool, postAccrue)
	if err != nil {
		return false, err
	}

	return r.Liquidatable, nil
}

// BadDebt unweighted asset value below unweighted debt value
func (l *Ledger) BadDebt(ctx context.Context, pool core.IPool, postAccrue bool) (bool, error) {
	r, err := l.report(ctx, pool, postAccrue)
	if err != nil {
		return false, err
	}

	return r.BadDebt, nil
}
