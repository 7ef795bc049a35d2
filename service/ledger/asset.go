package ledger

import (
	"context"
	"fmt"

	"lendingpool/core"
	"lendingpool/internal/compound"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// AddAsset registers a new token, enabled with a unit borrow index
func (l *Ledger) AddAsset(ctx context.Context, cfg core.AssetConfig) (*core.AssetInfo, error) {
	var out *core.AssetInfo
	err := l.update(ctx, "add_asset", func(tx *txn) error {
		if cfg.Token == "" || cfg.ShareToken == "" {
			return core.ErrInvalidAmount
		}

		if tx.hasAsset(cfg.Token) {
			return core.ErrAssetExists
		}

		initRate := cfg.InitExchangeRate
		if !initRate.IsPositive() {
			initRate = compound.One
		}

		asset := &core.AssetInfo{
			Token:               cfg.Token,
			ShareToken:          cfg.ShareToken,
			Enabled:             true,
			Cash:                decimal.Zero,
			TotalBorrows:        decimal.Zero,
			TotalReserves:       decimal.Zero,
			WithdrawnReserves:   decimal.Zero,
			BorrowIndex:         compound.One,
			AccrualTime:         tx.now,
			ReserveFactor:       cfg.ReserveFactor,
			MaxDepositAmount:    cfg.MaxDepositAmount,
			CollateralWeight:    cfg.CollateralWeight,
			DebtWeight:          cfg.DebtWeight,
			MaxCollateralAmount: cfg.MaxCollateralAmount,
			InitExchangeRate:    initRate,
			CreatedAt:           tx.rawNow,
		}

		tx.addAsset(asset)
		out = asset.Clone()
		return nil
	})

	return out, err
}

// SetAssetEnabled enables or disables deposits, withdrawals and borrows of token
func (l *Ledger) SetAssetEnabled(ctx context.Context, token string, enabled bool) error {
	return l.update(ctx, "set_asset_enabled", func(tx *txn) error {
		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		asset.Enabled = enabled
		return nil
	})
}

// Asset state of token as of its last accrual
func (l *Ledger) Asset(_ context.Context, token string) (*core.AssetInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	asset, ok := l.state.assets[token]
	if !ok {
		return nil, core.ErrAssetNotFound
	}

	return asset.Clone(), nil
}

// Assets all assets in registration order
func (l *Ledger) Assets(_ context.Context) []*core.AssetInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	assets := make([]*core.AssetInfo, 0, len(l.state.tokens))
	for _, token := range l.state.tokens {
		assets = append(assets, l.state.assets[token].Clone())
	}

	return assets
}

func (l *Ledger) enabledAsset(ctx context.Context, tx *txn, token string) (*core.AssetInfo, error) {
	asset, err := tx.asset(token)
	if err != nil {
		return nil, err
	}

	if !asset.Enabled {
		return nil, core.ErrAssetDisabled
	}

	return l.accrue(ctx, tx, token)
}

func (l *Ledger) exchangeRate(ctx context.Context, asset *core.AssetInfo) (decimal.Decimal, decimal.Decimal, error) {
	supply, err := l.shares.TotalSupply(ctx, asset.ShareToken)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("total supply of %s: %w", asset.ShareToken, err)
	}

	rate := compound.GetExchangeRate(
		asset.Cash,
		asset.TotalBorrows,
		asset.UnwithdrawnReserves(),
		supply,
		asset.InitExchangeRate,
	)

	return rate, supply, nil
}

// mint credits shares for the tokens pushed to custody since the last recorded cash.
// Returns the shares credited to user and the inbound amount.
func (l *Ledger) mint(ctx context.Context, tx *txn, asset *core.AssetInfo, user string) (decimal.Decimal, decimal.Decimal, error) {
	amount, err := l.inbound(ctx, asset)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, core.ErrInvalidAmount
	}

	if asset.MaxDepositAmount.IsPositive() {
		total := asset.Cash.Add(asset.TotalBorrows).Sub(asset.UnwithdrawnReserves()).Add(amount)
		if total.GreaterThan(asset.MaxDepositAmount) {
			return decimal.Zero, decimal.Zero, core.ErrMaxDepositExceeded
		}
	}

	feasible, err := l.oracle.IsPriceFeasible(ctx, asset.Token)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("price feasibility of %s: %w", asset.Token, err)
	}

	if !feasible {
		return decimal.Zero, decimal.Zero, core.ErrInvalidPrice
	}

	ok, err := l.userQuota.CheckQuota(ctx, user, asset.Token, amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("quota of %s: %w", user, err)
	}

	if !ok {
		return decimal.Zero, decimal.Zero, core.ErrQuotaExceeded
	}

	rate, supply, err := l.exchangeRate(ctx, asset)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if !rate.IsPositive() {
		return decimal.Zero, decimal.Zero, core.ErrInsufficientLiquidity
	}

	shares := amount.DivRound(rate, compound.RatePrecision).Truncate(compound.AmountPrecision)
	credited := shares
	retired := decimal.Zero

	if !supply.IsPositive() && l.cfg.MinimumShares.IsPositive() {
		if !shares.GreaterThan(l.cfg.MinimumShares) {
			return decimal.Zero, decimal.Zero, core.ErrBelowMinimumShares
		}

		retired = l.cfg.MinimumShares
		credited = shares.Sub(retired)
	}

	if !credited.IsPositive() {
		return decimal.Zero, decimal.Zero, core.ErrInvalidAmount
	}

	asset.Cash = asset.Cash.Add(amount)

	if retired.IsPositive() {
		if err := l.mintTo(ctx, tx, asset.ShareToken, l.cfg.ShareSink, retired); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}

	if err := l.mintTo(ctx, tx, asset.ShareToken, user, credited); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return credited, amount, nil
}

func (l *Ledger) mintTo(ctx context.Context, tx *txn, shareToken, holder string, amount decimal.Decimal) error {
	if err := l.shares.Mint(ctx, shareToken, holder, amount); err != nil {
		return fmt.Errorf("mint %s %s: %w", amount, shareToken, err)
	}

	tx.compensate(func(ctx context.Context) error {
		return l.shares.Burn(ctx, shareToken, holder, amount)
	})

	return nil
}

func (l *Ledger) burnFrom(ctx context.Context, tx *txn, shareToken, holder string, amount decimal.Decimal) error {
	if err := l.shares.Burn(ctx, shareToken, holder, amount); err != nil {
		return fmt.Errorf("burn %s %s: %w", amount, shareToken, err)
	}

	tx.compensate(func(ctx context.Context) error {
		return l.shares.Mint(ctx, shareToken, holder, amount)
	})

	return nil
}

// inbound tokens pushed to custody and not yet recorded as cash
func (l *Ledger) inbound(ctx context.Context, asset *core.AssetInfo) (decimal.Decimal, error) {
	balance, err := l.custody.Balance(ctx, asset.Token)
	if err != nil {
		return decimal.Zero, fmt.Errorf("custody balance of %s: %w", asset.Token, err)
	}

	return balance.Sub(asset.Cash), nil
}

func (l *Ledger) transfer(ctx context.Context, token, to string, amount decimal.Decimal) error {
	if err := l.custody.Transfer(ctx, token, to, amount); err != nil {
		return fmt.Errorf("transfer %s %s to %s: %w", amount, token, to, err)
	}

	return nil
}

// Deposit credits user with shares for the tokens pushed to custody beforehand
func (l *Ledger) Deposit(ctx context.Context, user, token string) (decimal.Decimal, error) {
	var shares decimal.Decimal
	err := l.update(ctx, "deposit", func(tx *txn) error {
		asset, err := l.enabledAsset(ctx, tx, token)
		if err != nil {
			return err
		}

		credited, amount, err := l.mint(ctx, tx, asset, user)
		if err != nil {
			return err
		}

		shares = credited
		logger.FromContext(ctx).WithField("token", token).Infof("%s deposited %s for %s shares", user, amount, credited)
		return nil
	})

	return shares, err
}

// Withdraw burns shareAmount shares of user and pays the underlying tokens to receiver
func (l *Ledger) Withdraw(ctx context.Context, receiver, user, token string, shareAmount decimal.Decimal) (decimal.Decimal, error) {
	var payout decimal.Decimal
	err := l.update(ctx, "withdraw", func(tx *txn) error {
		if !shareAmount.IsPositive() {
			return core.ErrInvalidAmount
		}

		asset, err := l.enabledAsset(ctx, tx, token)
		if err != nil {
			return err
		}

		balance, err := l.shares.BalanceOf(ctx, asset.ShareToken, user)
		if err != nil {
			return fmt.Errorf("share balance of %s: %w", user, err)
		}

		// shares under a fixed-term lock leave only through Redeem
		free := balance.Sub(tx.lockedShares(token, user))
		if free.LessThan(shareAmount) {
			return core.ErrInsufficientShares
		}

		rate, _, err := l.exchangeRate(ctx, asset)
		if err != nil {
			return err
		}

		amount := shareAmount.Mul(rate).Truncate(compound.AmountPrecision)
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		if amount.GreaterThan(asset.AvailableCash()) {
			return core.ErrInsufficientLiquidity
		}

		asset.Cash = asset.Cash.Sub(amount)

		if err := l.burnFrom(ctx, tx, asset.ShareToken, user, shareAmount); err != nil {
			return err
		}

		if err := l.transfer(ctx, token, receiver, amount); err != nil {
			return err
		}

		payout = amount
		return nil
	})

	return payout, err
}

// WithdrawReserves pays accumulated reserves of token to receiver
func (l *Ledger) WithdrawReserves(ctx context.Context, receiver, token string, amount decimal.Decimal) error {
	return l.update(ctx, "withdraw_reserves", func(tx *txn) error {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}

		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		if amount.GreaterThan(asset.UnwithdrawnReserves()) {
			return core.ErrInsufficientReserves
		}

		if amount.GreaterThan(asset.Cash) {
			return core.ErrInsufficientLiquidity
		}

		asset.Cash = asset.Cash.Sub(amount)
		asset.WithdrawnReserves = asset.WithdrawnReserves.Add(amount)

		return l.transfer(ctx, token, receiver, amount)
	})
}

// ExchangeRate tokens per share, accruing token first
func (l *Ledger) ExchangeRate(ctx context.Context, token string) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := l.update(ctx, "exchange_rate", func(tx *txn) error {
		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		rate, _, err = l.exchangeRate(ctx, asset)
		return err
	})

	return rate, err
}

// ExchangeRateStored tokens per share as of the last accrual
func (l *Ledger) ExchangeRateStored(ctx context.Context, token string) (decimal.Decimal, error) {
	asset, err := l.Asset(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	rate, _, err := l.exchangeRate(ctx, asset)
	return rate, err
}

// Utilization borrows / (cash + borrows - reserves) as of the last accrual
func (l *Ledger) Utilization(ctx context.Context, token string) (decimal.Decimal, error) {
	asset, err := l.Asset(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	return compound.UtilizationRate(asset.Cash, asset.TotalBorrows, asset.UnwithdrawnReserves()), nil
}

// UtilizationPostAccrue utilization after accruing token
func (l *Ledger) UtilizationPostAccrue(ctx context.Context, token string) (decimal.Decimal, error) {
	asset, err := l.Accrue(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	return compound.UtilizationRate(asset.Cash, asset.TotalBorrows, asset.UnwithdrawnReserves()), nil
}

// BorrowRate annualized borrow rate at the current utilization
func (l *Ledger) BorrowRate(ctx context.Context, token string) (decimal.Decimal, error) {
	utilization, err := l.Utilization(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	return l.rateModel.BorrowRate(ctx, token, utilization)
}

// SupplyRate annualized rate earned by share holders
func (l *Ledger) SupplyRate(ctx context.Context, token string) (decimal.Decimal, error) {
	asset, err := l.Asset(ctx, token)
	if err != nil {
		return decimal.Zero, err
	}

	utilization := compound.UtilizationRate(asset.Cash, asset.TotalBorrows, asset.UnwithdrawnReserves())
	borrowRate, err := l.rateModel.BorrowRate(ctx, token, utilization)
	if err != nil {
		return decimal.Zero, err
	}

	return compound.GetSupplyRate(borrowRate, utilization, asset.ReserveFactor), nil
}
