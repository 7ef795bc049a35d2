package ledger

import (
	"context"
	"fmt"
	"time"

	"lendingpool/core"
	"lendingpool/internal/compound"
	"lendingpool/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// DepositKey key of a fixed-term deposit made by owner at height and ts
func DepositKey(owner string, height int64, ts time.Time) string {
	return id.UUIDFromString(fmt.Sprintf("fixed-term:%s:%d:%d", owner, height, ts.UnixNano()))
}

// LockedDeposit mints shares for the pushed tokens and locks them under tier
func (l *Ledger) LockedDeposit(ctx context.Context, owner, token string, tier core.FixedTermTier) (*core.FixedTermDeposit, error) {
	var out *core.FixedTermDeposit
	err := l.update(ctx, "locked_deposit", func(tx *txn) error {
		if tier.LockDays <= 0 {
			return core.ErrInvalidAmount
		}

		asset, err := l.enabledAsset(ctx, tx, token)
		if err != nil {
			return err
		}

		height, err := l.blocks.CurrentBlock(ctx)
		if err != nil {
			return fmt.Errorf("current block: %w", err)
		}

		// stores keep microseconds
		ts := tx.rawNow.Truncate(time.Microsecond)
		key := DepositKey(owner, height, ts)
		if _, ok := tx.deposit(key); ok {
			return core.ErrDepositKeyExists
		}

		shares, amount, err := l.mint(ctx, tx, asset, owner)
		if err != nil {
			return err
		}

		d := &core.FixedTermDeposit{
			FixedTermTier:      tier,
			Key:                key,
			Owner:              owner,
			Token:              token,
			ShareToken:         asset.ShareToken,
			ShareAmount:        shares,
			PrincipalAmount:    amount,
			DepositTimestamp:   ts,
			DepositBlockHeight: height,
		}

		tx.putDeposit(d)
		out = d.Clone()

		logger.FromContext(ctx).WithField("token", token).Infof("%s locked %s for %d days, key %s", owner, amount, tier.LockDays, key)
		return nil
	})

	return out, err
}

// lookup finds the deposit indexed by (token, owner, key) and checks its key derivation
func lookup(tx *txn, owner, token, key string) (*core.FixedTermDeposit, error) {
	d, ok := tx.deposit(key)
	if !ok || d.Owner != owner || d.Token != token {
		return nil, core.ErrDepositNotFound
	}

	if DepositKey(d.Owner, d.DepositBlockHeight, d.DepositTimestamp) != key {
		return nil, core.ErrDepositKeyMismatch
	}

	return d, nil
}

func (l *Ledger) deposit(owner, token, key string) (*core.FixedTermDeposit, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return lookup(newTxn(l.state, time.Time{}), owner, token, key)
}

func (l *Ledger) tierRate(ctx context.Context, d *core.FixedTermDeposit) (decimal.Decimal, error) {
	price, err := l.oracle.Price(ctx, d.Token)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price of %s: %w", d.Token, err)
	}

	return compound.TieredRate(
		price,
		d.BaseInterestRate,
		d.LowInterestRate,
		d.HighInterestRate,
		d.LowPriceBound,
		d.HighPriceBound,
	), nil
}

// CurrentAccruedInterest interest earned so far by the deposit at the current price
func (l *Ledger) CurrentAccruedInterest(ctx context.Context, owner, token, key string) (decimal.Decimal, error) {
	d, err := l.deposit(owner, token, key)
	if err != nil {
		return decimal.Zero, err
	}

	rate, err := l.tierRate(ctx, d)
	if err != nil {
		return decimal.Zero, err
	}

	days := compound.ElapsedDays(d.DepositTimestamp, l.now(ctx), d.LockDays)
	return compound.FixedTermInterest(d.PrincipalAmount, rate, days), nil
}

// FinalInterest interest paid on redemption, available once the lock expired
func (l *Ledger) FinalInterest(ctx context.Context, owner, token, key string) (decimal.Decimal, error) {
	d, err := l.deposit(owner, token, key)
	if err != nil {
		return decimal.Zero, err
	}

	if !compound.LockExpired(d.DepositTimestamp, l.now(ctx), d.LockDays) {
		return decimal.Zero, core.ErrLockNotExpired
	}

	rate, err := l.tierRate(ctx, d)
	if err != nil {
		return decimal.Zero, err
	}

	return compound.FixedTermInterest(d.PrincipalAmount, rate, d.LockDays), nil
}

// Redeem burns all shares of an expired deposit and pays principal plus interest to receiver
func (l *Ledger) Redeem(ctx context.Context, receiver, owner, token, key string, shareAmount decimal.Decimal) (decimal.Decimal, error) {
	var payout decimal.Decimal
	err := l.update(ctx, "redeem", func(tx *txn) error {
		d, err := lookup(tx, owner, token, key)
		if err != nil {
			return err
		}

		if !shareAmount.Equal(d.ShareAmount) {
			return core.ErrPartialRedemption
		}

		if !compound.LockExpired(d.DepositTimestamp, tx.rawNow, d.LockDays) {
			return core.ErrLockNotExpired
		}

		asset, err := l.accrue(ctx, tx, token)
		if err != nil {
			return err
		}

		balance, err := l.shares.BalanceOf(ctx, d.ShareToken, owner)
		if err != nil {
			return fmt.Errorf("share balance of %s: %w", owner, err)
		}

		if balance.LessThan(shareAmount) {
			return core.ErrInsufficientShares
		}

		rate, err := l.tierRate(ctx, d)
		if err != nil {
			return err
		}

		interest := compound.FixedTermInterest(d.PrincipalAmount, rate, d.LockDays)
		amount := d.PrincipalAmount.Add(interest).Truncate(compound.AmountPrecision)
		if amount.GreaterThan(asset.AvailableCash()) {
			return core.ErrInsufficientLiquidity
		}

		asset.Cash = asset.Cash.Sub(amount)
		tx.deleteDeposit(key)

		if err := l.burnFrom(ctx, tx, d.ShareToken, owner, shareAmount); err != nil {
			return err
		}

		if err := l.transfer(ctx, token, receiver, amount); err != nil {
			return err
		}

		payout = amount
		logger.FromContext(ctx).WithField("token", token).Infof("%s redeemed %s, interest %s", owner, key, interest)
		return nil
	})

	return payout, err
}

// Deposits active fixed-term deposits of owner in token.
// Redemption moves the last deposit into the redeemed slot, order is not stable.
func (l *Ledger) Deposits(_ context.Context, token, owner string) []*core.FixedTermDeposit {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list, ok := l.state.owners[ownerKey{token: token, owner: owner}]
	if !ok {
		return nil
	}

	deposits := make([]*core.FixedTermDeposit, 0, list.Len())
	for _, key := range list.Keys() {
		deposits = append(deposits, l.state.deposits[key].Clone())
	}

	return deposits
}
