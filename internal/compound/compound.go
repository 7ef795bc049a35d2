package compound

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	// MaxPrecision max precision of stored amounts and rates
	MaxPrecision int32 = 16
	// RatePrecision precision of per-second rates, quotients and the borrow index
	RatePrecision int32 = 24
	// AmountPrecision precision of token payouts and minted shares
	AmountPrecision int32 = 8
	// SecondsPerYear seconds per year
	SecondsPerYear = decimal.NewFromInt(31536000)
	// DaysPerYear days per year used by fixed-term interest
	DaysPerYear = decimal.NewFromInt(365)
	// One 1.0
	One = decimal.New(1, 0)
	// MaxRatio collateral ratio of a pool without debt, the max 256-bit word
	MaxRatio = decimal.NewFromBigInt(new(uint256.Int).SetAllOne().ToBig(), 0)
)

// UtilizationRate utilization rate
// utilization_rate = borrows / (cash + borrows - reserves)
func UtilizationRate(cash, borrows, reserves decimal.Decimal) decimal.Decimal {
	if !borrows.IsPositive() {
		return decimal.Zero
	}

	total := cash.Add(borrows).Sub(reserves)
	if !total.IsPositive() {
		return One
	}

	return borrows.DivRound(total, RatePrecision).Truncate(MaxPrecision)
}

// GetExchangeRate exchange rate
// exchange_rate = (cash + borrows - reserves) / share_supply
func GetExchangeRate(cash, borrows, reserves, shareSupply, initExchangeRate decimal.Decimal) decimal.Decimal {
	if !shareSupply.IsPositive() {
		return initExchangeRate
	}

	total := cash.Add(borrows).Sub(reserves)
	if !total.IsPositive() {
		return decimal.Zero
	}

	return total.DivRound(shareSupply, RatePrecision).Truncate(MaxPrecision)
}

// GetSupplyRate annualized supply rate
// supply_rate = borrow_rate * utilization_rate * (1 - reserve_factor)
func GetSupplyRate(borrowRate, utilizationRate, reserveFactor decimal.Decimal) decimal.Decimal {
	rateToPool := borrowRate.Mul(One.Sub(reserveFactor))
	return utilizationRate.Mul(rateToPool).Truncate(MaxPrecision)
}

// RatePerSecond converts an annualized rate into a per-second rate
func RatePerSecond(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.DivRound(SecondsPerYear, RatePrecision)
}

// SafeDivide collateral / debt with sentinels:
// (0, 0) => 1, (0, debt) => 0, (collateral, 0) => MaxRatio
func SafeDivide(collateral, debt decimal.Decimal) decimal.Decimal {
	hasCollateral := collateral.IsPositive()
	hasDebt := debt.IsPositive()

	switch {
	case !hasCollateral && !hasDebt:
		return One
	case !hasCollateral:
		return decimal.Zero
	case !hasDebt:
		return MaxRatio
	}

	return collateral.DivRound(debt, RatePrecision).Truncate(MaxPrecision)
}
