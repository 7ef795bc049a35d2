package compound

import (
	"time"

	"github.com/shopspring/decimal"
)

// TieredRate annualized rate of a fixed-term deposit at the given price.
//
// Inside [lowPrice, highPrice] the rate is interpolated linearly between lowRate and highRate,
// outside the band baseRate applies.
func TieredRate(price, baseRate, lowRate, highRate, lowPrice, highPrice decimal.Decimal) decimal.Decimal {
	if price.LessThan(lowPrice) || price.GreaterThan(highPrice) {
		return baseRate
	}

	band := highPrice.Sub(lowPrice)
	if !band.IsPositive() {
		return lowRate
	}

	position := price.Sub(lowPrice).DivRound(band, RatePrecision)
	return lowRate.Add(highRate.Sub(lowRate).Mul(position)).Truncate(MaxPrecision)
}

// FixedTermInterest simple interest: principal * rate / 365 * days
func FixedTermInterest(principal, rate decimal.Decimal, days int64) decimal.Decimal {
	if days <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	return principal.Mul(rate).Mul(decimal.NewFromInt(days)).
		DivRound(DaysPerYear, RatePrecision).Truncate(MaxPrecision)
}

// ElapsedDays whole days between from and to, clamped to [0, lockDays]
func ElapsedDays(from, to time.Time, lockDays int64) int64 {
	days := int64(to.Sub(from) / (24 * time.Hour))
	if days < 0 {
		return 0
	}

	if days > lockDays {
		return lockDays
	}

	return days
}

// LockExpired whether lockDays full days passed since from
func LockExpired(from, to time.Time, lockDays int64) bool {
	return !to.Before(from.Add(time.Duration(lockDays) * 24 * time.Hour))
}
