package compound

import (
	"github.com/shopspring/decimal"
)

// Accrual result of one accrual step
type Accrual struct {
	TotalBorrows  decimal.Decimal
	TotalReserves decimal.Decimal
	BorrowIndex   decimal.Decimal
	// newly accrued interest
	Interest decimal.Decimal
}

// CompoundMultiplier second-order Taylor approximation of (1+r)^t
//
// t < 1: 1, 1 <= t < 2: 1 + r*t, t >= 2: 1 + r*t + r^2*t*(t-1)/2
func CompoundMultiplier(ratePerSecond decimal.Decimal, seconds int64) decimal.Decimal {
	if seconds < 1 {
		return One
	}

	t := decimal.NewFromInt(seconds)
	first := ratePerSecond.Mul(t)
	if seconds < 2 {
		return One.Add(first)
	}

	// t*(t-1) is always even
	half := decimal.NewFromInt(seconds * (seconds - 1) / 2)
	second := ratePerSecond.Mul(ratePerSecond).Mul(half)
	return One.Add(first).Add(second)
}

// AccrueInterest applies the multiplier to total borrows and the borrow index,
// routing reserveFactor of the new interest into reserves
func AccrueInterest(totalBorrows, totalReserves, borrowIndex, reserveFactor, multiplier decimal.Decimal) Accrual {
	if !borrowIndex.IsPositive() {
		borrowIndex = One
	}

	borrowsNew := totalBorrows.Mul(multiplier).Truncate(MaxPrecision)
	interest := borrowsNew.Sub(totalBorrows)
	reservesNew := totalReserves.Add(interest.Mul(reserveFactor).Truncate(MaxPrecision))
	// owed amounts scale by the index, kept finer than the amounts themselves
	indexNew := borrowIndex.Mul(multiplier).Truncate(RatePrecision)

	return Accrual{
		TotalBorrows:  borrowsNew,
		TotalReserves: reservesNew,
		BorrowIndex:   indexNew,
		Interest:      interest,
	}
}
