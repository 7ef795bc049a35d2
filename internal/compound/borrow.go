package compound

import (
	"lendingpool/pkg/number"

	"github.com/shopspring/decimal"
)

// BorrowBalance caculate borrow balance
// balance = principal * current_index / interest_index
//
// A zero interest index means the record was settled at the current index.
// An interest index above the current one is clamped to it and reported,
// since it can only come from an accrual ordering bug.
func BorrowBalance(principal, interestIndex, currentIndex decimal.Decimal) (balance decimal.Decimal, clamped bool) {
	if !principal.IsPositive() {
		return decimal.Zero, false
	}

	if !currentIndex.IsPositive() {
		currentIndex = One
	}

	if !interestIndex.IsPositive() {
		interestIndex = currentIndex
	}

	if interestIndex.GreaterThan(currentIndex) {
		interestIndex = currentIndex
		clamped = true
	}

	balance = number.Ceil(principal.Mul(currentIndex).DivRound(interestIndex, RatePrecision), MaxPrecision)
	return balance, clamped
}
