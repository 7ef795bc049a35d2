package core

import "strconv"

// ErrorCode int
type ErrorCode int

// ErrorKind failure category of an error code
type ErrorKind int

const (
	// KindUnknown unknown
	KindUnknown ErrorKind = iota
	// KindPolicy recoverable by the caller adjusting input
	KindPolicy
	// KindState caller or ordering bug, never retried
	KindState
	// KindTemporal retry later
	KindTemporal
)

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrQuotaExceeded user deposit quota exceeded
	ErrQuotaExceeded ErrorCode = 100102
	// ErrMaxDepositExceeded asset deposit cap exceeded
	ErrMaxDepositExceeded ErrorCode = 100103
	// ErrBelowMinimumShares bootstrap deposit too small
	ErrBelowMinimumShares ErrorCode = 100104
	// ErrInsufficientShares share balance insufficient
	ErrInsufficientShares ErrorCode = 100105
	// ErrRepayExceedsDebt repay amount exceeds owed debt
	ErrRepayExceedsDebt ErrorCode = 100106
	// ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100107
	// ErrBorrowQuotaExceeded borrow exceeds pool quota
	ErrBorrowQuotaExceeded ErrorCode = 100108
	// ErrInsufficientCollaterals borrow would leave the pool unsafe
	ErrInsufficientCollaterals ErrorCode = 100109
	// ErrInvalidPrice price not feasible
	ErrInvalidPrice ErrorCode = 100110
	// ErrInsufficientReserves reserve withdrawal exceeds reserves
	ErrInsufficientReserves ErrorCode = 100111
	// ErrRepaymentNotReceived custody holds less than the repaid amount above cash
	ErrRepaymentNotReceived ErrorCode = 100112
	// ErrInvalidAction memo action malformed or not offered
	ErrInvalidAction ErrorCode = 100113

	// ErrAssetNotFound no asset
	ErrAssetNotFound ErrorCode = 100200
	// ErrAssetDisabled asset disabled
	ErrAssetDisabled ErrorCode = 100201
	// ErrAssetExists asset already registered
	ErrAssetExists ErrorCode = 100202
	// ErrPoolInLiquidation pool flagged in liquidation
	ErrPoolInLiquidation ErrorCode = 100203
	// ErrDepositNotFound no fixed-term deposit
	ErrDepositNotFound ErrorCode = 100204
	// ErrDepositKeyMismatch key does not match the recorded deposit
	ErrDepositKeyMismatch ErrorCode = 100205
	// ErrDepositKeyExists deposit key already used
	ErrDepositKeyExists ErrorCode = 100206
	// ErrPartialRedemption redeemed shares differ from the recorded shares
	ErrPartialRedemption ErrorCode = 100207
	// ErrReentrant another ledger operation in progress
	ErrReentrant ErrorCode = 100208
	// ErrPoolNotFound sender is not a registered pool
	ErrPoolNotFound ErrorCode = 100209

	// ErrLockNotExpired fixed-term lock not expired
	ErrLockNotExpired ErrorCode = 100300
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Kind category of the code
func (e ErrorCode) Kind() ErrorKind {
	switch {
	case e > 100100 && e < 100200:
		return KindPolicy
	case e >= 100200 && e < 100300:
		return KindState
	case e >= 100300 && e < 100400:
		return KindTemporal
	default:
		return KindUnknown
	}
}
