package ratemodel

import (
	"context"
	"fmt"

	"lendingpool/core"
	"lendingpool/internal/compound"

	"github.com/shopspring/decimal"
)

// Curve kinked jump rate curve, rates are annualized
type Curve struct {
	BaseRate       decimal.Decimal `json:"base_rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	JumpMultiplier decimal.Decimal `json:"jump_multiplier"`
	// utilization above which JumpMultiplier applies, zero disables the jump
	Kink decimal.Decimal `json:"kink"`
}

// BorrowRate borrow rate at utilization
func (c Curve) BorrowRate(utilization decimal.Decimal) decimal.Decimal {
	if c.Kink.IsZero() || utilization.LessThanOrEqual(c.Kink) {
		return utilization.Mul(c.Multiplier).Add(c.BaseRate).Truncate(compound.MaxPrecision)
	}

	normalRate := c.Kink.Mul(c.Multiplier).Add(c.BaseRate)
	excessUtil := utilization.Sub(c.Kink)
	return excessUtil.Mul(c.JumpMultiplier).Add(normalRate).Truncate(compound.MaxPrecision)
}

type rateModel struct {
	curves map[string]Curve
}

// New rate model with one curve per token
func New(curves map[string]Curve) core.IRateModel {
	return &rateModel{curves: curves}
}

func (m *rateModel) BorrowRate(_ context.Context, token string, utilization decimal.Decimal) (decimal.Decimal, error) {
	curve, ok := m.curves[token]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate curve for %s", token)
	}

	return curve.BorrowRate(utilization), nil
}
