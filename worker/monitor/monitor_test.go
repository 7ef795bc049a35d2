package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"lendingpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool string

func (p fakePool) ID() string { return string(p) }

func (p fakePool) TokenReserve(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (p fakePool) IsInLiquidation(_ context.Context) (bool, error) { return false, nil }

type fakeLedger struct {
	reports map[string]*core.RiskReport
	clamps  int64
}

func (l *fakeLedger) RiskReport(_ context.Context, pool core.IPool) (*core.RiskReport, error) {
	r, ok := l.reports[pool.ID()]
	if !ok {
		return nil, errors.New("oracle down")
	}

	return r, nil
}

func (l *fakeLedger) IndexClamps() int64 { return l.clamps }

func TestMonitor(t *testing.T) {
	ledger := &fakeLedger{
		reports: map[string]*core.RiskReport{
			"healthy": {Pool: "healthy", Safe: true},
			"sinking": {Pool: "sinking", Liquidatable: true, BadDebt: true},
		},
		clamps: 2,
	}

	pools := map[string]core.IPool{
		"healthy": fakePool("healthy"),
		"sinking": fakePool("sinking"),
		"broken":  fakePool("broken"),
	}

	w := New(time.UTC, "@every 30s", ledger, pools)
	require.Nil(t, w.OnWork())

	r, ok := w.Report("sinking")
	require.True(t, ok)
	assert.True(t, r.BadDebt)

	_, ok = w.Report("healthy")
	assert.True(t, ok)

	_, ok = w.Report("broken")
	assert.False(t, ok)
	assert.Equal(t, int64(2), w.lastClamps)
}
