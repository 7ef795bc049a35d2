package accrual

import (
	"context"
	"errors"
	"testing"
	"time"

	"lendingpool/core"

	"github.com/stretchr/testify/assert"
)

type fakeLedger struct {
	calls int
	err   error
}

func (l *fakeLedger) AccrueAll(_ context.Context) error {
	l.calls++
	return l.err
}

func TestOnWork(t *testing.T) {
	ledger := &fakeLedger{}
	w := New(time.UTC, "@every 1m", ledger)

	assert.Nil(t, w.OnWork())
	assert.Equal(t, 1, ledger.calls)

	ledger.err = core.ErrReentrant
	assert.Nil(t, w.OnWork())

	ledger.err = errors.New("rate model down")
	assert.NotNil(t, w.OnWork())
	assert.Equal(t, 3, ledger.calls)
}
