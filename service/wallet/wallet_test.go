package wallet

import (
	"context"
	"testing"

	"lendingpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustodyBook(t *testing.T) {
	ctx := context.Background()
	c := New(&Wallet{})

	c.Reset([]*core.AssetInfo{
		{Token: "usdt", Cash: decimal.NewFromInt(70)},
		{Token: "btc", Cash: decimal.Zero},
	})

	balance, err := c.Balance(ctx, "usdt")
	require.Nil(t, err)
	assert.Equal(t, "70", balance.String())

	c.Receive("usdt", decimal.NewFromInt(10))
	balance, _ = c.Balance(ctx, "usdt")
	assert.Equal(t, "80", balance.String())

	c.Receive("usdt", decimal.NewFromInt(-10))
	balance, _ = c.Balance(ctx, "usdt")
	assert.Equal(t, "70", balance.String())

	balance, _ = c.Balance(ctx, "unknown")
	assert.True(t, balance.IsZero())

	// a reset drops whatever was not dispatched
	c.Receive("btc", decimal.NewFromInt(1))
	c.Reset(nil)
	balance, _ = c.Balance(ctx, "btc")
	assert.True(t, balance.IsZero())
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromInt(10)

	assert.NotEqual(t, traceID(ctx, "usdt", "bob", amount), traceID(ctx, "usdt", "bob", amount))

	follow := WithFollowID(ctx, "a8f4f8c5-6d53-3b4f-8e7c-0f8bbd4c2c01")
	first := traceID(follow, "usdt", "bob", amount)
	assert.Equal(t, first, traceID(follow, "usdt", "bob", amount), "replays transfer under the same trace")
	assert.NotEqual(t, first, traceID(follow, "usdt", "alice", amount))
	assert.NotEqual(t, first, traceID(follow, "usdt", "bob", decimal.NewFromInt(11)))
}
