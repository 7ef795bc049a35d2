package checkpoint

import (
	"testing"

	"lendingpool/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStaleDeposits(t *testing.T) {
	persisted := []*core.FixedTermDeposit{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	live := []*core.FixedTermDeposit{{Key: "b"}, {Key: "d"}}

	assert.Equal(t, []string{"a", "c"}, staleDeposits(persisted, live))
	assert.Empty(t, staleDeposits(nil, live))
}

func TestCountBorrowers(t *testing.T) {
	borrows := []*core.BorrowRecord{
		{Pool: "p1", Principal: decimal.NewFromInt(3)},
		{Pool: "p2", Principal: decimal.Zero},
		{Pool: "p3", Principal: decimal.RequireFromString("0.00000001")},
	}

	assert.Equal(t, int64(2), countBorrowers(borrows))
}
